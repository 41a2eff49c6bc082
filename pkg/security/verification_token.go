package security

import (
	"errors"
	"time"

	"faithconnect/community-api/pkg/util"
)

const (
	tokenSize = 32
)

type VerificationTokenOpts struct {
	// TTL of zero means the token never expires
	TTL time.Duration
	Now func() time.Time
}

// VerificationToken is a single use secret mailed to a user to prove they
// control their email address
type VerificationToken struct {
	Token     string
	ExpiresAt *time.Time
}

func MakeVerificationToken(o *VerificationTokenOpts) (*VerificationToken, error) {
	if o == nil {
		return nil, errors.New("no token options provided")
	}

	if o.TTL < 0 {
		return nil, errors.New("negative token ttl provided")
	}

	token, err := util.GenerateToken(tokenSize)
	if err != nil {
		return nil, err
	}

	t := &VerificationToken{Token: token}

	if o.TTL > 0 {
		now := time.Now
		if o.Now != nil {
			now = o.Now
		}

		exp := now().Add(o.TTL).UTC()
		t.ExpiresAt = &exp
	}

	return t, nil
}
