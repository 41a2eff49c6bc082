package internal

import (
	"errors"
	"time"

	"faithconnect/community-api/internal/service"
	"faithconnect/community-api/internal/store"
	"faithconnect/community-api/pkg/security"

	"gorm.io/gorm"
)

// Deps is everything a handler may need. It's built once at startup and
// passed to every handler explicitly
type Deps struct {
	DB      *gorm.DB
	Tokens  *security.TokenIssuer
	Users   *store.UserStore
	Auth    *service.AuthService
	Posts   *service.PostService
	Prayers *service.PrayerService
}

type DepsOptions struct {
	Argon           *security.ArgonHash
	Tokens          *security.TokenIssuer
	Mailer          service.Mailer
	VerificationTTL time.Duration
}

func NewDeps(db *gorm.DB, o DepsOptions) (*Deps, error) {
	if db == nil {
		return nil, errors.New("no database provided")
	}

	if o.Tokens == nil || o.Mailer == nil {
		return nil, errors.New("token issuer and mailer are required")
	}

	if o.Argon == nil {
		o.Argon = security.New()
	}

	users := store.NewUserStore(db, o.Argon)

	return &Deps{
		DB:     db,
		Tokens: o.Tokens,
		Users:  users,
		Auth: service.NewAuthService(service.AuthOptions{
			Users:           users,
			Passwords:       o.Argon,
			Tokens:          o.Tokens,
			Mailer:          o.Mailer,
			VerificationTTL: o.VerificationTTL,
		}),
		Posts:   service.NewPostService(store.NewPostStore(db)),
		Prayers: service.NewPrayerService(store.NewPrayerStore(db)),
	}, nil
}
