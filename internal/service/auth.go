package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"faithconnect/community-api/internal/model"
	"faithconnect/community-api/internal/store"
	"faithconnect/community-api/pkg/security"
	"faithconnect/community-api/pkg/validators"

	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User, password string) error
	Update(ctx context.Context, u *model.User, password *string) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ByVerificationToken(ctx context.Context, token string) (*model.User, error)
	MarkVerified(ctx context.Context, id, token string) error
}

type PasswordVerifier interface {
	VerifyPasswd(p, e string) (bool, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthService struct {
	users           UserRepository
	passwords       PasswordVerifier
	tokens          TokenIssuer
	mailer          Mailer
	verificationTTL time.Duration
	now             func() time.Time
}

type AuthOptions struct {
	Users     UserRepository
	Passwords PasswordVerifier
	Tokens    TokenIssuer
	Mailer    Mailer
	// VerificationTTL of zero means verification links never expire
	VerificationTTL time.Duration
}

func NewAuthService(o AuthOptions) *AuthService {
	return &AuthService{
		users:           o.Users,
		passwords:       o.Passwords,
		tokens:          o.Tokens,
		mailer:          o.Mailer,
		verificationTTL: o.VerificationTTL,
		now:             time.Now,
	}
}

// PublicUser is what clients get to see of a user. The password hash and the
// verification token never leave the server.
type PublicUser struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Country         string                `json:"country"`
	Phone           *string               `json:"phone,omitempty"`
	PrivacySettings model.PrivacySettings `json:"privacySettings"`
	Verified        bool                  `json:"verified"`
}

func NewPublicUser(u *model.User) PublicUser {
	return PublicUser{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Country:         u.Country,
		Phone:           u.Phone,
		PrivacySettings: u.PrivacySettings,
		Verified:        u.Verified,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

type RegisterResult struct {
	User    PublicUser
	Message string
}

// Register creates an unverified user and mails a verification link. The user
// is kept even when the mail can't be sent.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Country = strings.TrimSpace(in.Country)
	in.Email = validators.NormalizeEmail(in.Email)

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Country == "" {
		return nil, ErrMissingFields
	}

	if err := validators.EmailValidator(in.Email); err != nil {
		return nil, validation(err)
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		return nil, validation(err)
	}

	if err := validators.NameValidator(in.Name); err != nil {
		return nil, validation(err)
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrEmailTaken
	}

	verif, err := security.MakeVerificationToken(&security.VerificationTokenOpts{
		TTL: s.verificationTTL,
		Now: s.now,
	})
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Email:                 in.Email,
		Name:                  in.Name,
		Country:               in.Country,
		PrivacySettings:       model.DefaultPrivacySettings(),
		Verified:              false,
		VerificationToken:     &verif.Token,
		VerificationExpiresAt: verif.ExpiresAt,
	}

	if err := s.users.Create(ctx, u, in.Password); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, u.Email, u.Name, verif.Token); err != nil {
		zap.L().Error("Failed to send verification email, user left unverified",
			zap.String("userID", u.ID), zap.Error(err))

		return nil, newError(KindService, "Email could not be sent", err)
	}

	return &RegisterResult{
		User:    NewPublicUser(u),
		Message: "Registration successful! Please check your email to verify your account.",
	}, nil
}

// VerifyEmail consumes a verification token. Unknown, already used and expired
// tokens all yield ErrVerificationInvalid and change nothing.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*PublicUser, error) {
	u, err := s.users.ByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVerificationInvalid
		}

		return nil, err
	}

	if u.VerificationExpiresAt != nil && !s.now().Before(*u.VerificationExpiresAt) {
		return nil, ErrVerificationInvalid
	}

	if err := s.users.MarkVerified(ctx, u.ID, token); err != nil {
		// Someone else used the token in between
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVerificationInvalid
		}

		return nil, err
	}

	u.Verified = true
	u.VerificationToken = nil
	u.VerificationExpiresAt = nil

	pub := NewPublicUser(u)
	return &pub, nil
}

type Session struct {
	User  PublicUser
	Token string
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := s.passwords.VerifyPasswd(password, u.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !u.Verified {
		return nil, ErrNotVerified
	}

	return s.session(u)
}

func (s *AuthService) session(u *model.User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{User: NewPublicUser(u), Token: token}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*PublicUser, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	pub := NewPublicUser(u)
	return &pub, nil
}

// ProfileUpdate holds the fields a user may change. A nil field is left alone
type ProfileUpdate struct {
	Name            *string                `json:"name"`
	Phone           *string                `json:"phone"`
	Country         *string                `json:"country"`
	PrivacySettings *model.PrivacySettings `json:"privacySettings"`
	Password        *string                `json:"password"`
}

// apply copies the supplied fields onto u. Blank name, country and password
// count as not supplied, a blank phone clears the number.
func (p ProfileUpdate) apply(u *model.User) (password *string, err error) {
	if p.Name != nil {
		if name := strings.TrimSpace(*p.Name); name != "" {
			if err := validators.NameValidator(name); err != nil {
				return nil, validation(err)
			}
			u.Name = name
		}
	}

	if p.Country != nil {
		if country := strings.TrimSpace(*p.Country); country != "" {
			u.Country = country
		}
	}

	if p.Phone != nil {
		if phone := strings.TrimSpace(*p.Phone); phone != "" {
			u.Phone = &phone
		} else {
			u.Phone = nil
		}
	}

	if p.PrivacySettings != nil {
		u.PrivacySettings = *p.PrivacySettings
	}

	if p.Password != nil && *p.Password != "" {
		if err := validators.PasswordValidator(*p.Password); err != nil {
			return nil, validation(err)
		}
		password = p.Password
	}

	return password, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*Session, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	password, err := upd.apply(u)
	if err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u, password); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return s.session(u)
}

func (s *AuthService) user(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return u, nil
}
