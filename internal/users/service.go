package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"pizzeria-backend/internal/apperr"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo       Repository
	tokens     *Tokens
	adminEmail string
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires the account service. Signing up or logging in with
// adminEmail always yields an admin account; an empty adminEmail disables that.
func NewService(repo Repository, tokens *Tokens, adminEmail string, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		adminEmail: NormalizeEmail(adminEmail),
		logger:     logger,
		now:        time.Now,
	}
}

// Auth is what signup and login hand back to the client.
type Auth struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (s *Service) isAdminEmail(email string) bool {
	return s.adminEmail != "" && NormalizeEmail(email) == s.adminEmail
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*Auth, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	email := NormalizeEmail(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("User already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Persistence("hash password", err)
	}
	u := &User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		IsAdmin:      s.isAdminEmail(email),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperr.Validation("User already exists")
		}
		return nil, err
	}
	s.logger.Info("user signed up", zap.String("user_id", u.ID), zap.Bool("admin", u.IsAdmin))
	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Auth, error) {
	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(in.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.AuthenticationRequired("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperr.AuthenticationRequired("Invalid email or password")
	}
	if s.isAdminEmail(u.Email) && !u.IsAdmin {
		if err := s.repo.SetAdmin(ctx, u.ID, true); err != nil {
			return nil, err
		}
		u.IsAdmin = true
		s.logger.Info("admin flag restored", zap.String("user_id", u.ID))
	}
	return s.issue(u)
}

func (s *Service) issue(u *User) (*Auth, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperr.Persistence("sign token", err)
	}
	return &Auth{User: u, Token: token}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.repo.UpdateProfile(ctx, id, in); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted; its password is left alone.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	u, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if u.IsAdmin {
			return nil
		}
		if err := s.repo.SetAdmin(ctx, u.ID, true); err != nil {
			return err
		}
		s.logger.Info("existing user promoted to admin", zap.String("user_id", u.ID))
		return nil
	case !errors.Is(err, apperr.ErrNotFound):
		return err
	}

	if name == "" {
		name = "Admin"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &User{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("admin account created", zap.String("user_id", admin.ID))
	return nil
}

// Backfill stamps legacy users that have no createdAt so listings sort.
func (s *Service) Backfill(ctx context.Context) error {
	n, err := s.repo.BackfillCreatedAt(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("backfilled user createdAt", zap.Int64("count", n))
	}
	return nil
}

// Authenticate turns a bearer token into its claims.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}
