package account

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Service implements credential verification and account registration on top
// of a Repository. All password comparison goes through the PasswordHasher so
// plaintext never reaches the store.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	log    zerolog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, log: logger}
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password both come back as ErrBadCredential so a caller cannot probe which
// emails exist; an inactive account is reported separately only after the
// password checks out.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	acct, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == ErrUnknownAccount {
			s.log.Warn().Str("email", email).Msg("login attempt for unknown account")
			return nil, ErrBadCredential
		}
		return nil, err
	}
	if !s.hasher.Verify(acct.HashedPassword, password) {
		s.log.Warn().Str("user_id", acct.UserID).Msg("login attempt with wrong password")
		return nil, ErrBadCredential
	}
	if !acct.IsActive {
		s.log.Warn().Str("user_id", acct.UserID).Msg("login attempt on deactivated account")
		return nil, ErrAccountInactive
	}
	return acct, nil
}

// Register creates a new account with a fresh user ID. The email must be
// unused and the role one of ValidRoles.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	if !IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	acct := &Account{
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:       in.FullName,
		Role:           in.Role,
		HospitalID:     in.HospitalID,
		Department:     in.Department,
		IsActive:       true,
		HashedPassword: hash,
	}
	if err := s.repo.InsertIfAbsent(ctx, acct); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", acct.UserID).Str("role", acct.Role).Msg("account registered")
	return acct, nil
}

// GetByEmail resolves the current record for a token subject. The distinction
// between ErrUnknownAccount at login and ErrUnknownSubject here matters to
// callers: the latter means a syntactically valid token names an account that
// no longer resolves.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err == ErrUnknownAccount {
		return nil, ErrUnknownSubject
	}
	return acct, err
}

// List returns a page of accounts ordered by user ID, plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Count returns the number of stored accounts.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
