package customer

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	"winsbygroup.com/leadserver/internal/sqlite"
)

// IdentityMode selects how a store instance keys its records. A deployment
// uses exactly one mode; the two are never mixed in one database.
type IdentityMode string

const (
	// IdentitySurrogate mints a monotonic numeric identity per insert.
	IdentitySurrogate IdentityMode = "surrogate"
	// IdentityNatural requires the caller to supply an 11-digit identity
	// (national-ID style).
	IdentityNatural IdentityMode = "natural"
)

// ParseIdentityMode validates a configured mode string.
func ParseIdentityMode(s string) (IdentityMode, error) {
	switch IdentityMode(s) {
	case IdentitySurrogate, IdentityNatural:
		return IdentityMode(s), nil
	}
	return "", fmt.Errorf("unknown identity mode %q", s)
}

const (
	minNameLen     = 3
	naturalKeyLen  = 11
	phoneMinDigits = 10
	phoneMaxDigits = 11
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// CreateInput is the caller-facing insert contract. Identity is required in
// natural mode and must be empty in surrogate mode; CreatedAt is always
// assigned by the store.
type CreateInput struct {
	Identity string
	Name     string
	Email    string
	Phone    string
}

type Service struct {
	repo Repository
	db   *sqlx.DB
	mode IdentityMode
}

func NewService(db *sqlx.DB, mode IdentityMode) *Service {
	return &Service{
		db:   db,
		repo: New(db),
		mode: mode,
	}
}

func (s *Service) Mode() IdentityMode {
	return s.mode
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// validate rejects malformed input before any storage attempt.
func (s *Service) validate(in *CreateInput) error {
	switch s.mode {
	case IdentityNatural:
		if len(in.Identity) != naturalKeyLen || !digitsOnly.MatchString(in.Identity) {
			return &ValidationError{Field: "identity", Reason: fmt.Sprintf("must be exactly %d digits", naturalKeyLen)}
		}
	case IdentitySurrogate:
		if in.Identity != "" {
			return &ValidationError{Field: "identity", Reason: "not accepted in surrogate mode"}
		}
	}

	if len(in.Name) < minNameLen {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("must be at least %d characters", minNameLen)}
	}
	if !emailShape.MatchString(in.Email) {
		return &ValidationError{Field: "email", Reason: "malformed address"}
	}
	if !digitsOnly.MatchString(in.Phone) {
		return &ValidationError{Field: "phone", Reason: "must contain digits only"}
	}
	if len(in.Phone) < phoneMinDigits || len(in.Phone) > phoneMaxDigits {
		return &ValidationError{Field: "phone", Reason: fmt.Sprintf("must be %d-%d digits", phoneMinDigits, phoneMaxDigits)}
	}
	return nil
}

// Create validates the input, assigns created_at (today, day granularity) and
// persists exactly one row, or nothing on failure. A duplicate identity
// yields ErrDuplicateIdentity; the duplicate check and the insert are one
// atomic step (the primary key constraint), so concurrent inserts of the
// same identity produce exactly one success.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*Customer, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	c := &Customer{
		Identity:  in.Identity,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now().Format("2006-01-02"),
	}

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		if s.mode == IdentitySurrogate {
			identity, err := s.repo.CreateSurrogate(ctx, tx, c)
			if err != nil {
				return err
			}
			c.Identity = identity
			return nil
		}
		return s.repo.Create(ctx, tx, c)
	})
	if sqlite.IsUniqueConstraintError(err) {
		return nil, ErrDuplicateIdentity
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

// GetAll returns every record in insertion order.
func (s *Service) GetAll(ctx context.Context) ([]Customer, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, identity string) (*Customer, error) {
	return s.repo.Get(ctx, identity)
}

// Count reflects all committed inserts at call time; nothing is cached.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) Exists(ctx context.Context, identity string) (bool, error) {
	return s.repo.Exists(ctx, identity)
}
