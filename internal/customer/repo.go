package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, identity string) (*Customer, error)
	Create(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	CreateSurrogate(ctx context.Context, tx *sqlx.Tx, c *Customer) (string, error)
	Count(ctx context.Context) (int, error)
	Exists(ctx context.Context, identity string) (bool, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

// GetAll returns every customer in insertion order.
func (r *repo) GetAll(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := r.db.SelectContext(ctx, &out, getAllCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("get all customers: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, identity string) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, getCustomerSQL, identity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer not found (%s)", identity)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// Create inserts a customer with a caller-supplied natural identity.
func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	_, err := tx.ExecContext(ctx, createCustomerSQL,
		c.Identity,
		c.Name,
		c.Email,
		c.Phone,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// CreateSurrogate inserts a customer with a store-minted monotonic identity
// and returns the identity that was assigned.
func (r *repo) CreateSurrogate(ctx context.Context, tx *sqlx.Tx, c *Customer) (string, error) {
	_, err := tx.ExecContext(ctx, createCustomerSurrogateSQL,
		c.Name,
		c.Email,
		c.Phone,
		c.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}

	// last_insert_rowid is connection-scoped, so this must run on the
	// same transaction as the insert
	var identity string
	if err := tx.GetContext(ctx, &identity, lastInsertedIdentitySQL); err != nil {
		return "", fmt.Errorf("read assigned identity: %w", err)
	}
	return identity, nil
}

func (r *repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, countCustomersSQL)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *repo) Exists(ctx context.Context, identity string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, customerExistsSQL, identity)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}
