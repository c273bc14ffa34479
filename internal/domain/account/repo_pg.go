package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `user_id, email, full_name, role, hospital_id, department, is_active, hashed_password, created_at`

// PGRepo is the PostgreSQL credential store, selected when DATABASE_URL is
// configured. Email uniqueness is enforced by the unique constraint; the
// insert-if-absent semantics come from ON CONFLICT DO NOTHING, so concurrent
// registrations of the same email resolve inside the database.
type PGRepo struct {
	pool *pgxpool.Pool
}

// NewPGRepo creates a store backed by the given connection pool.
func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

func (r *PGRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM account WHERE email = $1`, email)
	acct, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownAccount
	}
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return acct, nil
}

func (r *PGRepo) InsertIfAbsent(ctx context.Context, acct *Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO account (
			user_id, email, full_name, role, hospital_id, department,
			is_active, hashed_password
		) VALUES (
			COALESCE(NULLIF($1, ''), 'USR' || lpad(nextval('account_user_seq')::text, 3, '0')),
			$2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (email) DO NOTHING
		RETURNING user_id, created_at`,
		acct.UserID, acct.Email, acct.FullName, acct.Role, acct.HospitalID,
		acct.Department, acct.IsActive, acct.HashedPassword,
	)
	err := row.Scan(&acct.UserID, &acct.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM account`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM account ORDER BY user_id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accts []*Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accts = append(accts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate accounts: %w", err)
	}
	return accts, total, nil
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM account`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return total, nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	acct := &Account{}
	err := row.Scan(
		&acct.UserID, &acct.Email, &acct.FullName, &acct.Role, &acct.HospitalID,
		&acct.Department, &acct.IsActive, &acct.HashedPassword, &acct.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return acct, nil
}
