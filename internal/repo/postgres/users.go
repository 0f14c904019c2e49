package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habitflow/userhub/internal/domain/user"
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

// EnsureSchema creates the users table on first start. The unique index on
// email is stricter than the other backends; see the conflict handling in
// Insert.
func (r *UsersRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id         TEXT PRIMARY KEY,
            name       TEXT NOT NULL,
            email      TEXT NOT NULL UNIQUE,
            password   TEXT,
            created_at TIMESTAMPTZ NOT NULL
        )`)

	return err
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, email, COALESCE(password, ''), created_at
         FROM users
         ORDER BY created_at DESC`,
	)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	users := []user.User{}

	for rows.Next() {
		var u user.User

		err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)

		if err != nil {
			return nil, err
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`SELECT id, name, email, COALESCE(password, ''), created_at
         FROM users
         WHERE email = $1`,
		user.NormalizeEmail(email),
	).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {

			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, name, email, password, created_at)
         VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		u.ID, u.Name, u.Email, u.Password, u.CreatedAt,
	)

	if err != nil && IsUniqueViolation(err) {
		// a lost check-then-act race surfaces here instead of the lookup
		return user.ErrEmailTaken
	}

	return err
}

func (r *UsersRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *UsersRepo) Close() error {
	r.pool.Close()

	return nil
}

// IsUniqueViolation reports whether err is a postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
