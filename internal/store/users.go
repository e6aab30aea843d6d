package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBlocked            = errors.New("blocked by admin")
	ErrUserExists         = errors.New("username taken")
	ErrUserNotFound       = errors.New("user not found")
)

const uniqueViolation = "23505"

// CreateUser inserts a new user with a hashed password. Usernames are
// unique across all groups.
func (p *Postgres) CreateUser(ctx context.Context, username, password, groupName string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || groupName == "" {
		return User{}, errors.New("missing username, password or group")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, group_name)
		VALUES ($1, $2, $3)
		RETURNING id::text, username, group_name, role, is_blocked, created_at
	`, username, string(hash), groupName)

	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.GroupName, &u.Role, &u.Blocked, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrUserExists
		}
		return User{}, err
	}
	return u, nil
}

// getUser returns the user + hashed password for login verification
func (p *Postgres) getUser(ctx context.Context, username, groupName string) (User, string, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id::text, username, group_name, role, is_blocked, created_at, password_hash
		FROM users
		WHERE username = $1 AND group_name = $2
	`, strings.TrimSpace(username), groupName)

	var u User
	var hash string
	if err := row.Scan(&u.ID, &u.Username, &u.GroupName, &u.Role, &u.Blocked, &u.CreatedAt, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	return u, hash, nil
}

// VerifyUser checks username + password + group. Blocked users are refused
// even with correct credentials.
func (p *Postgres) VerifyUser(ctx context.Context, username, password, groupName string) (User, error) {
	u, hash, err := p.getUser(ctx, username, groupName)
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	if u.Blocked {
		return User{}, ErrBlocked
	}
	return u, nil
}

// SetBlocked flips the moderation flag on a user. A blocked user can no
// longer log in; live connections drain on their own.
func (p *Postgres) SetBlocked(ctx context.Context, username string, blocked bool) error {
	ct, err := p.pool.Exec(ctx, `
		UPDATE users SET is_blocked = $2 WHERE username = $1
	`, strings.TrimSpace(username), blocked)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	p.log.Info("user.blocked", "username", username, "blocked", blocked)
	return nil
}
