package store

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, user_type, address_line, city, postcode, avatar_url)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Phone, user.UserType, user.AddressLine, user.City, user.Postcode, user.AvatarURL)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, phone, user_type, address_line, city, postcode, avatar_url, created_at, updated_at
		FROM users
		WHERE email=LOWER($1)
	`, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.UserType,
		&user.AddressLine,
		&user.City,
		&user.Postcode,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, phone, user_type, address_line, city, postcode, avatar_url, created_at, updated_at
		FROM users
		WHERE id=$1
	`, userID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.UserType,
		&user.AddressLine,
		&user.City,
		&user.Postcode,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserProfile(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET first_name=$2, last_name=$3, phone=$4, address_line=$5, city=$6, postcode=$7, updated_at=NOW()
		WHERE id=$1
	`, user.ID, user.FirstName, user.LastName, user.Phone, user.AddressLine, user.City, user.Postcode)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUserAvatar(ctx context.Context, userID, avatarURL string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET avatar_url=$2, updated_at=NOW() WHERE id=$1
	`, userID, avatarURL)
	if err != nil {
		return fmt.Errorf("update user avatar: %w", err)
	}
	return nil
}
