package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/keepsake/internal/model"
)

// inserts new user into table, returns new user ID.
func (s *pgStore) CreateUser(name, email, hashedPassword string) (int, error) {
	query := `
	INSERT INTO users (name, email, hashed_password, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id;
	`
	var newID int
	err := s.db.QueryRow(query, name, email, hashedPassword).Scan(&newID)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error().Err(err).Msg("failed to create user")
		}
		return 0, err
	}
	return newID, nil
}

// fetches user by email. returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, name, email, hashed_password, created_at, updated_at
	FROM users
	WHERE email = $1;
	`
	err := s.db.Get(&u, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}
	return &u, nil
}

// fetches a user by ID. Returns nil, sql.ErrNoRows if not found.
func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	query := `
	SELECT id, name, email, hashed_password, created_at, updated_at
	FROM users
	WHERE id = $1;
	`
	err := s.db.Get(&u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Msg("failed to get user by id")
		return nil, err
	}
	return &u, nil
}

// replaces a user's password hash and bumps updated_at.
// returns an error if no rows were affected (e.g. user ID doesn’t exist).
func (s *pgStore) UpdateUserPassword(id int, hashedPassword string) error {
	query := `
	UPDATE users
	SET hashed_password = $2,
	updated_at = now()
	WHERE id = $1;
	`
	res, err := s.db.Exec(query, id, hashedPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to update user password - exec")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Msg("failed to update user password - rows affected")
		return err
	}
	if rows == 0 {
		log.Error().Int("id", id).Msg("failed to update user password - no such user")
		return errors.New("no such user")
	}
	return nil
}
