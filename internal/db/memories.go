package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/keepsake/internal/model"
)

func (s *pgStore) CreateMemory(ownerID int, title, description, imageURL string) (model.Memory, error) {
	var m model.Memory
	query := `
	INSERT INTO memories
	(title, description, image_url, owner_id, created_at, updated_at)
	VALUES
	($1,    $2,          $3,        $4,       now(),      now())
	RETURNING
	id, title, description, image_url, owner_id, created_at, updated_at;`

	if err := s.db.Get(&m, query, title, description, imageURL, ownerID); err != nil {
		log.Error().Err(err).Int("owner", ownerID).Msg("failed to create memory")
		return model.Memory{}, err
	}
	return m, nil
}

// returns the owner's memories in creation order, possibly empty.
func (s *pgStore) ListMemoriesByOwner(ownerID int) ([]model.Memory, error) {
	all := []model.Memory{}
	query := `
	SELECT
	id, title, description, image_url, owner_id, created_at, updated_at
	FROM memories
	WHERE owner_id = $1
	ORDER BY id;`

	if err := s.db.Select(&all, query, ownerID); err != nil {
		log.Error().Err(err).Int("owner", ownerID).Msg("failed to list memories")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) GetMemoryByID(id int) (model.Memory, error) {
	var m model.Memory
	query := `
	SELECT
	id, title, description, image_url, owner_id, created_at, updated_at
	FROM memories
	WHERE id = $1;`

	err := s.db.Get(&m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Memory{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to get memory by id")
	}
	return m, err
}

// partial update; title and owner_id never change.
func (s *pgStore) UpdateMemory(id int, description, imageURL *string) error {
	res, err := s.db.Exec(`
		UPDATE memories
		SET
		description = COALESCE($2, description),
		image_url   = COALESCE($3, image_url),
		updated_at  = now()
		WHERE id = $1;`,
		id, description, imageURL,
	)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to update memory")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) DeleteMemory(id int) error {
	res, err := s.db.Exec(`DELETE FROM memories WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to delete memory")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
