// exposes a Store interface that is passed to handlers w/ param requirements
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/keepsake-app/keepsake/internal/model"
)

type Store interface {
	// user functions
	CreateUser(name, email, hashedPassword string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserPassword(id int, hashedPassword string) error

	// memory functions
	CreateMemory(ownerID int, title, description, imageURL string) (model.Memory, error)
	ListMemoriesByOwner(ownerID int) ([]model.Memory, error)
	GetMemoryByID(id int) (model.Memory, error)
	UpdateMemory(id int, description, imageURL *string) error
	DeleteMemory(id int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
// required so linter doesn't complain
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate email or name on users).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
