package db

import (
	"database/sql"
	"sync"

	"github.com/lib/pq"

	"github.com/keepsake-app/keepsake/internal/model"
)

// MemStore is an in-memory Store used by handler tests. It mirrors the
// Postgres behavior the handlers rely on: unique name/email violations,
// sql.ErrNoRows for misses, creation-ordered listings.
type MemStore struct {
	mu       sync.Mutex
	users    map[int]model.User
	memories map[int]model.Memory
	nextUser int
	nextMem  int
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		users:    make(map[int]model.User),
		memories: make(map[int]model.Memory),
		nextUser: 1,
		nextMem:  1,
	}
}

func (s *MemStore) CreateUser(name, email, hashedPassword string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email || u.Name == name {
			return 0, &pq.Error{Code: "23505"}
		}
	}
	id := s.nextUser
	s.nextUser++
	s.users[id] = model.User{ID: id, Name: name, Email: email, HashedPassword: hashedPassword}
	return id, nil
}

func (s *MemStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *MemStore) GetUserByID(id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := u
	return &out, nil
}

func (s *MemStore) UpdateUserPassword(id int, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.HashedPassword = hashedPassword
	s.users[id] = u
	return nil
}

func (s *MemStore) CreateMemory(ownerID int, title, description, imageURL string) (model.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextMem
	s.nextMem++
	m := model.Memory{ID: id, Title: title, Description: description, ImageURL: imageURL, OwnerID: ownerID}
	s.memories[id] = m
	return m, nil
}

func (s *MemStore) ListMemoriesByOwner(ownerID int) ([]model.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Memory{}
	// ids are assigned in creation order
	for id := 1; id < s.nextMem; id++ {
		if m, ok := s.memories[id]; ok && m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemStore) GetMemoryByID(id int) (model.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memories[id]
	if !ok {
		return model.Memory{}, sql.ErrNoRows
	}
	return m, nil
}

func (s *MemStore) UpdateMemory(id int, description, imageURL *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memories[id]
	if !ok {
		return sql.ErrNoRows
	}
	if description != nil {
		m.Description = *description
	}
	if imageURL != nil {
		m.ImageURL = *imageURL
	}
	s.memories[id] = m
	return nil
}

func (s *MemStore) DeleteMemory(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.memories[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.memories, id)
	return nil
}
