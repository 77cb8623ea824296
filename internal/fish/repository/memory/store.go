// Package memory implements an in-process FishRepository for tests and local
// runs that need no persistence.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
)

type Store struct {
	mu   sync.RWMutex
	fish map[string][]byte
}

var _ repository.FishRepository = (*Store)(nil)

func New() *Store { return &Store{fish: make(map[string][]byte)} }

func (s *Store) Driver() repository.Driver { return repository.DriverMemory }

func (s *Store) Location(id string) string { return "memory://" + id }

func (s *Store) Create(_ context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.fish[id]; exists {
		return fmt.Errorf("%w: %s", fisherrors.ErrAlreadyExists, id)
	}
	s.fish[id] = bytes.Clone(data)
	return nil
}

func (s *Store) Get(_ context.Context, id string) ([]byte, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.fish[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	return bytes.Clone(data), nil
}

func (s *Store) Put(_ context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fish[id]; !ok {
		return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	s.fish[id] = bytes.Clone(data)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fish[id]; !ok {
		return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	delete(s.fish, id)
	return nil
}

func (s *Store) List(_ context.Context) ([]repository.Entry, error) {
	s.mu.RLock()
	entries := make([]repository.Entry, 0, len(s.fish))
	for id, data := range s.fish {
		entries = append(entries, repository.Entry{ID: id, Data: bytes.Clone(data)})
	}
	s.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
