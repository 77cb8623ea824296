package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
)

const (
	// DescriptorName is the single file kept inside every record directory.
	DescriptorName = "info"

	dirPerm  = 0o711
	filePerm = 0o644
)

// Store keeps each record as <root>/<id>/info. The root is never created
// here; a missing root surfaces as ErrStoreUnavailable.
type Store struct {
	root string
}

var _ repository.FishRepository = (*Store)(nil)

func New(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Driver() repository.Driver { return repository.DriverFilesystem }

func (s *Store) Root() string { return s.root }

func (s *Store) dir(id string) string { return filepath.Join(s.root, id) }

func (s *Store) descriptor(id string) string {
	return filepath.Join(s.root, id, DescriptorName)
}

func (s *Store) Location(id string) string { return s.dir(id) }

// Create makes the record directory with a single mkdir so that concurrent
// creators of the same id cannot both succeed.
func (s *Store) Create(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.dir(id)
	if err := os.Mkdir(dir, dirPerm); err != nil {
		switch {
		case errors.Is(err, fs.ErrExist):
			return fmt.Errorf("%w: %s", fisherrors.ErrAlreadyExists, id)
		case errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
		default:
			return fmt.Errorf("failed to create fish directory: %w", err)
		}
	}

	if err := writeAtomic(dir, data); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("failed to write fish descriptor: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.descriptor(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read fish descriptor: %w", err)
	}
	return data, nil
}

func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.dir(id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	if err := writeAtomic(dir, data); err != nil {
		return fmt.Errorf("failed to write fish descriptor: %w", err)
	}
	return nil
}

// Delete removes the descriptor and then the directory holding it. A
// directory without a descriptor is not a record. A stray file left in the
// directory makes the second step fail.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := s.dir(id)
	if info, err := os.Stat(s.descriptor(id)); err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	if err := os.Remove(s.descriptor(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
		}
		return fmt.Errorf("failed to remove fish descriptor: %w", err)
	}
	if err := os.Remove(dir); err != nil {
		return fmt.Errorf("failed to remove fish directory: %w", err)
	}
	return nil
}

// List walks the immediate children of root. Hidden entries, plain files and
// directories without a descriptor are not records and are skipped.
func (s *Store) List(ctx context.Context) ([]repository.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	children, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}

	entries := make([]repository.Entry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, ".") || !s.isDir(child) {
			continue
		}
		data, err := os.ReadFile(s.descriptor(name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			entries = append(entries, repository.Entry{ID: name, Err: err})
			continue
		}
		entries = append(entries, repository.Entry{ID: name, Data: data})
	}
	return entries, nil
}

// isDir follows symlinks, matching what a plain stat of the path would say.
func (s *Store) isDir(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.root, entry.Name()))
	return err == nil && info.IsDir()
}

func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", fisherrors.ErrStoreUnavailable, s.root)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// writeAtomic replaces dir/info through a temp file and rename so readers
// never see a partially written descriptor.
func writeAtomic(dir string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+DescriptorName+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, DescriptorName))
}
