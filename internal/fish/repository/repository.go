package repository

import (
	"context"
	"fmt"
	"strings"

	fisherrors "fishtank/internal/fish/errors"
)

type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
	DriverMongo      Driver = "mongo"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// Drivers lists every supported backend in the order they are documented.
var Drivers = []Driver{DriverFilesystem, DriverSQLite, DriverPostgres, DriverMongo, DriverS3, DriverMemory}

func ParseDriver(s string) (Driver, bool) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Drivers {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// Entry is one record as found while listing. Err is set when the record
// exists but its descriptor could not be read; Data is then nil.
type Entry struct {
	ID   string
	Data []byte
	Err  error
}

// FishRepository stores one serialized descriptor per identifier.
//
// Create must be atomic per identifier: of two concurrent creates for the
// same id exactly one succeeds and the other gets ErrAlreadyExists. Put only
// replaces an existing descriptor and returns ErrNotFound otherwise. List
// returns ErrStoreUnavailable only when the store as a whole cannot be
// enumerated; per-record problems are reported through Entry.Err.
type FishRepository interface {
	Create(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Entry, error)

	// Location names where id is stored, for error details.
	Location(id string) string
	Ping(ctx context.Context) error
	Driver() Driver
	Close() error
}

// ValidateID rejects identifiers that could escape their storage slot.
func ValidateID(id string) error {
	if id == "" || strings.ContainsAny(id, "./") {
		return fmt.Errorf("%w: %q", fisherrors.ErrInvalidID, id)
	}
	return nil
}
