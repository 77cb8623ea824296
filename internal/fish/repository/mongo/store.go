package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	fisherrors "fishtank/internal/fish/errors"
	"fishtank/internal/fish/repository"
)

const (
	CollectionName = "Fish"

	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

type document struct {
	ID        string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	db           *mongo.Database
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

var _ repository.FishRepository = (*Store)(nil)

// New stores fish in db's Fish collection. The unique _id index every
// collection carries is what makes Create exclusive.
func New(db *mongo.Database, readTimeout, writeTimeout time.Duration) *Store {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Store{
		db:           db,
		collection:   db.Collection(CollectionName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// withTimeout uses the shorter of the caller's remaining deadline and timeout.
func (s *Store) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *Store) Driver() repository.Driver { return repository.DriverMongo }

func (s *Store) Location(id string) string {
	return fmt.Sprintf("mongodb://%s/%s/%s", s.db.Name(), CollectionName, id)
}

func (s *Store) Create(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	doc := document{ID: id, Payload: data, UpdatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", fisherrors.ErrAlreadyExists, id)
		}
		return fmt.Errorf("failed to create fish: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	var doc document
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find fish: %w", err)
	}
	return doc.Payload, nil
}

func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"payload":    data,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update fish: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := repository.ValidateID(id); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete fish: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", fisherrors.ErrNotFound, id)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]repository.Entry, error) {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var entries []repository.Entry
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			id, _ := cursor.Current.Lookup("_id").StringValueOK()
			entries = append(entries, repository.Entry{ID: id, Err: err})
			continue
		}
		entries = append(entries, repository.Entry{ID: doc.ID, Data: doc.Payload})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	return entries, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx, s.readTimeout)
	defer cancel()
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", fisherrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Close leaves the shared client open; its owner disconnects it.
func (s *Store) Close() error { return nil }
