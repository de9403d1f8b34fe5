package bolt

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/dtroode/outagetracker/internal/model"
)

var _ model.KeyValueBackend = (*Store)(nil)

const defaultBucket = "outagetracker"

// Store is a single-file key-value backend.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// NewStore opens (or creates) the database file at path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	s := &Store{db: db, bucket: []byte(defaultBucket)}

	if err := s.ensureBucketExists(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return s, nil
}

func (s *Store) ensureBucketExists() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return model.ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return model.ErrNotFound
		}
		// v is only valid inside the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to put key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
