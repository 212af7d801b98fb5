package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/avelez/repairdesk/internal/client/storage"
)

// Set stores value under key.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to save %q: %v", storage.ErrStorageUnavailable, key, err)
	}
	return nil
}

// Get returns the value stored under key, or storage.ErrKeyNotFound.
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrKeyNotFound
		}

		value = string(data)
		return nil
	})
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return "", err
		}
		return "", fmt.Errorf("%w: failed to read %q: %v", storage.ErrStorageUnavailable, key, err)
	}

	return value, nil
}

// Delete removes key. Missing keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete %q: %v", storage.ErrStorageUnavailable, key, err)
	}
	return nil
}
