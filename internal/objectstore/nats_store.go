// Package objectstore provides the NATS JetStream object store used by the
// pipeline worker to fetch job text and hand off generated audio.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// AudioStore implements core.ObjectStore on top of a JetStream object bucket.
type AudioStore struct {
	bucket string
	store  nats.ObjectStore
}

// New creates the bucket if it does not exist yet, otherwise binds to it.
func New(js nats.JetStreamContext, bucketName string) (*AudioStore, error) {
	store, err := js.CreateObjectStore(&nats.ObjectStoreConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("TTS gateway audio hand-off bucket %s.", bucketName),
		Storage:     nats.FileStorage,
		Replicas:    1,
	})
	if err != nil {
		if !errors.Is(err, jetstream.ErrBucketExists) {
			return nil, fmt.Errorf("failed to create object store bucket '%s': %w", bucketName, err)
		}

		store, err = js.ObjectStore(bucketName)
		if err != nil {
			return nil, fmt.Errorf("failed to bind to existing object store bucket '%s': %w", bucketName, err)
		}
	}

	return &AudioStore{
		bucket: bucketName,
		store:  store,
	}, nil
}

// Download retrieves one object by key.
func (a *AudioStore) Download(_ context.Context, key string) ([]byte, error) {
	obj, err := a.store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get object '%s' from bucket '%s': %w", key, a.bucket, err)
	}

	data, readErr := io.ReadAll(obj)
	closeErr := obj.Close()

	if readErr != nil {
		return nil, fmt.Errorf("failed to read object '%s': %w", key, readErr)
	}

	if closeErr != nil {
		return data, fmt.Errorf("failed to close object '%s': %w", key, closeErr)
	}

	return data, nil
}

// Upload stores one object under the given key.
func (a *AudioStore) Upload(_ context.Context, key string, data []byte) error {
	_, err := a.store.Put(&nats.ObjectMeta{Name: key}, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to put object '%s' to bucket '%s': %w", key, a.bucket, err)
	}

	return nil
}
