package store

import (
	"context"
	"encoding/json"
)

// Collection is a typed view over one named collection. T must marshal to a JSON object carrying
// the collection's key path field.
type Collection[T any] struct {
	store *Store
	name  string
}

// Bind returns a typed view of the named collection. Binding never fails; an unknown name
// surfaces as ErrCollectionUnavailable on first use.
func Bind[T any](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

// Name returns the bound collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var record T
	payload, found, err := c.store.Get(ctx, c.name, key)
	if err != nil || !found {
		return record, found, err
	}
	if err := json.Unmarshal(payload, &record); err != nil {
		c.store.logError(opGet, "decode_failed", c.name, err)
		return record, false, newError(opGet, "decode_failed", ErrIO, err)
	}
	return record, true, nil
}

func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	payloads, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(payloads))
	for _, payload := range payloads {
		var record T
		if err := json.Unmarshal(payload, &record); err != nil {
			c.store.logError(opGetAll, "decode_failed", c.name, err)
			return nil, newError(opGetAll, "decode_failed", ErrIO, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (c *Collection[T]) Put(ctx context.Context, record T) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", newError(opPut, "encode_failed", ErrInvalidRecord, err)
	}
	return c.store.Put(ctx, c.name, payload)
}

func (c *Collection[T]) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, c.name, key)
}

func (c *Collection[T]) Clear(ctx context.Context) error {
	return c.store.Clear(ctx, c.name)
}
