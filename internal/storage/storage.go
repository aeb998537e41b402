package storage

import (
	"fmt"
	"strings"
)

// Package storage provides the durable key/value slot for session data.

// Store is a small string key/value store. Get returns "" for missing keys.
type Store interface {
	Close() error
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

const (
	TypeBBolt  = "bbolt"
	TypeBadger = "badger"
	TypeMemory = "memory"
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	case TypeBadger:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("badger storage requires a path")
		}
		return openBadger(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error               { return nil }
func (noopStore) Get(string) (string, error) { return "", nil }
func (noopStore) Set(string, string) error   { return nil }
func (noopStore) Delete(string) error        { return nil }
