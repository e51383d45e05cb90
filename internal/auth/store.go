package auth

import "context"

// KeyMetadata describes an accepted API key.
type KeyMetadata struct {
	// ID is the display-safe key prefix; it is what logs and rate limits see.
	ID string
}

// KeyStore looks up API key metadata by hash. A nil result with a nil error
// means the key is unknown.
type KeyStore interface {
	Lookup(ctx context.Context, keyHash string) (*KeyMetadata, error)
}

// StaticKeyStore holds the keys listed in server.api_keys. Only their
// digests are kept in memory.
type StaticKeyStore struct {
	keys map[string]*KeyMetadata
}

func NewStaticKeyStore(keys []string) *StaticKeyStore {
	s := &StaticKeyStore{keys: make(map[string]*KeyMetadata, len(keys))}
	for _, k := range keys {
		if k == "" {
			continue
		}
		s.keys[HashKey(k)] = &KeyMetadata{ID: KeyPrefix(k)}
	}
	return s
}

func (s *StaticKeyStore) Lookup(_ context.Context, keyHash string) (*KeyMetadata, error) {
	return s.keys[keyHash], nil
}

func (s *StaticKeyStore) Len() int { return len(s.keys) }
