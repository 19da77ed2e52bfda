package ports

import (
	"context"
	"errors"
)

// Storage keys. Every collection is persisted as a single JSON blob under a
// fixed string key, mirroring the original key/value layout.
const (
	KeyAuthUser  = "auth_user"
	KeyAuthToken = "auth_token"
	KeyUsers     = "users"
	KeyClients   = "clients"
	KeyRentals   = "rentals"
)

// ErrKeyNotFound is returned by BlobStore.Get when the key has never been
// written (or has been deleted).
var ErrKeyNotFound = errors.New("storage: key not found")

// BlobStore is the string-keyed JSON persistence collaborator. Values are
// opaque byte slices; callers own the (de)serialisation.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
