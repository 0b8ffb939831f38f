package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry is how long a media link stays valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage hands out temporary links to exercise media kept in a
// private bucket.
type MediaStorage interface {
	// PresignGetURL creates a temporary URL that allows GET requests for
	// viewing an object directly from the storage provider.
	PresignGetURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
