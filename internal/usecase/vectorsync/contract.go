package vectorsync

import "context"

// Syncer pushes entry content into the vector index and removes it.
type Syncer interface {
	SyncEntry(ctx context.Context, id string) (chunksCreated int, err error)
	DeleteVector(ctx context.Context, id string) (chunksDeleted int, err error)
}
