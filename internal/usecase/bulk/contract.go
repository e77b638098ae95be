package bulk

import "context"

// Archiver archives one entry by ID.
type Archiver interface {
	Archive(ctx context.Context, id, reason string) error
}

// Deleter permanently deletes one archived entry by ID.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Syncer pushes one entry into the vector index.
type Syncer interface {
	Sync(ctx context.Context, id string) error
}

// VectorDeleter removes one entry's vectors from the index.
type VectorDeleter interface {
	DeleteVector(ctx context.Context, id string) (chunksDeleted int, err error)
}
