package vectors

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/kbadmin/internal/domain/chunk"
)

type mockIndex struct {
	chunks    []chunk.Chunk
	listErr   error
	lastLimit int

	deleteChunks int
	deleteErr    error
	lastDeleted  string
}

func (m *mockIndex) ListVectors(_ context.Context, limit int) ([]chunk.Chunk, error) {
	m.lastLimit = limit
	return m.chunks, m.listErr
}

func (m *mockIndex) DeleteVector(_ context.Context, id string) (int, error) {
	m.lastDeleted = id
	return m.deleteChunks, m.deleteErr
}

func TestList_LimitClamping(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, 100},
		{"negative uses default", -5, 100},
		{"in range passes through", 250, 250},
		{"above max clamps", 5000, 1000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			idx := &mockIndex{}
			svc := New(idx)
			if _, err := svc.List(context.Background(), tc.limit); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idx.lastLimit != tc.want {
				t.Errorf("limit = %d, want %d", idx.lastLimit, tc.want)
			}
		})
	}
}

func TestList_Error(t *testing.T) {
	svc := New(&mockIndex{listErr: errors.New("boom")})
	if _, err := svc.List(context.Background(), 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete_ResolvesChunkToParent(t *testing.T) {
	idx := &mockIndex{deleteChunks: 3}
	svc := New(idx)

	deleted, err := svc.Delete(context.Background(), "abc123_chunk_2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.lastDeleted != "abc123" {
		t.Errorf("deleted id = %q, want parent", idx.lastDeleted)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d", deleted)
	}
}
