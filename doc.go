// Package kbadmin is an administration client for a knowledge base
// backed by an entry store and a vector index. It coordinates the two
// stores through the KB backend API: entry lifecycle (create, edit,
// archive, restore, delete), vector synchronization with manual
// retry, pre-create duplicate detection, vector index inspection and
// bulk operations with partial-failure accounting.
//
// Writes go through the backend, which owns chunking and embedding.
// Reads come straight from the entry store when one is configured.
//
//	client, err := kbadmin.New(ctx,
//		kbadmin.WithBaseURL("http://localhost:8000"),
//		kbadmin.WithEntryStore([]string{"localhost:6379"}, "", ""),
//		kbadmin.WithActor("u-1", "admin@example.com", "Admin"),
//	)
package kbadmin
