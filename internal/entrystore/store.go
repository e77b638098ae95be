// Package entrystore reads KB entries directly from the document
// store, bypassing the backend API for listing latency. All entry
// writes still go through the backend; this package is read-only.
package entrystore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
)

// Config holds connection parameters for the document store.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	IndexName string
}

// Store is a read-only client for the entry document store.
type Store struct {
	client rueidis.Client
	prefix string
	index  string
}

// New connects to the document store.
func New(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix, index: cfg.IndexName}, nil
}

// NewStoreForTest wraps an existing rueidis client (mock) for tests.
func NewStoreForTest(client rueidis.Client, prefix, index string) *Store {
	return &Store{client: client, prefix: prefix, index: index}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for entry store: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// ListActive returns active entries, newest first. Archived entries
// are excluded in the query itself, mirroring the backend's own
// filter, so they can never leak into the active listing.
func (s *Store) ListActive(ctx context.Context, limit int) ([]entry.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := "@status:{active}"
	cmd := s.client.B().Arbitrary("FT.SEARCH").
		Args(s.index, query,
			"SORTBY", "createdAt", "DESC",
			"LIMIT", "0", strconv.Itoa(limit),
			"RETURN", "1", "$",
			"DIALECT", "2").
		Build()

	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("search active entries: %w", err)
	}
	return s.parseSearchResult(raw)
}

// ListArchived returns archived entries, most recently archived
// first. Both archive markers are matched: the backend sets
// status=archived, older rows carry the legacy archived flag.
func (s *Store) ListArchived(ctx context.Context, limit int) ([]entry.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := "@status:{archived} | @archived:{true}"
	cmd := s.client.B().Arbitrary("FT.SEARCH").
		Args(s.index, query,
			"LIMIT", "0", strconv.Itoa(limit),
			"RETURN", "1", "$",
			"DIALECT", "2").
		Build()

	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("search archived entries: %w", err)
	}

	entries, err := s.parseSearchResult(raw)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ArchivedAt.After(entries[j].ArchivedAt)
	})
	return entries, nil
}

// ListByCategory returns active entries in one metadata category,
// newest first. The archived-exclusion filter applies here too.
func (s *Store) ListByCategory(ctx context.Context, category string, limit int) ([]entry.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := "@status:{active} @category:{" + tagEscaper.Replace(category) + "}"
	cmd := s.client.B().Arbitrary("FT.SEARCH").
		Args(s.index, query,
			"SORTBY", "createdAt", "DESC",
			"LIMIT", "0", strconv.Itoa(limit),
			"RETURN", "1", "$",
			"DIALECT", "2").
		Build()

	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("search entries by category %q: %w", category, err)
	}
	return s.parseSearchResult(raw)
}

// tagEscaper escapes TAG query syntax in user-supplied values.
var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	"|", "\\|",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"@", "\\@",
	"*", "\\*",
	" ", "\\ ",
)

// Get returns a single entry by ID.
func (s *Store) Get(ctx context.Context, id string) (entry.Entry, error) {
	key := s.prefix + id
	cmd := s.client.B().Arbitrary("JSON.GET").Keys(key).Args("$").Build()
	raw, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return entry.Entry{}, fmt.Errorf("get entry %s: %w", id, domain.ErrNotFound)
		}
		return entry.Entry{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	if raw == "" {
		return entry.Entry{}, fmt.Errorf("get entry %s: %w", id, domain.ErrNotFound)
	}
	return parseJSONGetResult(id, raw)
}

const defaultListLimit = 500

// parseSearchResult decodes an FT.SEARCH RESP2 reply:
// [total, key1, fields1, key2, fields2, ...] with fields as
// alternating name/value pairs. Rows that fail to decode are skipped;
// duplicate keys (possible on union queries) are kept once.
func (s *Store) parseSearchResult(raw []rueidis.RedisMessage) ([]entry.Entry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{})
	entries := make([]entry.Entry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		doc := fieldValue(fields, "$")
		if doc == "" {
			continue
		}

		e, err := parseEntryJSON(s.extractID(key), doc)
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// fieldValue finds a named field in an alternating name/value array.
func fieldValue(fields []rueidis.RedisMessage, name string) string {
	for i := 0; i+1 < len(fields); i += 2 {
		n, err := fields[i].ToString()
		if err != nil || n != name {
			continue
		}
		v, err := fields[i+1].ToString()
		if err != nil {
			return ""
		}
		return v
	}
	return ""
}

// extractID strips the key prefix to recover the entry ID.
func (s *Store) extractID(key string) string {
	if len(key) > len(s.prefix) && key[:len(s.prefix)] == s.prefix {
		return key[len(s.prefix):]
	}
	return key
}
