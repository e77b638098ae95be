package kbadmin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbadmin/internal/audit"
	"github.com/kailas-cloud/kbadmin/internal/backend"
	"github.com/kailas-cloud/kbadmin/internal/config"
	"github.com/kailas-cloud/kbadmin/internal/domain"
	"github.com/kailas-cloud/kbadmin/internal/domain/entry"
	"github.com/kailas-cloud/kbadmin/internal/entrystore"
	"github.com/kailas-cloud/kbadmin/internal/logger"
	"github.com/kailas-cloud/kbadmin/internal/usecase/bulk"
	"github.com/kailas-cloud/kbadmin/internal/usecase/duplicates"
	"github.com/kailas-cloud/kbadmin/internal/usecase/entries"
	"github.com/kailas-cloud/kbadmin/internal/usecase/session"
	"github.com/kailas-cloud/kbadmin/internal/usecase/vectors"
	"github.com/kailas-cloud/kbadmin/internal/usecase/vectorsync"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the kbadmin entry point.
type Client struct {
	backend   *backend.Client
	store     *entrystore.Store
	obs       *observer
	log       *zap.Logger
	recorder  *audit.Recorder
	workspace *session.Workspace

	entrySvc  *entries.Service
	syncSvc   *vectorsync.Service
	vectorSvc *vectors.Service
	bulkSvc   *bulk.Service
}

// New creates a kbadmin Client. The backend URL defaults to the
// KB_BACKEND_URL environment variable, then http://localhost:8000.
// An entry store connection is optional; without one, listings and
// lookups return an error while writes keep working.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.configEnv != "" {
		fileCfg, err := config.Load(cfg.configEnv)
		if err != nil {
			return nil, fmt.Errorf("kbadmin: load config: %w", err)
		}
		cfg.applyFileConfig(fileCfg)
		if cfg.logger == nil {
			l, err := logger.NewLogger(cfg.configEnv, fileCfg.Logging.Level)
			if err != nil {
				return nil, fmt.Errorf("kbadmin: build logger: %w", err)
			}
			cfg.logger = l
		}
	}
	if cfg.baseURL == "" {
		cfg.baseURL = config.BaseURLFromEnv()
	}
	if cfg.keyPrefix == "" {
		cfg.keyPrefix = config.DefaultKeyPrefix
	}
	if cfg.indexName == "" {
		cfg.indexName = config.DefaultIndexName
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	api := backend.New(cfg.baseURL, cfg.httpClient)

	var store *entrystore.Store
	if len(cfg.storeAddrs) > 0 {
		store, err = entrystore.New(entrystore.Config{
			Addrs:     cfg.storeAddrs,
			Username:  cfg.storeUsername,
			Password:  cfg.storePassword,
			DB:        cfg.storeDB,
			KeyPrefix: cfg.keyPrefix,
			IndexName: cfg.indexName,
		})
		if err != nil {
			return nil, fmt.Errorf("kbadmin: create entry store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("kbadmin: entry store not ready: %w", err)
		}
	}

	return wireClient(api, store, cfg, obs), nil
}

func wireClient(api *backend.Client, store *entrystore.Store, cfg *clientConfig, obs *observer) *Client {
	recorder := audit.New(cfg.actor)

	var reader entries.Reader = unavailableReader{}
	if store != nil {
		reader = store
	}

	dupSvc := duplicates.New(api)
	entrySvc := entries.New(api, reader, dupSvc, recorder)
	if cfg.listLimit > 0 {
		entrySvc = entrySvc.WithListLimit(cfg.listLimit)
	}

	c := &Client{
		backend:   api,
		store:     store,
		obs:       obs,
		log:       cfg.logger,
		recorder:  recorder,
		workspace: session.NewWorkspace(),
		entrySvc:  entrySvc,
		syncSvc:   vectorsync.New(api),
		vectorSvc: vectors.New(api),
	}

	// Bulk items go through the same lifecycle services as single
	// entries, so preconditions, sync guarding and state recording
	// hold regardless of how the operation was dispatched.
	bulkSvc := bulk.New(
		bulkArchiver{api: api, recorder: recorder},
		bulkDeleter{c: c},
		bulkSyncer{c: c},
		api,
	)
	if cfg.bulkConcurrency > 0 {
		bulkSvc = bulkSvc.WithMaxConcurrency(cfg.bulkConcurrency)
	}
	c.bulkSvc = bulkSvc
	return c
}

// Close releases the entry store connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks entry store connectivity. Without a configured store it
// is a no-op.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(c.opCtx(ctx)); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Entries returns the entry lifecycle service.
func (c *Client) Entries() *EntryService {
	return &EntryService{c: c}
}

// Vectors returns the vector index service.
func (c *Client) Vectors() *VectorService {
	return &VectorService{c: c}
}

// Bulk returns the bulk operation service.
func (c *Client) Bulk() *BulkService {
	return &BulkService{c: c}
}

// opCtx attaches the configured logger to the context so internal
// services pick it up.
func (c *Client) opCtx(ctx context.Context) context.Context {
	if c.log == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.log)
}

// unavailableReader stands in when no entry store is configured.
type unavailableReader struct{}

func (unavailableReader) ListActive(context.Context, int) ([]entry.Entry, error) {
	return nil, fmt.Errorf("entry store not configured (use WithEntryStore): %w", domain.ErrPrecondition)
}

func (unavailableReader) ListArchived(context.Context, int) ([]entry.Entry, error) {
	return nil, fmt.Errorf("entry store not configured (use WithEntryStore): %w", domain.ErrPrecondition)
}

func (unavailableReader) ListByCategory(context.Context, string, int) ([]entry.Entry, error) {
	return nil, fmt.Errorf("entry store not configured (use WithEntryStore): %w", domain.ErrPrecondition)
}

func (unavailableReader) Get(_ context.Context, id string) (entry.Entry, error) {
	return entry.Entry{}, fmt.Errorf("entry store not configured (use WithEntryStore): %w", domain.ErrPrecondition)
}

// bulkArchiver archives entries by ID on behalf of the configured actor.
type bulkArchiver struct {
	api      *backend.Client
	recorder *audit.Recorder
}

func (a bulkArchiver) Archive(ctx context.Context, id, reason string) error {
	return a.api.Archive(ctx, id, a.recorder.Actor(), a.recorder.Now(), reason)
}

// bulkDeleter permanently deletes one entry, subject to the same
// archived-only precondition as the single-entry path.
type bulkDeleter struct {
	c *Client
}

func (d bulkDeleter) Delete(ctx context.Context, id string) error {
	e, err := d.c.lookup(ctx, id)
	if err != nil {
		return err
	}
	return d.c.entrySvc.PermanentlyDelete(ctx, &e)
}

// bulkSyncer syncs one entry through the guarded sync service and
// records the outcome in the working set.
type bulkSyncer struct {
	c *Client
}

func (s bulkSyncer) Sync(ctx context.Context, id string) error {
	e, err := s.c.lookup(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.c.syncSvc.Sync(ctx, &e)
	s.c.workspace.ApplyUpdated(e)
	return err
}
