package kbadmin

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbadmin/internal/config"
	"github.com/kailas-cloud/kbadmin/internal/domain"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client

	storeAddrs    []string
	storeUsername string
	storePassword string
	storeDB       int
	keyPrefix     string
	indexName     string

	actor domain.Actor

	bulkConcurrency int
	listLimit       int

	logger     *zap.Logger
	metricsReg prometheus.Registerer

	configEnv string
}

// WithBaseURL sets the KB backend base URL. Defaults to the
// KB_BACKEND_URL environment variable, then http://localhost:8000.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithHTTPClient replaces the HTTP client used for backend calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithEntryStore enables direct entry reads from the document store.
// Without it, listings and lookups are unavailable; writes still work.
func WithEntryStore(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.storeAddrs = addrs
		c.storeUsername = username
		c.storePassword = password
	})
}

// WithEntryStoreKeys overrides the entry key prefix and search index
// name used for direct reads.
func WithEntryStoreKeys(keyPrefix, indexName string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = keyPrefix
		c.indexName = indexName
	})
}

// WithActor sets the operator identity stamped on every mutation.
// Without it, mutations are attributed to an anonymous placeholder.
func WithActor(id, email, name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.actor = domain.Actor{ID: id, Email: email, Name: name}
	})
}

// WithBulkConcurrency caps how many entries a bulk operation
// processes at once. Default: 8.
func WithBulkConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.bulkConcurrency = n
	})
}

// WithListLimit caps how many entries listings return. Default: 500.
func WithListLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.listLimit = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// WithConfig loads settings from the YAML config file for the given
// environment name (local, dev, prod). Explicit options given
// alongside it win over file values.
func WithConfig(env string) Option {
	return optionFunc(func(c *clientConfig) {
		c.configEnv = env
	})
}

// applyFileConfig merges file values into unset fields.
func (c *clientConfig) applyFileConfig(cfg config.Config) {
	if c.baseURL == "" {
		c.baseURL = cfg.Backend.BaseURL
	}
	if len(c.storeAddrs) == 0 {
		c.storeAddrs = cfg.EntryStore.Addrs
		c.storeUsername = cfg.EntryStore.Username
		c.storePassword = cfg.EntryStore.Password
		c.storeDB = cfg.EntryStore.DB
	}
	if c.keyPrefix == "" {
		c.keyPrefix = cfg.EntryStore.KeyPrefix
	}
	if c.indexName == "" {
		c.indexName = cfg.EntryStore.IndexName
	}
	if c.bulkConcurrency == 0 {
		c.bulkConcurrency = cfg.Bulk.MaxConcurrency
	}
}
