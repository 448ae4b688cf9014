package sdk

import (
	"time"

	"go.uber.org/zap"
)

type partitionConfig struct {
	name    string
	baseURL string
	apiKey  string
}

type clientConfig struct {
	partitions     []partitionConfig
	similarityURL  string
	similarityKey  string
	logger         *zap.Logger
	pageSize       int
	requestTimeout time.Duration
	maxCandidates  int
}

// Option configures the SDK client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// WithPartition registers a content partition backend.
func WithPartition(name, baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.partitions = append(c.partitions, partitionConfig{name: name, baseURL: baseURL, apiKey: apiKey})
	})
}

// WithSimilarity registers the similarity/readiness backend used for
// cross-modal matching.
func WithSimilarity(baseURL, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.similarityURL = baseURL
		c.similarityKey = apiKey
	})
}

// WithLogger sets the logger (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) { c.logger = logger })
}

// WithPageSize sets the per-partition page size for queries.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) { c.pageSize = n })
}

// WithRequestTimeout bounds a single partition request.
func WithRequestTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) { c.requestTimeout = d })
}

// WithMaxCandidates caps the candidate set passed to the readiness gate.
func WithMaxCandidates(n int) Option {
	return optionFunc(func(c *clientConfig) { c.maxCandidates = n })
}
