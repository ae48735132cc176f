package engine

import "time"

const (
	// DefaultDirectThreshold is the max file count for the direct-concurrent path
	DefaultDirectThreshold = 20

	// DefaultChunkThreshold is the file size at which uploads switch to the chunked protocol
	DefaultChunkThreshold = int64(50 * 1024 * 1024)

	// DefaultConcurrency is the number of direct-path upload workers
	DefaultConcurrency = 5

	// DefaultChunkConcurrency bounds in-flight chunk requests for one file
	DefaultChunkConcurrency = 3

	// DefaultMaxRetries bounds retries per task attempt sequence
	DefaultMaxRetries = 2

	// DefaultRetryBase is the base delay between retry attempts
	DefaultRetryBase = time.Second

	// DefaultBatchSize is the number of files per bulk job
	DefaultBatchSize = 20

	// DefaultPollInterval is the bulk job polling interval
	DefaultPollInterval = 2 * time.Second
)

// Config tunes the orchestration engine. Zero values fall back to defaults;
// MaxRetries can be set to a negative value to disable retries entirely.
type Config struct {
	DirectThreshold  int
	ChunkThreshold   int64
	Concurrency      int
	ChunkConcurrency int
	MaxRetries       int
	RetryBase        time.Duration
	BatchSize        int
	PollInterval     time.Duration
}

func (c Config) withDefaults() Config {
	if c.DirectThreshold <= 0 {
		c.DirectThreshold = DefaultDirectThreshold
	}
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = DefaultChunkThreshold
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.ChunkConcurrency <= 0 {
		c.ChunkConcurrency = DefaultChunkConcurrency
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	} else if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryBase <= 0 {
		c.RetryBase = DefaultRetryBase
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}
