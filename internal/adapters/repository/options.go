// Package repository defines the rating store interface and errors.
package repository

// storeConfig collects MemStore construction parameters.
type storeConfig struct {
	shardCount int
}

// Option applies a configuration option to the MemStore.
type Option func(*storeConfig)

// WithShardCount sets the number of shards in the store.
func WithShardCount(count int) Option {
	return func(c *storeConfig) {
		if count > 0 {
			c.shardCount = count
		}
	}
}
