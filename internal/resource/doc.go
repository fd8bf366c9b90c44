// Package resource governs memory, concurrency and IO budgets.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Limit   │  Background     │  IO Rate Limiter        │
//	│  (fail-fast)    │  Workers (sem)  │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquireBack-   │  AcquireIO              │
//	│  ReleaseMemory  │  ground         │  RateLimitedWriter      │
//	│  MemoryUsage    │  Release        │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Memory
//
// Segment allocators reserve every byte of column backing memory here before
// mapping it. AcquireMemory never blocks: column growth is synchronous and a
// refused reservation surfaces immediately as an allocation failure.
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(size)
//
// # Background Workers and IO
//
// Snapshot uploads take a background slot and pass their bytes through a
// token bucket so exporting many columns does not saturate the uplink.
//
// # Nil Safety
//
// All methods on a nil *Controller are no-ops.
package resource
