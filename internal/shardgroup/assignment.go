// Package shardgroup owns one instance's slice of the gateway shard space:
// it validates the local shard assignment, runs one event loop per owned
// shard, and reports readiness once every shard connection is established.
package shardgroup

import "fmt"

// Assignment describes the shard partition one running process owns. It is
// immutable for the process lifetime. Deployment orchestration is
// responsible for global coverage; this type only validates the local set.
type Assignment struct {
	// Instance is this process's index in [0, Instances).
	Instance int

	// Instances is the total number of cooperating processes.
	Instances int

	// ShardCount is the gateway's total shard count.
	ShardCount int

	// ShardIDs is the ordered set of shard IDs this process owns.
	ShardIDs []int
}

// Validate checks the local partition invariants: the shard set is non-empty,
// every ID lies in [0, ShardCount), nothing repeats, and the instance index
// is in range. A violation here is fatal at startup.
func (a Assignment) Validate() error {
	if a.Instances <= 0 {
		return fmt.Errorf("instance count must be positive, got %d", a.Instances)
	}
	if a.Instance < 0 || a.Instance >= a.Instances {
		return fmt.Errorf("instance index %d out of range [0, %d)", a.Instance, a.Instances)
	}
	if a.ShardCount <= 0 {
		return fmt.Errorf("shard count must be positive, got %d", a.ShardCount)
	}
	if len(a.ShardIDs) == 0 {
		return fmt.Errorf("shard ID set cannot be empty")
	}

	seen := make(map[int]struct{}, len(a.ShardIDs))
	for _, id := range a.ShardIDs {
		if id < 0 || id >= a.ShardCount {
			return fmt.Errorf("shard ID %d out of range [0, %d)", id, a.ShardCount)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate shard ID %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ShardsForInstance computes the canonical round-robin shard set for one
// instance out of n. Across all instances it covers [0, shardCount) exactly
// once, which deployment tooling relies on when no explicit set is given.
func ShardsForInstance(instance, instances, shardCount int) []int {
	if instances <= 0 || instance < 0 || instance >= instances {
		return nil
	}
	var ids []int
	for id := instance; id < shardCount; id += instances {
		ids = append(ids, id)
	}
	return ids
}
