package shardgroup

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/shardbotgo/internal/ctxlog"
	"github.com/vk/shardbotgo/internal/dispatch"
	"github.com/vk/shardbotgo/internal/gateway"
	"github.com/vk/shardbotgo/internal/registry"
)

// Readiness is the signal emitted once every owned shard is connected. A
// process supervisor or health check consumes it.
type Readiness struct {
	Instance   int `json:"instance"`
	Instances  int `json:"instances"`
	ShardCount int `json:"shard_count"`
	Commands   int `json:"commands"`
}

// Manager runs the event loops for one instance's owned shards and forwards
// decoded messages into the dispatcher. Each shard's loop progresses
// independently; a slow handler on one shard never starves another.
type Manager struct {
	assignment Assignment
	transport  gateway.Transport
	dispatcher *dispatch.Dispatcher
	registry   *registry.Registry
	onReady    func(Readiness)
}

// New creates a manager. onReady may be nil.
func New(assignment Assignment, transport gateway.Transport, d *dispatch.Dispatcher, reg *registry.Registry, onReady func(Readiness)) (*Manager, error) {
	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shard assignment: %w", err)
	}
	return &Manager{
		assignment: assignment,
		transport:  transport,
		dispatcher: d,
		registry:   reg,
		onReady:    onReady,
	}, nil
}

// Run dials every owned shard, emits the readiness signal, and pumps each
// shard's events until ctx is cancelled. It returns after all shard loops
// and in-flight invocations have drained.
func (m *Manager) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	conns := make([]gateway.Conn, 0, len(m.assignment.ShardIDs))
	closeAll := func() {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}

	for _, shardID := range m.assignment.ShardIDs {
		conn, err := m.transport.Dial(ctx, shardID)
		if err != nil {
			closeAll()
			return fmt.Errorf("failed to establish shard %d: %w", shardID, err)
		}
		conns = append(conns, conn)
	}

	ready := Readiness{
		Instance:   m.assignment.Instance,
		Instances:  m.assignment.Instances,
		ShardCount: m.assignment.ShardCount,
		Commands:   m.registry.Count(),
	}
	logger.Info("READY",
		"instance", fmt.Sprintf("%d/%d", ready.Instance+1, ready.Instances),
		"shards", ready.ShardCount,
		"commands", ready.Commands,
	)
	if m.onReady != nil {
		m.onReady(ready)
	}

	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		shardID := m.assignment.ShardIDs[i]
		go func(conn gateway.Conn) {
			defer wg.Done()
			m.pump(ctxlog.WithLogger(ctx, logger.With("shardID", shardID)), conn)
		}(conn)
	}

	<-ctx.Done()
	closeAll()
	wg.Wait()
	m.dispatcher.Wait()
	return nil
}

// pump is one shard's event loop. Dispatch hands each invocation to its own
// goroutine, so the loop itself only ever blocks on event arrival.
func (m *Manager) pump(ctx context.Context, conn gateway.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.Messages():
			if !ok {
				return
			}
			m.dispatcher.Dispatch(ctx, conn, msg)
		}
	}
}
