// Package dispatch consumes inbound gateway events and turns matching text
// into command invocations. Each event runs its own pipeline: filter, prefix
// match, tokenize, registry lookup, then invocation inside a failure boundary
// that keeps a misbehaving handler from touching the shard's event loop.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/ctxlog"
	"github.com/vk/shardbotgo/internal/gateway"
	"github.com/vk/shardbotgo/internal/prefix"
	"github.com/vk/shardbotgo/internal/registry"
	"github.com/vk/shardbotgo/internal/report"
)

// DefaultMaxInflight bounds concurrent handler invocations per instance when
// no explicit ceiling is configured.
const DefaultMaxInflight = 64

// Dispatcher routes inbound messages to registered command handlers.
type Dispatcher struct {
	registry *registry.Registry
	resolver *prefix.Resolver
	reporter *report.Reporter

	// inflight is a semaphore bounding concurrent invocations so a message
	// flood cannot fan out unboundedly.
	inflight chan struct{}
	wg       sync.WaitGroup
}

// New creates a dispatcher. maxInflight <= 0 selects DefaultMaxInflight.
func New(reg *registry.Registry, resolver *prefix.Resolver, reporter *report.Reporter, maxInflight int) *Dispatcher {
	if maxInflight <= 0 {
		maxInflight = DefaultMaxInflight
	}
	return &Dispatcher{
		registry: reg,
		resolver: resolver,
		reporter: reporter,
		inflight: make(chan struct{}, maxInflight),
	}
}

// Dispatch runs the pipeline for one inbound event. It returns once the
// invocation has been handed to its own goroutine (or the event was
// filtered); the caller's event loop never waits on a handler body.
func (d *Dispatcher) Dispatch(ctx context.Context, conn gateway.Conn, msg gateway.Message) {
	logger := ctxlog.FromContext(ctx)

	// Automated senders and empty content are terminal.
	if msg.SenderIsBot || msg.Content == "" {
		return
	}

	// First prefix in resolver order wins: defaults before custom, never
	// longest-match.
	matched := ""
	for _, p := range d.resolver.Resolve(ctx, msg.SenderID) {
		if strings.HasPrefix(msg.Content, p) {
			matched = p
			break
		}
	}
	if matched == "" {
		return
	}

	tokens := strings.Fields(msg.Content[len(matched):])
	if len(tokens) == 0 {
		return
	}

	cmd, ok := d.registry.Lookup(tokens[0])
	if !ok {
		// Unrecognized prefixed text is not an error.
		logger.Debug("No command registered for prefixed message.", "token", tokens[0])
		return
	}

	select {
	case d.inflight <- struct{}{}:
	case <-ctx.Done():
		return
	}

	ec := command.NewContext(msg.SenderID, msg.SenderName, msg.ChannelID, cmd, conn)
	args := tokens[1:]

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.inflight }()
		d.invoke(ctx, ec, args)
	}()
}

// Wait blocks until every in-flight invocation has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// invoke runs one handler inside the failure boundary. A UsageError is the
// user's own reply; anything else, panics included, becomes an incident and
// never unwinds past this point.
func (d *Dispatcher) invoke(ctx context.Context, ec *command.Context, args []string) {
	logger := ctxlog.FromContext(ctx)

	var err error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("handler panic: %v", rec)
			}
		}()
		err = ec.Command.Run(ctx, ec, args)
	}()

	if err == nil {
		return
	}

	if ue, ok := command.AsUsage(err); ok {
		if sendErr := ec.Send(ctx, ue.Message); sendErr != nil {
			logger.Warn("Failed to deliver usage reply.", "command", ec.Command.Name, "error", sendErr)
		}
		return
	}

	logger.Error("Command handler fault.", "command", ec.Command.Name, "userID", ec.UserID, "error", err)
	d.reporter.Report(ctx, ec, err)
}
