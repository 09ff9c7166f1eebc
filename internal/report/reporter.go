// Package report turns handler faults into operator-facing incident records
// and user-facing apology replies. The two sends are independent: a webhook
// delivery failure never suppresses the user reply, and vice versa.
package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/ctxlog"
	"resty.dev/v3"
)

// incidentColor is the accent color of the operator-facing incident embed.
const incidentColor = 16740159

// apologyColor is the accent color of the user-facing apology embed.
const apologyColor = 0xDEADBF

// webhookTimeout bounds a single incident POST.
const webhookTimeout = 10 * time.Second

// Reporter delivers incident records for one runtime instance.
type Reporter struct {
	client     *resty.Client
	webhookURL string
	supportURL string
	instance   int

	wg sync.WaitGroup
}

// webhookPayload is the JSON body posted to the operator incident sink.
type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

// New creates a reporter. An empty webhookURL disables the operator sink;
// the user-facing reply is always attempted.
func New(webhookURL, supportURL string, instance int) *Reporter {
	return &Reporter{
		client:     resty.New().SetTimeout(webhookTimeout),
		webhookURL: webhookURL,
		supportURL: supportURL,
		instance:   instance,
	}
}

// Report files one incident for a handler fault. Both sends run as their own
// fire-and-forget tasks with independent failure containment; the caller
// does not depend on either delivery for correctness.
func (r *Reporter) Report(ctx context.Context, ec *command.Context, cause error) {
	r.wg.Add(2)
	go func() {
		defer r.wg.Done()
		r.postIncident(ctx, ec, cause)
	}()
	go func() {
		defer r.wg.Done()
		r.sendApology(ctx, ec, cause)
	}()
}

// Wait blocks until all in-flight deliveries finish. Used at shutdown and in
// tests; correctness never depends on it.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

// Close releases the underlying HTTP client.
func (r *Reporter) Close() error {
	r.wg.Wait()
	return r.client.Close()
}

func (r *Reporter) postIncident(ctx context.Context, ec *command.Context, cause error) {
	logger := ctxlog.FromContext(ctx)

	if r.webhookURL == "" {
		logger.Debug("Incident webhook not configured, skipping operator report.")
		return
	}

	payload := webhookPayload{
		Embeds: []webhookEmbed{{
			Title:       fmt.Sprintf("Command: %s, Instance: %d", ec.Command.Name, r.instance),
			Description: fmt.Sprintf("```\n%v\n```\n By `%s` (`%s`)", cause, ec.UserName, ec.UserID),
			Color:       incidentColor,
		}},
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(r.webhookURL)
	if err != nil {
		logger.Warn("Incident webhook delivery failed.", "command", ec.Command.Name, "error", err)
		return
	}
	if resp.IsError() {
		logger.Warn("Incident webhook rejected.", "command", ec.Command.Name, "status", resp.StatusCode())
	}
}

func (r *Reporter) sendApology(ctx context.Context, ec *command.Context, cause error) {
	logger := ctxlog.FromContext(ctx)

	embed := command.Embed{
		Title: "Error",
		Description: fmt.Sprintf(
			"Error in command %s, [Support Server](%s).\n`%v`",
			ec.Command.Name, r.supportURL, cause,
		),
		Color: apologyColor,
	}
	if err := ec.SendEmbed(ctx, embed); err != nil {
		logger.Warn("Failed to deliver apology reply.", "command", ec.Command.Name, "error", err)
	}
}
