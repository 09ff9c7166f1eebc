// Package cli turns command-line arguments into a validated app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/vk/shardbotgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("shardbotgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ShardBotGo - A sharded chat-bot command dispatch runtime.

Usage:
  shardbotgo [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	gatewayFlag := flagSet.String("gateway", "", "URL of the real-time gateway to connect shards to.")
	instanceFlag := flagSet.Int("instance", 0, "This process's instance index, starting at 0.")
	instancesFlag := flagSet.Int("instances", 1, "Total number of cooperating instances.")
	shardCountFlag := flagSet.Int("shard-count", 1, "Total gateway shard count across all instances.")
	shardIDsFlag := flagSet.String("shard-ids", "", "Comma-separated shard IDs owned by this instance. Empty selects the canonical partition for the instance index.")
	redisAddrFlag := flagSet.String("redis-addr", "localhost:6379", "Address of the prefix key-value store.")
	storeTimeoutFlag := flagSet.Duration("store-timeout", 500*time.Millisecond, "Timeout for a single prefix store lookup.")
	webhookFlag := flagSet.String("webhook-url", "", "Operator incident webhook URL. Empty disables operator reports.")
	supportFlag := flagSet.String("support-url", "https://discord.gg/q98qeYN", "Support link included in user-facing error replies.")
	extensionsFlag := flagSet.String("extensions-path", "extensions", "Path to the directory containing extension manifests.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	maxInflightFlag := flagSet.Int("max-inflight", 64, "Maximum concurrent command invocations for this instance.")
	insecureFlag := flagSet.Bool("insecure-skip-verify", false, "Skip TLS certificate verification when dialing the gateway.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *gatewayFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	shardIDs, err := parseShardIDs(*shardIDsFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	config, err := app.NewConfig(app.Config{
		Instance:           *instanceFlag,
		Instances:          *instancesFlag,
		ShardCount:         *shardCountFlag,
		ShardIDs:           shardIDs,
		GatewayURL:         *gatewayFlag,
		InsecureSkipVerify: *insecureFlag,
		RedisAddr:          *redisAddrFlag,
		StoreTimeout:       *storeTimeoutFlag,
		WebhookURL:         *webhookFlag,
		SupportURL:         *supportFlag,
		ExtensionsPath:     *extensionsFlag,
		LogFormat:          logFormat,
		LogLevel:           logLevel,
		HealthcheckPort:    *healthPortFlag,
		MaxInflight:        *maxInflightFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}

// parseShardIDs parses a comma-separated shard ID list. Empty input means
// "derive from the instance index" and returns nil.
func parseShardIDs(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid shard-ids entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
