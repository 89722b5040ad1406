package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"praxis-hq/sentinel/pkg/engine"
	"praxis-hq/sentinel/pkg/loader"
	"praxis-hq/sentinel/pkg/predicates"
	"praxis-hq/sentinel/pkg/telemetry/metrics"
)

var gateFlags struct {
	debounce time.Duration
}

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Run a streaming plan gate on stdin/stdout",
	Long: `Run a long-lived gate that reads plan documents from stdin, one JSON
object per line, and writes one decision per line to stdout.

Each input line is a document of the form:

  {"plan": {"action": "..."}, "context": {"consent": true}}

The rule file is watched for changes and hot reloaded without dropping
in-flight evaluations; an unusable rule file degrades to the built-in
fallback ruleset. The gate exits on EOF or SIGINT/SIGTERM.

Example:
  tail -f plans.ndjson | sentinel gate --rules rules.yaml`,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)

	gateCmd.Flags().DurationVar(&gateFlags.debounce, "reload-debounce", 100*time.Millisecond, "rule reload debounce window")
}

// gateInput is one stdin line: the plan under evaluation plus its context.
type gateInput struct {
	Plan    map[string]any `json:"plan"`
	Context map[string]any `json:"context,omitempty"`
}

// gateOutput is one stdout line: the decision for the matching input line.
type gateOutput struct {
	Action      string   `json:"action"`
	Reasons     []string `json:"reasons"`
	Triggered   []string `json:"triggered,omitempty"`
	PlanHash    string   `json:"plan_hash"`
	RuleSetHash string   `json:"ruleset_hash"`
	Duration    string   `json:"duration"`
	Error       string   `json:"error,omitempty"`
}

func runGate(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	promRegistry := prometheus.NewRegistry()
	sink := metrics.NewEvaluationMetrics(metrics.DefaultConfig(), promRegistry)

	ruleLoader := loader.NewLoader(predicates.NewRegistry(), logger)
	ruleset := ruleLoader.LoadFile(rulesFile)

	config := engine.DefaultConfig()
	config.Metrics = sink

	eng, err := engine.New(ruleset, config, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	watcher, err := loader.NewWatcher(rulesFile, gateFlags.debounce, logger)
	if err != nil {
		return fmt.Errorf("failed to create rule watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := watcher.Watch(ctx, func() error {
			return eng.Reload(ruleLoader.LoadFile(rulesFile))
		})
		if err != nil {
			logger.Error("rule watcher exited", "error", err)
		}
	}()
	defer watcher.Stop()

	logger.Info("gate started", "rules", rulesFile)

	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var input gateInput
		if err := json.Unmarshal(line, &input); err != nil {
			out.Encode(gateOutput{Action: "block", Error: fmt.Sprintf("invalid input: %v", err)})
			continue
		}
		if input.Plan == nil {
			out.Encode(gateOutput{Action: "block", Error: "missing plan"})
			continue
		}

		result := eng.EvaluatePlan(input.Plan, input.Context)
		out.Encode(gateOutput{
			Action:      string(result.Action),
			Reasons:     result.Reasons,
			Triggered:   result.TriggeredRuleIDs(),
			PlanHash:    result.PlanHash,
			RuleSetHash: result.RuleSetHash,
			Duration:    result.Duration.String(),
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdin read failed: %w", err)
	}

	stats := eng.Stats()
	logger.Info("gate finished",
		"total", stats.TotalEvaluations,
		"allowed", stats.Allowed,
		"warned", stats.Warned,
		"blocked", stats.Blocked,
	)
	return nil
}
