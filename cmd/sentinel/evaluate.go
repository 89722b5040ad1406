package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"praxis-hq/sentinel/pkg/engine"
	"praxis-hq/sentinel/pkg/loader"
	"praxis-hq/sentinel/pkg/predicates"
	"praxis-hq/sentinel/pkg/rules"
)

var evaluateFlags struct {
	planFile    string
	contextFile string
	format      string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a plan against a rule file",
	Long: `Evaluate one candidate plan against the configured rules and print the
decision. The process exits 0 when the plan is allowed (with or without
warnings) and 2 when it is blocked, so the command composes into scripts
and CI gates.

Examples:
  # Evaluate a plan
  sentinel evaluate --rules rules.yaml --plan plan.json

  # Include execution context (consent flags, environment)
  sentinel evaluate --rules rules.yaml --plan plan.json --context ctx.json

  # JSON output for machine consumption
  sentinel evaluate --rules rules.yaml --plan plan.json --format json`,
	RunE: evaluatePlan,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.planFile, "plan", "p", "", "plan JSON file (required)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.contextFile, "context", "", "context JSON file")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json")
	evaluateCmd.MarkFlagRequired("plan")
}

func evaluatePlan(cmd *cobra.Command, args []string) error {
	plan, err := readJSONMap(evaluateFlags.planFile)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}

	var context map[string]any
	if evaluateFlags.contextFile != "" {
		context, err = readJSONMap(evaluateFlags.contextFile)
		if err != nil {
			return fmt.Errorf("failed to read context: %w", err)
		}
	}

	logger := newLogger()
	ruleLoader := loader.NewLoader(predicates.NewRegistry(), logger)
	ruleset := ruleLoader.LoadFile(rulesFile)

	eng, err := engine.New(ruleset, engine.DefaultConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	result := eng.EvaluatePlan(plan, context)

	if evaluateFlags.format == "json" {
		out := map[string]any{
			"action":       result.Action,
			"reasons":      result.Reasons,
			"triggered":    result.TriggeredRuleIDs(),
			"plan_hash":    result.PlanHash,
			"ruleset_hash": result.RuleSetHash,
			"duration":     result.Duration.String(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		fmt.Printf("Action: %s\n", result.Action)
		fmt.Printf("Reasons:\n")
		for _, reason := range result.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
		if len(result.TriggeredRules) > 0 {
			fmt.Printf("Triggered Rules:\n")
			for _, trig := range result.TriggeredRules {
				fmt.Printf("  - %s (%s, hash %s)\n", trig.Name, trig.Action, trig.Hash)
			}
		}
		fmt.Printf("Plan Hash: %s\n", result.PlanHash)
		fmt.Printf("RuleSet Hash: %s\n", result.RuleSetHash)
		fmt.Printf("Duration: %v\n", result.Duration)
	}

	if result.Action == rules.ActionBlock {
		os.Exit(2)
	}
	return nil
}

// readJSONMap reads a JSON object from a file.
func readJSONMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
