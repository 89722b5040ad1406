package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"praxis-hq/sentinel/pkg/dsl"
	"praxis-hq/sentinel/pkg/loader"
	"praxis-hq/sentinel/pkg/predicates"
	"praxis-hq/sentinel/pkg/rules"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule files",
	Long: `Validate rule files for syntax and semantic errors.

The lint command parses rule files and performs full validation:
  - YAML syntax validation
  - Record structure validation (name, action, priority)
  - Rule DSL compilation (predicate names and arities)

Examples:
  # Lint a single file
  sentinel lint --file rules.yaml

  # Lint a directory
  sentinel lint --dir rules/

  # JSON output for CI/CD
  sentinel lint --file rules.yaml --format json`,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation outcome for a single rule file.
type LintResult struct {
	File   string      `json:"file"`
	Valid  bool        `json:"valid"`
	Rules  int         `json:"rules"`
	Errors []LintError `json:"errors,omitempty"`
}

// LintError is a single validation error within a rule file.
type LintError struct {
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no rule files found")
	}

	registry := predicates.NewRegistry()
	results := make([]LintResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := lintRuleFile(file, registry)
		if !result.Valid {
			allValid = false
		}
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Valid {
				fmt.Printf("OK   %s (%d rules)\n", result.File, result.Rules)
				continue
			}
			fmt.Printf("FAIL %s\n", result.File)
			for _, lintErr := range result.Errors {
				if lintErr.Rule != "" {
					fmt.Printf("  %s: %s\n", lintErr.Rule, lintErr.Message)
				} else {
					fmt.Printf("  %s\n", lintErr.Message)
				}
			}
		}
	}

	if !allValid {
		os.Exit(1)
	}
	return nil
}

// lintRuleFile validates one rule file: YAML shape, record fields, and DSL
// compilation against the predicate registry.
func lintRuleFile(path string, registry *predicates.Registry) LintResult {
	result := LintResult{File: path, Valid: true}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, LintError{Message: err.Error()})
		return result
	}

	records, err := loader.ParseBytes(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, LintError{Message: err.Error()})
		return result
	}
	result.Rules = len(records)

	seen := make(map[string]bool)
	for i, record := range records {
		name := record.Name
		if name == "" {
			name = fmt.Sprintf("record %d", i)
			result.Valid = false
			result.Errors = append(result.Errors, LintError{Rule: name, Message: "missing name"})
		}

		if seen[record.Name] {
			result.Valid = false
			result.Errors = append(result.Errors, LintError{Rule: name, Message: "duplicate rule name"})
		}
		seen[record.Name] = true

		if _, err := rules.ParseAction(record.Action); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, LintError{Rule: name, Message: err.Error()})
		}
		if _, err := rules.ParsePriority(record.Priority); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, LintError{Rule: name, Message: err.Error()})
		}

		if record.RuleDSL == "" {
			result.Valid = false
			result.Errors = append(result.Errors, LintError{Rule: name, Message: "missing rule_dsl"})
			continue
		}
		if _, err := dsl.Compile(record.RuleDSL, registry); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, LintError{Rule: name, Message: err.Error()})
		}
	}

	return result
}
