package loader

import (
	"os"

	"gopkg.in/yaml.v3"

	"praxis-hq/sentinel/pkg/rules"
)

// ruleFile is the YAML document shape: a top-level "rules" list.
type ruleFile struct {
	Rules []Record `yaml:"rules"`
}

// ParseBytes parses YAML rule records from memory.
func ParseBytes(data []byte) ([]Record, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &SourceError{Message: "invalid YAML", Cause: err}
	}
	if len(file.Rules) == 0 {
		return nil, &SourceError{Message: "no rule records found"}
	}
	return file.Rules, nil
}

// LoadBytes parses YAML rule records and builds a ruleset. An unusable
// source degrades to the fallback ruleset.
func (l *Loader) LoadBytes(data []byte) *rules.RuleSet {
	records, err := ParseBytes(data)
	if err != nil {
		l.logger.Error("rule source unusable, using fallback ruleset", "error", err)
		return l.Fallback()
	}
	return l.BuildRuleSet(records)
}

// LoadFile reads and parses a YAML rule file and builds a ruleset. A
// missing or unreadable file degrades to the fallback ruleset.
func (l *Loader) LoadFile(path string) *rules.RuleSet {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Error("rule source unusable, using fallback ruleset",
			"path", path,
			"error", &SourceError{Path: path, Message: "read failed", Cause: err},
		)
		return l.Fallback()
	}
	return l.LoadBytes(data)
}
