// Package loader parses external rule records into validated rules and
// assembles them into rulesets.
//
// Records arrive as YAML documents with a top-level "rules" list:
//
//	rules:
//	  - name: no-user-data-deletes
//	    description: Destructive deletes of user data are blocked outright.
//	    rule_dsl: equals(action, "delete_user_data")
//	    action: block
//	    priority: critical
//	    tags: [destructive]
//
// Action and priority names are case-insensitive. A single invalid record is
// logged and skipped - it never aborts the load. When the whole source is
// unusable (missing file, malformed YAML, zero valid records), the loader
// falls back to a minimal hard-coded ruleset so the system never starts with
// zero protective rules.
//
// The optional Watcher reloads rules when the source file changes, debounced
// so editor save storms trigger one reload.
package loader
