// Package nlp extracts structure from free-text test commands.
//
// KeywordParser matches word-bounded keyword tables against the lower-cased
// command. It reports what it finds and nothing more: defaults for missing
// test types, services or actions are applied by the context analyzer.
//
// Extracted parameters:
//
//	timeout      "10m", "45s" (only when "timeout" or "time limit" is mentioned)
//	retries      integer (only when "retry" or "retries" is mentioned)
//	parallel     true
//	intensity    low | medium | high
//	priority     HIGH | LOW
//	scope        FULL | PARTIAL
//	environment  PRODUCTION | STAGING | DEVELOPMENT
package nlp
