package nlp

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/pkg/logging"
)

// ErrEmptyCommand is returned by Parse for blank input.
var ErrEmptyCommand = errors.New("command is empty")

// Parser turns a free-text command into a structured ParsedCommand.
type Parser interface {
	Parse(ctx context.Context, command string) (api.ParsedCommand, error)
}

const (
	listWeight  = 0.3
	paramWeight = 0.1
)

type keyword[T any] struct {
	value   T
	pattern *regexp.Regexp
}

type match[T any] struct {
	value T
	pos   int
}

func words(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + alternatives + `)\b`)
}

var intentKeywords = []keyword[api.IntentType]{
	{api.IntentRunTests, words(`run|execute|start|launch`)},
	{api.IntentAnalyzeFailures, words(`analy[sz]e|investigate|debug|examine`)},
	{api.IntentGenerateTests, words(`generate|create|write|build`)},
	{api.IntentOptimizeTests, words(`optimi[sz]e|improve|enhance|tune`)},
	{api.IntentHealthCheck, words(`health|status|check|monitor`)},
	{api.IntentGetStatus, words(`status|state|info|details`)},
	{api.IntentHelp, words(`help|assist|support|guide`)},
}

// serviceStems are the short forms accepted for well-known services in
// addition to their full name.
var serviceStems = map[string]string{
	"user-service":         `users?`,
	"product-service":      `products?`,
	"order-service":        `orders?`,
	"notification-service": `notifications?`,
	"gateway-service":      `gateway`,
}

var allServicesPattern = words(`all|everything|entire`)

var testTypeKeywords = []keyword[api.TestType]{
	{api.TestTypeUnit, words(`unit`)},
	{api.TestTypeIntegration, words(`integration`)},
	{api.TestTypeAPI, words(`api`)},
	{api.TestTypePerformance, words(`performance|load|stress|benchmark`)},
	{api.TestTypeSecurity, words(`security|penetration|vulnerability`)},
	{api.TestTypeChaos, words(`chaos|resilience|failure`)},
	{api.TestTypeContract, words(`contract|pact|agreement`)},
	{api.TestTypeEndToEnd, words(`e2e|end-to-end|end to end`)},
	{api.TestTypeSmoke, words(`smoke|basic|quick`)},
	{api.TestTypeRegression, words(`regression`)},
	{api.TestTypeExploratory, words(`exploratory|ad-hoc|manual`)},
	{api.TestTypeAccessibility, words(`accessibility|a11y|wcag`)},
	{api.TestTypeCompatibility, words(`compatibility|cross-platform|browser`)},
	{api.TestTypeLocalization, words(`localization|i18n|internationalization`)},
}

var (
	timeoutMention = words(`timeout|time limit`)
	timeoutValue   = regexp.MustCompile(`(\d+)\s*(hours?|hrs?|minutes?|mins?|seconds?|secs?)\b`)
	retryMention   = words(`retry|retries`)
	retryValue     = regexp.MustCompile(`(\d+)\s*retries?\b|\bretry\s*(\d+)\s*times?\b`)
	parallelWords  = words(`parallel|concurrent|simultaneous`)
	intensityValue = regexp.MustCompile(`\b(low|medium|high)\s+intensity\b|\bintensity\s+(low|medium|high)\b`)
)

var priorityKeywords = []keyword[string]{
	{"HIGH", words(`high priority|urgent|critical`)},
	{"LOW", words(`low priority|background`)},
}

var scopeKeywords = []keyword[string]{
	{"FULL", words(`full|complete|comprehensive`)},
	{"PARTIAL", words(`partial|limited|subset`)},
}

var environmentKeywords = []keyword[string]{
	{"PRODUCTION", words(`production|prod`)},
	{"STAGING", words(`staging|stage`)},
	{"DEVELOPMENT", words(`development|dev`)},
}

// KeywordParser is a deterministic Parser driven by keyword tables. Services
// and test types are reported in order of first mention.
type KeywordParser struct {
	serviceNames    []string
	serviceKeywords []keyword[string]
}

// NewKeywordParser creates a parser that recognises the services known by
// cat. "all services" resolves to every one of them.
func NewKeywordParser(cat *catalog.Catalog) *KeywordParser {
	p := &KeywordParser{serviceNames: cat.ServiceNames()}
	for _, name := range p.serviceNames {
		alternatives := regexp.QuoteMeta(strings.ToLower(name))
		if stem, ok := serviceStems[name]; ok {
			alternatives += "|" + stem
		}
		p.serviceKeywords = append(p.serviceKeywords, keyword[string]{value: name, pattern: words(alternatives)})
	}
	return p
}

// Parse extracts intents, services, test types and parameters from command.
func (p *KeywordParser) Parse(ctx context.Context, command string) (api.ParsedCommand, error) {
	if err := ctx.Err(); err != nil {
		return api.ParsedCommand{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(command))
	if normalized == "" {
		return api.ParsedCommand{}, ErrEmptyCommand
	}

	parsed := api.ParsedCommand{
		OriginalCommand: command,
		Intents:         matchAll(intentKeywords, normalized, false),
		Services:        p.services(normalized),
		TestTypes:       matchAll(testTypeKeywords, normalized, true),
		Parameters:      parameters(normalized),
	}
	parsed.Confidence = Confidence(parsed)

	logging.Debug("Parser", "Parsed %q: intents=%v services=%v testTypes=%v params=%v confidence=%.2f",
		command, parsed.Intents, parsed.Services, parsed.TestTypes, parsed.Parameters, parsed.Confidence)
	return parsed, nil
}

func (p *KeywordParser) services(normalized string) []string {
	if allServicesPattern.MatchString(normalized) {
		return append([]string(nil), p.serviceNames...)
	}

	return matchAll(p.serviceKeywords, normalized, true)
}

// matchAll returns the values whose pattern matches. With byPosition the
// result is ordered by first mention, otherwise by table order.
func matchAll[T any](table []keyword[T], text string, byPosition bool) []T {
	var hits []match[T]
	for _, kw := range table {
		if loc := kw.pattern.FindStringIndex(text); loc != nil {
			hits = append(hits, match[T]{value: kw.value, pos: loc[0]})
		}
	}
	if byPosition {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	}

	out := make([]T, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.value)
	}
	return out
}

func firstMatch(table []keyword[string], text string) (string, bool) {
	for _, kw := range table {
		if kw.pattern.MatchString(text) {
			return kw.value, true
		}
	}
	return "", false
}

func parameters(normalized string) map[string]interface{} {
	params := make(map[string]interface{})

	if timeoutMention.MatchString(normalized) {
		if timeout, ok := extractTimeout(normalized); ok {
			params["timeout"] = timeout
		}
	}
	if retryMention.MatchString(normalized) {
		if retries, ok := extractRetries(normalized); ok {
			params["retries"] = retries
		}
	}
	if parallelWords.MatchString(normalized) {
		params["parallel"] = true
	}
	if m := intensityValue.FindStringSubmatch(normalized); m != nil {
		params["intensity"] = m[1] + m[2]
	}
	if v, ok := firstMatch(priorityKeywords, normalized); ok {
		params["priority"] = v
	}
	if v, ok := firstMatch(scopeKeywords, normalized); ok {
		params["scope"] = v
	}
	if v, ok := firstMatch(environmentKeywords, normalized); ok {
		params["environment"] = v
	}
	return params
}

// extractTimeout converts "10 minutes" to "10m", "30 secs" to "30s" and
// "2 hours" to "120m".
func extractTimeout(text string) (string, bool) {
	m := timeoutValue.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}

	switch unit := m[2]; {
	case strings.HasPrefix(unit, "h"):
		return strconv.Itoa(n*60) + "m", true
	case strings.HasPrefix(unit, "s"):
		return strconv.Itoa(n) + "s", true
	default:
		return strconv.Itoa(n) + "m", true
	}
}

func extractRetries(text string) (int, bool) {
	m := retryValue.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Confidence scores a parse: 0.3 for each non-empty list of intents, services
// and test types, plus 0.1 when parameters were extracted, capped at 1.0.
func Confidence(parsed api.ParsedCommand) float64 {
	confidence := 0.0
	if len(parsed.Intents) > 0 {
		confidence += listWeight
	}
	if len(parsed.Services) > 0 {
		confidence += listWeight
	}
	if len(parsed.TestTypes) > 0 {
		confidence += listWeight
	}
	if len(parsed.Parameters) > 0 {
		confidence += paramWeight
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
