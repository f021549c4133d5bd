package nlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
)

func TestKeywordParser_Parse(t *testing.T) {
	p := NewKeywordParser(catalog.Default())

	tests := []struct {
		name       string
		command    string
		intents    []api.IntentType
		services   []string
		testTypes  []api.TestType
		params     map[string]interface{}
		confidence float64
	}{
		{
			name:       "integration tests for two services",
			command:    "run integration tests for user-service and product-service",
			intents:    []api.IntentType{api.IntentRunTests},
			services:   []string{"user-service", "product-service"},
			testTypes:  []api.TestType{api.TestTypeIntegration},
			params:     map[string]interface{}{},
			confidence: 0.9,
		},
		{
			name:       "services in order of mention",
			command:    "Execute performance and chaos tests on orders, then users",
			intents:    []api.IntentType{api.IntentRunTests},
			services:   []string{"order-service", "user-service"},
			testTypes:  []api.TestType{api.TestTypePerformance, api.TestTypeChaos},
			params:     map[string]interface{}{},
			confidence: 0.9,
		},
		{
			name:       "all services",
			command:    "run smoke tests on all services in staging",
			intents:    []api.IntentType{api.IntentRunTests},
			services:   catalog.Default().ServiceNames(),
			testTypes:  []api.TestType{api.TestTypeSmoke},
			params:     map[string]interface{}{"environment": "STAGING"},
			confidence: 1.0,
		},
		{
			name:       "status is both a health check and a status query",
			command:    "what is the status of the gateway",
			intents:    []api.IntentType{api.IntentHealthCheck, api.IntentGetStatus},
			services:   []string{"gateway-service"},
			testTypes:  []api.TestType{},
			params:     map[string]interface{}{},
			confidence: 0.6,
		},
		{
			name:       "nothing recognised",
			command:    "make me a sandwich",
			intents:    []api.IntentType{},
			services:   []string{},
			testTypes:  []api.TestType{},
			params:     map[string]interface{}{},
			confidence: 0,
		},
		{
			name:      "parameters",
			command:   "urgent: run e2e tests for notifications in parallel with a timeout of 2 hours and 3 retries",
			intents:   []api.IntentType{api.IntentRunTests},
			services:  []string{"notification-service"},
			testTypes: []api.TestType{api.TestTypeEndToEnd},
			params: map[string]interface{}{
				"priority": "HIGH",
				"parallel": true,
				"timeout":  "120m",
				"retries":  3,
			},
			confidence: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := p.Parse(context.Background(), tt.command)
			require.NoError(t, err)

			assert.Equal(t, tt.command, parsed.OriginalCommand)
			assert.Equal(t, tt.intents, parsed.Intents)
			assert.Equal(t, tt.services, parsed.Services)
			assert.Equal(t, tt.testTypes, parsed.TestTypes)
			assert.Equal(t, tt.params, parsed.Parameters)
			assert.InDelta(t, tt.confidence, parsed.Confidence, 1e-9)
		})
	}
}

func TestKeywordParser_WordBoundaries(t *testing.T) {
	p := NewKeywordParser(catalog.Default())

	parsed, err := p.Parse(context.Background(), "upload the productivity report; analyze failures")
	require.NoError(t, err)

	assert.Empty(t, parsed.Services, "substrings must not match service keywords")
	assert.NotContains(t, parsed.TestTypes, api.TestTypePerformance)
	assert.NotContains(t, parsed.TestTypes, api.TestTypeChaos, "plural failures is an analysis request, not chaos")
	assert.Equal(t, []api.IntentType{api.IntentAnalyzeFailures}, parsed.Intents)
}

func TestKeywordParser_CustomCatalogServices(t *testing.T) {
	cat, err := catalog.Parse([]byte("services:\n  - name: billing-service\n    port: 9000\n"))
	require.NoError(t, err)
	p := NewKeywordParser(cat)

	parsed, err := p.Parse(context.Background(), "run unit tests for billing-service and user-service")
	require.NoError(t, err)
	assert.Equal(t, []string{"billing-service"}, parsed.Services)
}

func TestKeywordParser_Errors(t *testing.T) {
	p := NewKeywordParser(catalog.Default())

	_, err := p.Parse(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyCommand)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Parse(ctx, "run unit tests")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractTimeout(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"timeout 10 minutes", "10m", true},
		{"timeout 45 secs", "45s", true},
		{"timeout of 1 hour", "60m", true},
		{"timeout 5 mins", "5m", true},
		{"timeout soon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := extractTimeout(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRetries(t *testing.T) {
	n, ok := extractRetries("with 4 retries")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	n, ok = extractRetries("retry 2 times")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = extractRetries("retry 0 times")
	assert.False(t, ok)

	_, ok = extractRetries("retry please")
	assert.False(t, ok)
}

func TestConfidence(t *testing.T) {
	assert.InDelta(t, 0.0, Confidence(api.ParsedCommand{}), 1e-9)
	assert.InDelta(t, 0.3, Confidence(api.ParsedCommand{Services: []string{"user-service"}}), 1e-9)
	assert.InDelta(t, 0.4, Confidence(api.ParsedCommand{
		Services:   []string{"user-service"},
		Parameters: map[string]interface{}{"parallel": true},
	}), 1e-9)
	assert.InDelta(t, 1.0, Confidence(api.ParsedCommand{
		Intents:    []api.IntentType{api.IntentRunTests},
		Services:   []string{"user-service"},
		TestTypes:  []api.TestType{api.TestTypeUnit},
		Parameters: map[string]interface{}{"parallel": true},
	}), 1e-9)
}
