package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giantswarm/testctl/internal/api"
)

func TestChaos_Experiments(t *testing.T) {
	tests := []struct {
		name           string
		params         map[string]interface{}
		experimentType string
		key            string
		value          interface{}
	}{
		{"default is pod failure", nil, "POD_FAILURE", "gracePeriod", "10s"},
		{"pod failure target pods", map[string]interface{}{"chaosType": "pod_failure", "targetPods": "3"}, "POD_FAILURE", "podsTerminated", 3},
		{"network latency", map[string]interface{}{"chaosType": "network_latency"}, "NETWORK_LATENCY", "latencyMs", 1000},
		{"cpu stress", map[string]interface{}{"chaosType": "cpu_stress", "cpuLoad": 95}, "CPU_STRESS", "cpuLoad", "95%"},
		{"memory pressure", map[string]interface{}{"chaosType": "memory_pressure"}, "MEMORY_PRESSURE", "memoryLoad", "90%"},
		{"database connection", map[string]interface{}{"chaosType": "database_connection"}, "DATABASE_CONNECTION", "connectionPoolSize", 10},
		{"service dependency", map[string]interface{}{"chaosType": "service_dependency"}, "SERVICE_DEPENDENCY", "fallbackResponse", "CACHED_DATA"},
	}

	c := NewChaos(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Execute(context.Background(), "order-service", tt.params)

			assert.True(t, result.Success)
			assert.Equal(t, "Chaos test executed successfully", result.Message)
			assert.Equal(t, "order-service", result.Data["service"])
			assert.Equal(t, "medium", result.Data["intensity"])
			assert.Equal(t, "COMPLETED", result.Data["experimentStatus"])
			assert.Equal(t, tt.experimentType, result.Data["experimentType"])
			assert.Equal(t, tt.value, result.Data[tt.key])
		})
	}
}

func TestChaos_IntensityFromParser(t *testing.T) {
	result := NewChaos(Options{}).Execute(context.Background(), "order-service", map[string]interface{}{"intensity": "high"})
	assert.Equal(t, "high", result.Data["intensity"])
}

func TestPerformance_Profiles(t *testing.T) {
	tests := []struct {
		profile string
		key     string
		value   interface{}
	}{
		{"", "maxUsers", 200},
		{"load", "peakResponseTime", "1.1s"},
		{"stress", "breakingPoint", "280 users"},
		{"spike", "spikeUsers", 500},
		{"volume", "dataVolume", "10000 records"},
		{"endurance", "steadyLoad", "50 users"},
	}

	p := NewPerformance(Options{})
	for _, tt := range tests {
		t.Run("profile "+tt.profile, func(t *testing.T) {
			params := map[string]interface{}{"loadProfile": tt.profile}
			result := p.Execute(context.Background(), "product-service", params)

			assert.True(t, result.Success)
			assert.Equal(t, "Performance test executed successfully", result.Message)
			assert.Equal(t, 100, result.Data["concurrentUsers"])
			assert.Equal(t, "450 req/s", result.Data["throughput"])
			assert.Equal(t, tt.value, result.Data[tt.key])
		})
	}
}

func TestSecurity_Scans(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]interface{}
		scanType string
		key      string
		value    interface{}
	}{
		{"default", nil, "vulnerability_scan", "remediationEffort", "MEDIUM"},
		{"penetration test type", map[string]interface{}{"testType": string(api.TestTypePenetration)}, "penetration", "exploitsAttempted", 15},
		{"explicit scan wins", map[string]interface{}{"testType": string(api.TestTypePenetration), "scanType": "encryption"}, "encryption", "tlsVersion", "TLS 1.3"},
		{"authentication", map[string]interface{}{"scanType": "authentication"}, "authentication", "authMethod", "jwt"},
		{"authorization", map[string]interface{}{"scanType": "authorization"}, "authorization", "privilegeEscalationAttempts", 8},
		{"input validation", map[string]interface{}{"scanType": "input_validation"}, "input_validation", "payloadsTested", 25},
	}

	s := NewSecurity(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := s.Execute(context.Background(), "user-service", tt.params)

			assert.True(t, result.Success)
			assert.Equal(t, "Security test executed successfully", result.Message)
			assert.Equal(t, tt.scanType, result.Data["scanType"])
			assert.Equal(t, "B+", result.Data["securityScore"])
			assert.Equal(t, tt.value, result.Data[tt.key])
		})
	}
}

func TestVariants_Unknown(t *testing.T) {
	ctx := context.Background()

	result := NewChaos(Options{}).Execute(ctx, "order-service", map[string]interface{}{"chaosType": "meteor"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, `unknown chaos type "meteor"`)

	result = NewPerformance(Options{}).Execute(ctx, "order-service", map[string]interface{}{"loadProfile": "gentle"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, `unknown load profile "gentle"`)

	result = NewSecurity(Options{}).Execute(ctx, "order-service", map[string]interface{}{"scanType": "psychic"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, `unknown scan type "psychic"`)
}

func TestVariantNames(t *testing.T) {
	assert.Equal(t, []string{
		"cpu_stress", "database_connection", "memory_pressure",
		"network_latency", "pod_failure", "service_dependency",
	}, ChaosExperiments())
	assert.Equal(t, []string{"endurance", "load", "spike", "stress", "volume"}, LoadProfiles())
	assert.Len(t, SecurityScans(), 6)
}
