package executor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/pkg/logging"
)

// Health states reported by the probe.
const (
	HealthHealthy   = "HEALTHY"
	HealthUnhealthy = "UNHEALTHY"
	HealthDegraded  = "DEGRADED"
)

const (
	defaultHealthBaseURL = "http://localhost"
	defaultHealthPath    = "/actuator/health"
	defaultHealthTimeout = 2 * time.Second
)

// ServiceHealth is the probe result for one service.
type ServiceHealth struct {
	ServiceName    string    `json:"serviceName" yaml:"serviceName"`
	Status         string    `json:"status" yaml:"status"`
	URL            string    `json:"url" yaml:"url"`
	StatusCode     int       `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	ResponseTimeMs int64     `json:"responseTimeMs" yaml:"responseTimeMs"`
	Availability   float64   `json:"availability" yaml:"availability"`
	Issues         []string  `json:"issues,omitempty" yaml:"issues,omitempty"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp"`
}

// SystemHealth aggregates the probe results of every catalog service.
type SystemHealth struct {
	OverallStatus string                   `json:"overallStatus" yaml:"overallStatus"`
	OverallScore  float64                  `json:"overallScore" yaml:"overallScore"`
	Services      map[string]ServiceHealth `json:"services" yaml:"services"`
	Issues        []string                 `json:"issues,omitempty" yaml:"issues,omitempty"`
	Timestamp     time.Time                `json:"timestamp" yaml:"timestamp"`
}

// HealthConfig configures the HTTP probe. A service is probed at
// BaseURL:<port><Path>.
type HealthConfig struct {
	BaseURL string
	Path    string
	Timeout time.Duration
	Client  *http.Client
}

// Health probes service health endpoints over HTTP.
type Health struct {
	catalog *catalog.Catalog
	cfg     HealthConfig
	client  *http.Client
}

// NewHealth creates a health executor for the services in cat.
func NewHealth(cat *catalog.Catalog, cfg HealthConfig) *Health {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHealthBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHealthTimeout
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Health{catalog: cat, cfg: cfg, client: client}
}

// Execute checks system health and reports on service. Only services outside
// the catalog produce a failed result; an unhealthy service is reported in
// the result data.
func (h *Health) Execute(ctx context.Context, service string, _ map[string]interface{}) api.ExecutionResult {
	logging.Info("Executor", "Performing health check for service: %s", service)

	if _, ok := h.catalog.Service(service); !ok {
		return api.NewFailureResult(api.NewServiceNotFoundError(service).Error())
	}

	system := h.CheckAll(ctx)
	serviceHealth := system.Services[service]
	data := map[string]interface{}{
		"serviceHealth": serviceHealth,
		"systemHealth":  system,
	}

	if serviceHealth.Status != HealthHealthy {
		logging.Warn("Executor", "Service %s is %s", service, serviceHealth.Status)
	}
	return api.NewSuccessResult("Health check completed", data)
}

// CheckAll probes every catalog service concurrently.
func (h *Health) CheckAll(ctx context.Context) SystemHealth {
	services := h.catalog.Services()
	results := make([]ServiceHealth, len(services))

	var g errgroup.Group
	for i, svc := range services {
		g.Go(func() error {
			results[i] = h.probe(ctx, svc)
			return nil
		})
	}
	_ = g.Wait()

	system := SystemHealth{
		OverallStatus: HealthHealthy,
		Services:      make(map[string]ServiceHealth, len(results)),
		Timestamp:     time.Now(),
	}
	total := 0.0
	for _, r := range results {
		system.Services[r.ServiceName] = r
		total += r.Availability
		if r.Status != HealthHealthy {
			system.Issues = append(system.Issues, r.ServiceName+": "+r.Status)
		}
	}
	if len(system.Issues) > 0 {
		system.OverallStatus = HealthDegraded
	}
	if len(results) > 0 {
		system.OverallScore = total / float64(len(results))
	}

	logging.Debug("HealthProbe", "System health %s (score %.1f)", system.OverallStatus, system.OverallScore)
	return system
}

func (h *Health) probe(ctx context.Context, svc catalog.ServiceContext) ServiceHealth {
	health := ServiceHealth{
		ServiceName: svc.Name,
		Status:      HealthUnhealthy,
		URL:         h.url(svc),
		Timestamp:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, health.URL, nil)
	if err != nil {
		health.Issues = []string{err.Error()}
		return health
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	health.ResponseTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		logging.Debug("HealthProbe", "Probe of %s failed: %v", health.URL, err)
		health.Issues = []string{err.Error()}
		return health
	}
	defer resp.Body.Close()

	health.StatusCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		health.Issues = []string{fmt.Sprintf("unexpected status %d", resp.StatusCode)}
		return health
	}

	health.Status = HealthHealthy
	health.Availability = 100
	return health
}

func (h *Health) url(svc catalog.ServiceContext) string {
	path := h.cfg.Path
	if path == "" && len(svc.HealthCheckEndpoints) > 0 {
		path = svc.HealthCheckEndpoints[0]
	}
	if path == "" {
		path = defaultHealthPath
	}
	return fmt.Sprintf("%s:%d%s", strings.TrimRight(h.cfg.BaseURL, "/"), svc.Port, path)
}
