package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates the service cannot answer queries yet.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int
}

// Service coordinates health checks.
type Service struct {
	index IndexReadiness
}

// New creates a Service. index can be nil (reported as not ready).
func New(index IndexReadiness) *Service {
	return &Service{index: index}
}

// Check reports index readiness. The core has no external dependencies to ping.
func (s *Service) Check(_ context.Context) Report {
	checks := make(map[string]CheckResult, 1)

	docs := 0
	if s.index != nil && s.index.IsReady() {
		checks["index"] = CheckOK
		docs = s.index.DocumentCount()
	} else {
		checks["index"] = CheckError
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Unhealthy
			break
		}
	}

	return Report{Status: status, Checks: checks, Documents: docs}
}
