package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckPending indicates a component that has not finished loading.
	CheckPending CheckResult = "pending"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db   DBPinger
	dict DictionaryState
}

// New creates a Service. Either dependency can be nil.
func New(db DBPinger, dict DictionaryState) *Service {
	return &Service{db: db, dict: dict}
}

// Check runs health checks against all components. The dictionary is loaded
// lazily, so an unloaded dictionary is pending rather than failing.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	if s.dict != nil {
		switch state, err := s.dict.State(); {
		case err != nil:
			checks["dictionary"] = CheckError
		case state == "ready":
			checks["dictionary"] = CheckOK
		default:
			checks["dictionary"] = CheckPending
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
