package health

import (
	"time"
)

// Service reports process liveness for load balancer checks.
type Service struct {
	name    string
	started time.Time
	now     func() time.Time
}

// NewService constructs a new health service.
func NewService(name string) *Service {
	return &Service{name: name, started: time.Now(), now: time.Now}
}

// Status is the JSON body served at /health.
type Status struct {
	OK            bool   `json:"ok"`
	Service       string `json:"service"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Status returns a simple health payload.
func (s *Service) Status() Status {
	return Status{
		OK:            true,
		Service:       s.name,
		UptimeSeconds: int64(s.now().Sub(s.started) / time.Second),
	}
}
