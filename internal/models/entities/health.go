package entities

import "time"

// DependencyStatus reports one backing store on the healthcheck.
type DependencyStatus struct {
	Up      bool   `json:"up"`
	Details string `json:"details,omitempty"`
}

// HealthCheckResponse is the /healthcheck body. Status is "ok" only while
// every probed dependency is up; redis is probed only when attached.
type HealthCheckResponse struct {
	Status       string                      `json:"status"`
	Version      string                      `json:"version"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
	UpSince      time.Time                   `json:"upSince"`
	Uptime       string                      `json:"uptime"`
}
