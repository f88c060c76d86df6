package models

import "time"

// Link health status constants
const (
	HealthUnknown   = "unknown"
	HealthHealthy   = "healthy"
	HealthUnhealthy = "unhealthy"
)

// LinkStatus is the last health check of a URL the bot sends visitors to.
type LinkStatus struct {
	URL       string     `json:"url"`
	Sources   []string   `json:"sources"` // entry IDs or configured link names
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// IsHealthy returns true if the link has a healthy status.
func (l LinkStatus) IsHealthy() bool {
	return l.Status == HealthHealthy
}

// IsUnhealthy returns true if the link has an unhealthy status.
func (l LinkStatus) IsUnhealthy() bool {
	return l.Status == HealthUnhealthy
}
