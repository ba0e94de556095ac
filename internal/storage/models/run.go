package models

import (
	"time"
)

// Run represents one recorded invocation
type Run struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	JobName   string    `json:"job_name"`
	Mode      string    `json:"mode"` // launch or monitor
	Desired   string    `json:"desired"`
	Token     string    `json:"token,omitempty"`
	BuildID   string    `json:"build_id,omitempty"`
	State     string    `json:"state"`
	Success   bool      `json:"success"`
	Params    string    `json:"params"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}
