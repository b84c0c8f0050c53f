package models

import "time"

// AuditLog records a mutating API action for operational traceability.
type AuditLog struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone,omitempty"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entityId,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
