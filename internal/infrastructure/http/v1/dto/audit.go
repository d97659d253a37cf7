package dto

import (
	"encoding/json"
	"time"

	"purchasing/internal/infrastructure/storage/postgres"
)

// AuditEntryResponse represents one audit trail entry in API responses.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	UserID    string          `json:"userId,omitempty"`
	UserName  string          `json:"userName,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromAuditEntry converts a stored audit entry to response DTO.
func FromAuditEntry(e postgres.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID.String(),
		Action:    e.Action,
		UserID:    e.UserID,
		UserName:  e.UserName,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}
