package domain

import "time"

// Audit actions recorded for booking and alert lifecycle events
const (
	AuditBookingCreated   = "booking.created"
	AuditBookingUpdated   = "booking.updated"
	AuditBookingCancelled = "booking.cancelled"
	AuditBookingDeleted   = "booking.deleted"

	AuditAlertCreated   = "alert.created"
	AuditAlertClaimed   = "alert.claimed"
	AuditAlertConfirmed = "alert.confirmed"
	AuditAlertRejected  = "alert.rejected"
	AuditAlertCancelled = "alert.cancelled"
)

// AuditEntry is an immutable history record of an action on an entity
type AuditEntry struct {
	ID          int64
	ExternalRef string // uuid, stable reference for exports
	Action      string
	EntityType  string
	EntityID    int64
	PerformedBy int64
	Title       string
	Description string
	Details     map[string]interface{}

	CreatedAt time.Time
}
