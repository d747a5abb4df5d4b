package domain

// Capability represents a single authorized action.
// Authorization is a declarative table keyed by role, consulted by the
// service layer instead of scattered boolean role checks.
type Capability string

const (
	CapBookingCreate   Capability = "booking:create"
	CapBookingUpdate   Capability = "booking:update"
	CapBookingCancel   Capability = "booking:cancel"
	CapBookingDelete   Capability = "booking:delete"
	CapBookingOverride Capability = "booking:override_conflicts"

	CapAlertCreate  Capability = "alert:create"
	CapAlertClaim   Capability = "alert:claim"
	CapAlertConfirm Capability = "alert:confirm"
	CapAlertReject  Capability = "alert:reject"
	CapAlertCancel  Capability = "alert:cancel"

	CapLeaveRequest Capability = "leave:request"
	CapLeaveReview  Capability = "leave:review"

	CapStaffAvailabilityView Capability = "staff:availability_view"
)

// roleCapabilities is the capability table. Ownership checks (assigned
// staff/client/manager on a booking) are enforced separately by services.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleSuperuser: {
		CapBookingCreate:         true,
		CapBookingUpdate:         true,
		CapBookingCancel:         true,
		CapBookingDelete:         true,
		CapBookingOverride:       true,
		CapAlertCreate:           true,
		CapAlertConfirm:          true,
		CapAlertReject:           true,
		CapAlertCancel:           true,
		CapLeaveReview:           true,
		CapStaffAvailabilityView: true,
	},
	RoleManager: {
		CapBookingCreate:         true,
		CapBookingUpdate:         true,
		CapBookingCancel:         true,
		CapBookingDelete:         true,
		CapBookingOverride:       true,
		CapAlertCreate:           true,
		CapAlertConfirm:          true,
		CapAlertReject:           true,
		CapAlertCancel:           true,
		CapLeaveReview:           true,
		CapStaffAvailabilityView: true,
	},
	RoleStaff: {
		CapBookingUpdate: true,
		CapBookingCancel: true,
		CapAlertClaim:    true,
		CapLeaveRequest:  true,
	},
	RoleClient: {
		CapBookingUpdate: true,
		CapBookingCancel: true,
	},
}

// RoleCan reports whether the role is granted the capability
func RoleCan(role Role, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return caps[cap]
}
