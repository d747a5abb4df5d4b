package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCan(t *testing.T) {
	tests := []struct {
		name string
		role Role
		cap  Capability
		want bool
	}{
		{"manager creates bookings", RoleManager, CapBookingCreate, true},
		{"manager reviews leave", RoleManager, CapLeaveReview, true},
		{"superuser overrides conflicts", RoleSuperuser, CapBookingOverride, true},
		{"staff claims alerts", RoleStaff, CapAlertClaim, true},
		{"staff requests leave", RoleStaff, CapLeaveRequest, true},
		{"staff cannot create bookings", RoleStaff, CapBookingCreate, false},
		{"staff cannot confirm alerts", RoleStaff, CapAlertConfirm, false},
		{"client cannot claim alerts", RoleClient, CapAlertClaim, false},
		{"client cancels own bookings", RoleClient, CapBookingCancel, true},
		{"unknown role has nothing", Role("ghost"), CapBookingCreate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleCan(tt.role, tt.cap))
		})
	}
}
