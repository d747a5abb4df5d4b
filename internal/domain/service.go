package domain

import "time"

// Service represents a bookable childcare service
type Service struct {
	ID                int64
	Name              string
	DailyBookingLimit int // 0 = no limit
	Active            bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDailyLimit returns true if the service has a per-day booking cap
func (s *Service) HasDailyLimit() bool {
	return s.DailyBookingLimit > 0
}
