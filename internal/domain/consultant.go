package domain

import "time"

// Consultant is fetched from the consultant directory.
// BookedShifts is derived from live appointment data per request.
type Consultant struct {
	ID           int64
	DisplayName  string
	Specialty    string
	BookedShifts Occupancy
}

// IsDateBookable returns true if at least one slot is free on date
func (c *Consultant) IsDateBookable(date time.Time) bool {
	return c.BookedShifts.IsDateBookable(date)
}

// IsSlotBookable returns true if slot is free on date
func (c *Consultant) IsSlotBookable(date time.Time, slot TimeSlot) bool {
	return c.BookedShifts.IsSlotBookable(date, slot)
}
