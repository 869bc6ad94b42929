package domain

import "time"

// Occupancy maps a consultant's dates (YYYY-MM-DD) to the set of occupied slots.
// It is a projection of non-cancelled appointments and is never persisted.
type Occupancy map[string]map[TimeSlot]struct{}

// IntegrityLogger receives data-integrity warnings
type IntegrityLogger interface {
	Warn(format string, v ...interface{})
}

// BuildOccupancy groups occupied slots by date.
// Cancelled appointments are skipped, unknown slot ids are skipped and reported to log.
func BuildOccupancy(appointments []*Appointment, log IntegrityLogger) Occupancy {
	occ := make(Occupancy)
	for _, a := range appointments {
		if a == nil || !a.Status.OccupiesSlot() {
			continue
		}
		if !a.Slot.IsValid() {
			if log != nil {
				log.Warn("BuildOccupancy: data integrity: appointment id=%d references unknown slot=%d, ignored",
					a.ID, int(a.Slot))
			}
			continue
		}
		occ.Mark(a.AppointmentDate, a.Slot)
	}
	return occ
}

// Mark records slot as occupied on date
func (o Occupancy) Mark(date time.Time, slot TimeSlot) {
	key := DateKey(date)
	slots, ok := o[key]
	if !ok {
		slots = make(map[TimeSlot]struct{}, SlotCount())
		o[key] = slots
	}
	slots[slot] = struct{}{}
}

// IsSlotBookable returns true if slot is in the catalog and not occupied on date
func (o Occupancy) IsSlotBookable(date time.Time, slot TimeSlot) bool {
	if !slot.IsValid() {
		return false
	}
	_, taken := o[DateKey(date)][slot]
	return !taken
}

// IsDateBookable returns true if at least one catalog slot is free on date
func (o Occupancy) IsDateBookable(date time.Time) bool {
	for _, w := range slotCatalog {
		if o.IsSlotBookable(date, w.ID) {
			return true
		}
	}
	return false
}

// FreeSlots returns free slots on date ordered by id
func (o Occupancy) FreeSlots(date time.Time) []TimeSlot {
	free := make([]TimeSlot, 0, SlotCount())
	for _, w := range slotCatalog {
		if o.IsSlotBookable(date, w.ID) {
			free = append(free, w.ID)
		}
	}
	return free
}
