package domain

// TimeSlot is one of the fixed daily windows a consultant can be booked into
type TimeSlot int

const (
	SlotEarlyMorning   TimeSlot = 0 // 08:00-10:00
	SlotLateMorning    TimeSlot = 1 // 10:00-12:00
	SlotEarlyAfternoon TimeSlot = 2 // 13:00-15:00
	SlotLateAfternoon  TimeSlot = 3 // 15:00-17:00
)

// SlotWindow maps a slot id to its wall-clock interval
type SlotWindow struct {
	ID    TimeSlot
	Start string // HH:MM
	End   string // HH:MM
}

var slotCatalog = [...]SlotWindow{
	{ID: SlotEarlyMorning, Start: "08:00", End: "10:00"},
	{ID: SlotLateMorning, Start: "10:00", End: "12:00"},
	{ID: SlotEarlyAfternoon, Start: "13:00", End: "15:00"},
	{ID: SlotLateAfternoon, Start: "15:00", End: "17:00"},
}

// ListSlots returns the slot catalog ordered by id
func ListSlots() []SlotWindow {
	out := make([]SlotWindow, len(slotCatalog))
	copy(out, slotCatalog[:])
	return out
}

// SlotCount returns the number of slots per day
func SlotCount() int {
	return len(slotCatalog)
}

// IsValid returns true if the slot id exists in the catalog
func (s TimeSlot) IsValid() bool {
	return s >= 0 && int(s) < len(slotCatalog)
}

// Window returns the wall-clock interval of the slot
func (s TimeSlot) Window() (SlotWindow, bool) {
	if !s.IsValid() {
		return SlotWindow{}, false
	}
	return slotCatalog[s], true
}
