package domain

// Business validation constants
const (
	MaxNotesLength       = 500
	MaxMeetingLinkLength = 2048
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
