package dto

import "time"

// LastReading is the most recent qualifying reading of the current day.
type LastReading struct {
	RecordedAt time.Time `json:"recorded_at"`
	UserName   string    `json:"user_name"`
}

// DailyStatusResponse is what the reminder automation polls. Key names
// are frozen: the Apple Shortcut on the client side parses these exact
// fields.
type DailyStatusResponse struct {
	HasReadingToday bool         `json:"hasReadingToday"`
	LastReading     *LastReading `json:"lastReading"`
	CheckedAt       time.Time    `json:"checked_at"`
}
