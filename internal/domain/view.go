package domain

import "time"

// ViewID identifies a page of the app
type ViewID string

const (
	ViewHome         ViewID = "home"
	ViewAccessChoice ViewID = "access-choice"
	ViewBlindFlow    ViewID = "blind-flow"
	ViewDeafFlow     ViewID = "deaf-flow"
	ViewLogin        ViewID = "login"
	ViewSignup       ViewID = "signup"
	ViewSettings     ViewID = "settings"
	ViewHistory      ViewID = "history"
)

// DefaultReminderInterval is how often the login reminder fires
const DefaultReminderInterval = 3 * time.Minute

// ReminderSchedule is a snapshot of the reminder state
type ReminderSchedule struct {
	Interval    time.Duration
	Active      bool
	LastFiredAt *time.Time
}
