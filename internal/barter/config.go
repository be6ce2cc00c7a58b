package barter

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the engine's business rules.
type Config struct {
	DailyQuota        int
	ApprovalCredit    int
	StartingCredits   int
	InactivityWindow  time.Duration
	SubmissionWindow  time.Duration
	PenaltyStep       int
	WeeklyPenaltyCap  int
	PenaltyResetAfter time.Duration
	UnlockDelay       time.Duration
	// DefaultRating is used when an approval carries no rating; 0 makes the rating mandatory.
	DefaultRating   int
	DefaultFeedback string
	// DefaultPassword is given to members created by an administrator.
	DefaultPassword string
	// Location decides where a calendar day starts for the daily quota.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{
		DailyQuota:        5,
		ApprovalCredit:    10,
		StartingCredits:   5,
		InactivityWindow:  48 * time.Hour,
		SubmissionWindow:  24 * time.Hour,
		PenaltyStep:       5,
		WeeklyPenaltyCap:  10,
		PenaltyResetAfter: 7 * 24 * time.Hour,
		UnlockDelay:       7 * 24 * time.Hour,
		DefaultRating:     5,
		DefaultFeedback:   "Please revise.",
		DefaultPassword:   "password123",
		Location:          time.Local,
	}
}

// ConfigFromEnv starts from DefaultConfig and applies BARTER_TIMEZONE,
// BARTER_DEFAULT_RATING and BARTER_DEFAULT_PASSWORD.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if tz := os.Getenv("BARTER_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("BARTER_TIMEZONE: %w", err)
		}
		cfg.Location = loc
	}
	if v := os.Getenv("BARTER_DEFAULT_RATING"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 5 {
			return cfg, fmt.Errorf("BARTER_DEFAULT_RATING: want 0..5, got %q", v)
		}
		cfg.DefaultRating = n
	}
	if v := os.Getenv("BARTER_DEFAULT_PASSWORD"); v != "" {
		cfg.DefaultPassword = v
	}
	return cfg, nil
}

// sameDay reports whether a and b fall on the same calendar date in loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
