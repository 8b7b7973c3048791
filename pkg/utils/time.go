package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/hubtav/tavlist/pkg/logutils"
)

const DefaultTimeZone = "America/Sao_Paulo"

var (
	locMu    sync.RWMutex
	location *time.Location
)

// SetTimeZone sets the location used for every user-facing date.
func SetTimeZone(name string) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logutils.Log.Errorf("Failed to load location %s: %v", name, err)
		loc = time.FixedZone("BRT", -3*60*60)
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
}

// Location returns the configured location, loading the default on first use.
func Location() *time.Location {
	locMu.RLock()
	loc := location
	locMu.RUnlock()
	if loc != nil {
		return loc
	}
	SetTimeZone(DefaultTimeZone)
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

func GetLocalTime() time.Time {
	return time.Now().In(Location())
}

// FormatDate renders dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format("02/01/2006")
}

// FormatDateTime renders "dd/mm/yyyy, HH:MM".
func FormatDateTime(t time.Time) string {
	return t.In(Location()).Format("02/01/2006, 15:04")
}

// FormatClock renders HH:MM:SS.
func FormatClock(t time.Time) string {
	return t.In(Location()).Format("15:04:05")
}

// FormatTime renders HH:MM.
func FormatTime(t time.Time) string {
	return t.In(Location()).Format("15:04")
}

// ParseDate accepts a calendar date (yyyy-mm-dd, midnight in the configured
// location) or a full RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, Location()); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// ParseOptionalDate maps nil or blank to nil.
func ParseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
