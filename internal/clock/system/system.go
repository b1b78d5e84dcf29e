// Package system provides a real clock implementation.
package system

import "time"

// Clock implements pipeline.Clock using time.Now in UTC.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time. The change-cutoff computation
// depends on UTC because LeadDocket interprets query dates as UTC.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
