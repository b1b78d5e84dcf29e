package system

import (
	"testing"
	"time"
)

func TestNowIsUTC(t *testing.T) {
	t.Parallel()

	now := New().Now()
	if now.Location() != time.UTC {
		t.Errorf("Now() location = %v, want UTC", now.Location())
	}
	if time.Since(now) > time.Minute {
		t.Errorf("Now() = %v, not close to wall clock", now)
	}
}
