package reminder

import "time"

// Timer is a pending single-shot callback. Stop reports whether the call
// prevented the callback from running. It is an alias so that clocks outside
// this package can satisfy Clock without importing it.
type Timer = interface{ Stop() bool }

// Clock abstracts time so schedules can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
