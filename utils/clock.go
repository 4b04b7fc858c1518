// Copyright 2025 Northern.tech AS
//
//    All Rights Reserved


package utils

import "time"

// Clock interface
type Clock interface {
	Now() time.Time
}

// RealClock provides a real clock
type RealClock struct{}

// Now returns the current date and time in UTC
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}
