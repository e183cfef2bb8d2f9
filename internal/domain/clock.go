package domain

import "time"

// Clock supplies the wall-clock time used for lock expiry decisions.
// Injected so that tests can control expiry without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func NewSystemClock() Clock {
	return systemClock{}
}
