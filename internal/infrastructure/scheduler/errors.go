package scheduler

import "errors"

// ErrInvalidConfig is returned when a job definition is incomplete
var ErrInvalidConfig = errors.New("invalid scheduler configuration")
