package domain

import "errors"

// ErrAlreadyRunning is returned when Start is called while a run is in progress.
var ErrAlreadyRunning = errors.New("simulation already running")

// ErrRunAborted is returned by Start when a Reset discarded the run in progress.
var ErrRunAborted = errors.New("run aborted by reset")

// ErrEmptyDistribution is returned when a distribution has no process or no token.
var ErrEmptyDistribution = errors.New("empty distribution")

// ErrUnknownColor is returned when a distribution holds a color outside the palette.
var ErrUnknownColor = errors.New("unknown color")

// ErrConservationViolated signals an internal defect: tokens appeared or vanished.
var ErrConservationViolated = errors.New("token conservation violated")
