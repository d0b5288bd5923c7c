package runtime

import (
	"fmt"
	"time"

	"github.com/aretw0/colorsort/pkg/domain"
)

// Limits holds the heuristic tuning values of the driver and the oracle.
type Limits struct {
	// CheckInterval is the number of dispatched messages between checkpoints.
	CheckInterval int `json:"check_interval" yaml:"check_interval" mapstructure:"check_interval"`

	// StagnationChecks is the number of consecutive checkpoints without
	// potential improvement tolerated before forcing completion.
	StagnationChecks int `json:"stagnation_checks" yaml:"stagnation_checks" mapstructure:"stagnation_checks"`

	// MaxIterations is the hard ceiling of dispatched messages.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`

	TwoColorThreshold float64 `json:"two_color_threshold" yaml:"two_color_threshold" mapstructure:"two_color_threshold"`
	DefaultThreshold  float64 `json:"default_threshold" yaml:"default_threshold" mapstructure:"default_threshold"`

	// StepDelay pauses the loop between iterations for external observers.
	StepDelay time.Duration `json:"step_delay" yaml:"step_delay" mapstructure:"step_delay"`
}

// DefaultLimits returns the stock tuning values.
func DefaultLimits() Limits {
	return Limits{
		CheckInterval:     domain.DefaultCheckInterval,
		StagnationChecks:  domain.DefaultStagnationChecks,
		MaxIterations:     domain.DefaultMaxIterations,
		TwoColorThreshold: domain.DefaultTwoColorThreshold,
		DefaultThreshold:  domain.DefaultThreshold,
		StepDelay:         domain.DefaultStepDelay,
	}
}

// WithDefaults fills zero fields with the stock values.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	if l.CheckInterval <= 0 {
		l.CheckInterval = d.CheckInterval
	}
	if l.StagnationChecks <= 0 {
		l.StagnationChecks = d.StagnationChecks
	}
	if l.MaxIterations <= 0 {
		l.MaxIterations = d.MaxIterations
	}
	if l.TwoColorThreshold <= 0 {
		l.TwoColorThreshold = d.TwoColorThreshold
	}
	if l.DefaultThreshold <= 0 {
		l.DefaultThreshold = d.DefaultThreshold
	}
	return l
}

// Validate rejects nonsensical limits.
func (l Limits) Validate() error {
	if l.CheckInterval < 0 || l.StagnationChecks < 0 || l.MaxIterations < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	for _, th := range []float64{l.TwoColorThreshold, l.DefaultThreshold} {
		if th < 0 || th > 1 {
			return fmt.Errorf("threshold %v outside [0, 1]", th)
		}
	}
	if l.StepDelay < 0 {
		return fmt.Errorf("step delay must not be negative")
	}
	return nil
}
