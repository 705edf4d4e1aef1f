// Package wizard implements the six-step intake flow: per-step validation,
// step navigation with its progress indicator, and profile submission.
package wizard

import (
	"math"
	"strconv"

	"github.com/kalambet/careermentor/internal/profile"
)

const (
	FirstStep = 1
	LastStep  = 6
)

// Marker is one discrete progress marker.
type Marker struct {
	Number int
	Active bool
}

// Progress is the visual state of the progress indicator for a step.
type Progress struct {
	Step    int
	Percent float64
	Markers []Marker
}

// Width is the progress bar width as a CSS percentage, e.g. "33.33%".
func (p Progress) Width() string {
	return trimFloat(p.Percent) + "%"
}

// ProgressFor computes the indicator for step: step/6 of the bar and every
// marker up to and including step active.
func ProgressFor(step int) Progress {
	step = Clamp(step)
	markers := make([]Marker, LastStep)
	for i := range markers {
		markers[i] = Marker{Number: i + 1, Active: i < step}
	}
	return Progress{
		Step:    step,
		Percent: float64(step) / LastStep * 100,
		Markers: markers,
	}
}

// Clamp forces step into [FirstStep, LastStep].
func Clamp(step int) int {
	if step < FirstStep {
		return FirstStep
	}
	if step > LastStep {
		return LastStep
	}
	return step
}

// Advance validates current and returns the next step. On a failed check
// the current step is returned with the *ValidationError. The last step
// does not advance; it submits.
func Advance(v *Validator, current int, f profile.Fields) (int, error) {
	current = Clamp(current)
	if err := v.Check(current, f); err != nil {
		return current, err
	}
	if current == LastStep {
		return current, nil
	}
	return current + 1, nil
}

// Retreat moves back one step. Going back is never validated.
func Retreat(current int) int {
	return Clamp(current - 1)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
