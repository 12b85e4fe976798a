// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"time"
)

// spinner is yet another blindingly simple spinner; just enough to get the job
// done, no bells, no frills. Its phase advances with the passing of time, so it
// doesn't need any background ticker.
type spinner struct {
	phases   []string
	interval time.Duration
	started  time.Time
}

// newSpinner returns a new spinner advancing its phase every interval.
func newSpinner(interval time.Duration) *spinner {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r)+" ")
	}
	return &spinner{
		phases:   phases,
		interval: interval,
		started:  time.Now(),
	}
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	phase := int(time.Since(s.started)/s.interval) % len(s.phases)
	return s.phases[phase]
}
