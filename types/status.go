// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Status indicates the outcome of reverse-resolving an address.
type Status int

// The resolution states of an address.
const (
	Unresolved Status = iota // address not (yet) resolved.
	Failed                   // address could not be resolved; a fallback name is used.
	Resolved                 // address successfully resolved into a DNS name.
)

// String returns the clear-text representation of a Status value.
func (s Status) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Failed:
		return "failed"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("Status(%d)", s)
}

// MarshalText renders a Status in its clear-text form, so that reports in
// JSON and YAML are readable.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the clear-text form of a Status.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unresolved":
		*s = Unresolved
	case "failed":
		*s = Failed
	case "resolved":
		*s = Resolved
	default:
		return fmt.Errorf("invalid resolution status %q", string(text))
	}
	return nil
}
