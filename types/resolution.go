// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// Resolution is the outcome of reverse-resolving a single IP address: the
// address itself, the DNS name found for it, and the [Status] of the lookup.
//
// Failed lookups still carry a name: the address in its numeric form. This
// mirrors what getnameinfo(3) hands out when it cannot find a name.
type Resolution struct {
	Address string `json:"address" yaml:"address"` // IP address literal
	Name    string `json:"name" yaml:"name"`       // DNS name without the trailing dot, or fallback
	Status  Status `json:"status" yaml:"status"`
	err     error  // optional lookup error for failed resolutions
}

// ResolvedAs returns a successful Resolution of addr into name.
func ResolvedAs(addr, name string) Resolution {
	return Resolution{
		Address: addr,
		Name:    name,
		Status:  Resolved,
	}
}

// FailedWith returns a failed Resolution for addr, using the numeric address as
// the fallback name and keeping the lookup error for later inspection.
func FailedWith(addr string, err error) Resolution {
	return Resolution{
		Address: addr,
		Name:    addr,
		Status:  Failed,
		err:     err,
	}
}

// Err returns the reason a lookup failed, if any.
func (r Resolution) Err() error { return r.err }

// IsResolved returns true if a name was successfully found for the address.
func (r Resolution) IsResolved() bool { return r.Status == Resolved }
