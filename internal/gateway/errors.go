// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted reports that every candidate backend was tried and failed.
// The last backend's error is wrapped alongside it.
var ErrExhausted = errors.New("all backends exhausted")

// ErrMissingCredential reports that the selected backend family has no API
// key configured. This is a configuration error, never retried.
var ErrMissingCredential = errors.New("missing API credential")

// AllRateLimitedError reports that every candidate in the chain failed on the
// rate-limited path. It names each exhausted candidate so callers can log or
// display the full chain.
type AllRateLimitedError struct {
	Backends []string
}

// Error implements the error interface.
func (e *AllRateLimitedError) Error() string {
	return fmt.Sprintf("all backends rate-limited: %s", strings.Join(e.Backends, ", "))
}

// Is makes the error match ErrExhausted, since an all-rate-limited chain is
// also an exhausted chain.
func (e *AllRateLimitedError) Is(target error) bool {
	return target == ErrExhausted
}
