package adsapi

import (
	"errors"
	"fmt"
	"strings"
)

// FetchError is an upstream advertising API failure. AuthRelated
// distinguishes invalid/expired tokens from transient faults; the batch
// runner invalidates the credential only for auth failures.
type FetchError struct {
	Message     string
	AuthRelated bool
}

func (e *FetchError) Error() string {
	if e.AuthRelated {
		return fmt.Sprintf("ads api auth error: %s", e.Message)
	}
	return fmt.Sprintf("ads api error: %s", e.Message)
}

// IsAuthError reports whether err (anywhere in its chain) is an
// auth-related upstream failure.
func IsAuthError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.AuthRelated
}

// Message fragments the API uses for invalid or expired tokens.
var authErrorFragments = []string{
	"session has expired",
	"session expired",
	"error validating access token",
	"invalid oauth access token",
}

// isAuthMessage pattern-matches an upstream error message for token failure.
func isAuthMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, frag := range authErrorFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
