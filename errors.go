package main

import (
	"errors"
	"net"
	"strings"
)

var (
	ErrMissingCookie   = errors.New("missing QQ_COOKIE")
	ErrMissingTarget   = errors.New("missing TARGET_UIN")
	ErrNoAccountID     = errors.New("cannot infer own uin from cookie (uin/p_uin) and QQ_UIN is not set")
	ErrNoSessionSecret = errors.New("cannot extract p_skey/skey from cookie")
)

// =============================================================================
// Configuration Errors
// =============================================================================

// ConfigError marks a precondition failure detected before any network call.
// The run stops immediately and exits with status 1.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError wraps an error as a configuration error.
func NewConfigError(err error) error {
	return &ConfigError{Err: err}
}

// IsConfigError checks if the error is a configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	return errors.As(err, &ce)
}

// =============================================================================
// Transport Errors
// =============================================================================

// timeoutErrorPatterns contains error message substrings that indicate the
// attempt ran out of time rather than failed to connect.
var timeoutErrorPatterns = []string{
	"i/o timeout",
	"context deadline exceeded",
	"TLS handshake timeout",
	"Client.Timeout exceeded",
	"timeout awaiting response headers",
}

// transportFailureKind labels a failed round trip as "timeout" or "network".
// Both end the attempt the same way; the label only feeds the logs.
func transportFailureKind(err error) string {
	if err == nil {
		return ""
	}
	if isNetworkTimeout(err) || containsTimeoutPattern(err.Error()) {
		return "timeout"
	}
	return "network"
}

func isNetworkTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func containsTimeoutPattern(errStr string) bool {
	for _, pattern := range timeoutErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
