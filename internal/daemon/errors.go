package daemon

import "strings"

// IsConnectionError checks if an error indicates the daemon is not reachable,
// classifying the error by its message text.
//
// Returns true for errors containing:
//   - "connection refused" - TCP/Unix socket connection failed
//   - "no such file or directory" - Unix socket file doesn't exist
//   - "broken pipe" - Connection closed mid-communication
//
// Returns false for nil or other unrelated errors.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such file or directory") || // Socket doesn't exist
		strings.Contains(errStr, "broken pipe")
}
