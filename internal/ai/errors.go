package ai

import "errors"

// ErrUnavailable marks a provider that is not configured or not reachable.
// Callers recover by answering with empty output, never by failing hard.
var ErrUnavailable = errors.New("ai provider unavailable")
