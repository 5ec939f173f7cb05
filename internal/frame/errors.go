package frame

import "errors"

// Encode-time violations. All fail fast before any output bytes are
// produced; none are retryable. Errors are wrapped with the offending
// value, so callers match with errors.Is.
var (
	ErrInvalidFrameType        = errors.New("frame: invalid frame type")
	ErrPayloadTooLarge         = errors.New("frame: payload too large")
	ErrStreamIDTooLarge        = errors.New("frame: stream id exceeds 31 bits")
	ErrWindowIncrementTooLarge = errors.New("frame: window increment exceeds 31 bits")
	ErrInvalidFlag             = errors.New("frame: invalid flag for frame type")
	ErrUnknownSetting          = errors.New("frame: unknown settings parameter")
	ErrUnknownErrorCode        = errors.New("frame: unknown error code name")
	ErrInvalidPingPayloadSize  = errors.New("frame: ping payload must be 8 bytes")
	ErrInvalidSettingsStream   = errors.New("frame: settings stream id must be 0")
)
