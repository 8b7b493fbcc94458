package soundio

import "errors"

var (
	// ErrInvalidArgument is returned for a malformed backend selection,
	// including the BackendNone sentinel passed to Connect.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBackendUnavailable is returned when the requested backend is not
	// compiled in or not usable on this system.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrConnectionRefused is returned when a backend rejects the connection.
	ErrConnectionRefused = errors.New("connection refused")

	// ErrNoBackendAvailable is returned by ConnectDefault when no backend connects.
	ErrNoBackendAvailable = errors.New("no backend available")

	// ErrNotConnected is returned by enumeration and pump calls outside the
	// states that allow them.
	ErrNotConnected = errors.New("not connected")

	// ErrIndexOutOfRange is returned for device indices outside [0, count).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrCancelled reports a wait interrupted by cancellation or disconnect.
	ErrCancelled = errors.New("cancelled")

	// ErrAlreadyConnected is returned by Connect on a context that is
	// connecting or connected.
	ErrAlreadyConnected = errors.New("already connected")
)
