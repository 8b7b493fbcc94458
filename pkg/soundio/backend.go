package soundio

import "fmt"

// BackendKind identifies a backend implementation.
// The declaration order is the default connection priority.
type BackendKind int

// Backend kinds. BackendNone means "let the system choose".
const (
	BackendNone BackendKind = iota
	BackendJack
	BackendPulseAudio
	BackendALSA
	BackendCoreAudio
	BackendWASAPI
	BackendDummy
)

var backendNames = [...]string{
	BackendNone:       "None",
	BackendJack:       "Jack",
	BackendPulseAudio: "PulseAudio",
	BackendALSA:       "Alsa",
	BackendCoreAudio:  "CoreAudio",
	BackendWASAPI:     "Wasapi",
	BackendDummy:      "Dummy",
}

// String returns the backend name used by ParseBackendKind.
func (k BackendKind) String() string {
	if k < 0 || int(k) >= len(backendNames) {
		return fmt.Sprintf("BackendKind(%d)", int(k))
	}
	return backendNames[k]
}

// Valid reports whether k is a known kind other than BackendNone.
func (k BackendKind) Valid() bool {
	return k > BackendNone && int(k) < len(backendNames)
}

// BackendKinds returns every known kind except BackendNone, in priority order.
func BackendKinds() []BackendKind {
	kinds := make([]BackendKind, 0, len(backendNames)-1)
	for k := BackendNone + 1; int(k) < len(backendNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseBackendKind maps a backend name to its kind. Matching is exact and
// case-sensitive; "None" yields BackendNone.
func ParseBackendKind(name string) (BackendKind, error) {
	for k, n := range backendNames {
		if n == name {
			return BackendKind(k), nil
		}
	}
	return BackendNone, fmt.Errorf("%w: unknown backend %q", ErrInvalidArgument, name)
}

// ConnectionState is the lifecycle state of a Context.
type ConnectionState int32

// Connection states.
const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("ConnectionState(%d)", int32(s))
	}
}
