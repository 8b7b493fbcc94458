package soundio

import "fmt"

// Format is a PCM or floating point sample encoding.
type Format int

// Sample formats.
const (
	FormatInvalid Format = iota
	FormatS8
	FormatU8
	FormatS16LE
	FormatS16BE
	FormatU16LE
	FormatU16BE
	FormatS24LE
	FormatS24BE
	FormatU24LE
	FormatU24BE
	FormatS32LE
	FormatS32BE
	FormatU32LE
	FormatU32BE
	FormatFloat32LE
	FormatFloat32BE
	FormatFloat64LE
	FormatFloat64BE
)

var formatInfo = [...]struct {
	name  string
	bytes int
}{
	FormatInvalid:   {"invalid", 0},
	FormatS8:        {"signed 8-bit", 1},
	FormatU8:        {"unsigned 8-bit", 1},
	FormatS16LE:     {"signed 16-bit LE", 2},
	FormatS16BE:     {"signed 16-bit BE", 2},
	FormatU16LE:     {"unsigned 16-bit LE", 2},
	FormatU16BE:     {"unsigned 16-bit BE", 2},
	FormatS24LE:     {"signed 24-bit LE", 4},
	FormatS24BE:     {"signed 24-bit BE", 4},
	FormatU24LE:     {"unsigned 24-bit LE", 4},
	FormatU24BE:     {"unsigned 24-bit BE", 4},
	FormatS32LE:     {"signed 32-bit LE", 4},
	FormatS32BE:     {"signed 32-bit BE", 4},
	FormatU32LE:     {"unsigned 32-bit LE", 4},
	FormatU32BE:     {"unsigned 32-bit BE", 4},
	FormatFloat32LE: {"float 32-bit LE", 4},
	FormatFloat32BE: {"float 32-bit BE", 4},
	FormatFloat64LE: {"float 64-bit LE", 8},
	FormatFloat64BE: {"float 64-bit BE", 8},
}

// String returns a human-readable format name.
func (f Format) String() string {
	if f < 0 || int(f) >= len(formatInfo) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatInfo[f].name
}

// BytesPerSample returns the storage size of one sample. 24-bit formats are
// stored in 4 bytes.
func (f Format) BytesPerSample() int {
	if f < 0 || int(f) >= len(formatInfo) {
		return 0
	}
	return formatInfo[f].bytes
}

// Valid reports whether f is a known format other than FormatInvalid.
func (f Format) Valid() bool {
	return f > FormatInvalid && int(f) < len(formatInfo)
}

// ParseFormat maps a name produced by Format.String back to the format.
func ParseFormat(name string) (Format, error) {
	for f := FormatInvalid + 1; int(f) < len(formatInfo); f++ {
		if formatInfo[f].name == name {
			return f, nil
		}
	}
	return FormatInvalid, fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, name)
}

// preferredFormats lists formats in the order a device's current format is
// chosen when the backend does not report one.
var preferredFormats = []Format{
	FormatFloat32LE,
	FormatS32LE,
	FormatS24LE,
	FormatS16LE,
	FormatFloat32BE,
	FormatS32BE,
	FormatS24BE,
	FormatS16BE,
	FormatFloat64LE,
	FormatFloat64BE,
	FormatU8,
	FormatS8,
}

// PreferredFormat picks the best format out of supported, or FormatInvalid
// when supported is empty.
func PreferredFormat(supported []Format) Format {
	for _, p := range preferredFormats {
		for _, f := range supported {
			if f == p {
				return f
			}
		}
	}
	if len(supported) > 0 {
		return supported[0]
	}
	return FormatInvalid
}
