package soundio

import "time"

// DeviceAim tells whether a device records or plays.
type DeviceAim int

// Device aims.
const (
	AimInput DeviceAim = iota
	AimOutput
)

func (a DeviceAim) String() string {
	if a == AimOutput {
		return "output"
	}
	return "input"
}

// SampleRateRange is a closed interval of supported sample rates.
// Min == Max describes a single fixed rate.
type SampleRateRange struct {
	Min int
	Max int
}

// Contains reports whether rate lies within the range.
func (r SampleRateRange) Contains(rate int) bool {
	return rate >= r.Min && rate <= r.Max
}

// Device describes one input or output device as seen in a snapshot.
// Devices held by a Snapshot are never modified.
type Device struct {
	// ID is stable across snapshots for the same physical device.
	ID   string
	Name string
	Aim  DeviceAim

	// IsRaw marks devices opened directly, bypassing any sound server or
	// mixer (exclusive mode).
	IsRaw     bool
	IsDefault bool

	CurrentLayout ChannelLayout
	Layouts       []ChannelLayout

	CurrentFormat Format
	Formats       []Format

	SampleRates       []SampleRateRange
	SampleRateCurrent int

	SoftwareLatencyCurrent time.Duration
	SoftwareLatencyMin     time.Duration
	SoftwareLatencyMax     time.Duration

	// ProbeError is set when the backend could not query the device's
	// capabilities; the capability fields are then incomplete.
	ProbeError error
}

// SupportsFormat reports whether f is among the device's formats.
func (d *Device) SupportsFormat(f Format) bool {
	for _, x := range d.Formats {
		if x == f {
			return true
		}
	}
	return false
}

// SupportsLayout reports whether a layout with the same channels is supported.
func (d *Device) SupportsLayout(l ChannelLayout) bool {
	for _, x := range d.Layouts {
		if x.Equal(l) {
			return true
		}
	}
	return false
}

// SupportsSampleRate reports whether rate falls inside any supported range.
func (d *Device) SupportsSampleRate(rate int) bool {
	for _, r := range d.SampleRates {
		if r.Contains(rate) {
			return true
		}
	}
	return false
}

// NearestSampleRate returns the supported rate closest to rate, preferring
// higher rates. It returns 0 when the device reports no sample rates.
func (d *Device) NearestSampleRate(rate int) int {
	above := 0
	for _, r := range d.SampleRates {
		if r.Contains(rate) {
			return rate
		}
		if r.Min > rate && (above == 0 || r.Min < above) {
			above = r.Min
		}
	}
	if above != 0 {
		return above
	}
	below := 0
	for _, r := range d.SampleRates {
		if r.Max > below {
			below = r.Max
		}
	}
	return below
}

func (d *Device) clone() *Device {
	c := *d
	c.CurrentLayout = d.CurrentLayout.clone()
	if d.Layouts != nil {
		c.Layouts = make([]ChannelLayout, len(d.Layouts))
		for i, l := range d.Layouts {
			c.Layouts[i] = l.clone()
		}
	}
	if d.Formats != nil {
		c.Formats = append([]Format(nil), d.Formats...)
	}
	if d.SampleRates != nil {
		c.SampleRates = append([]SampleRateRange(nil), d.SampleRates...)
	}
	return &c
}
