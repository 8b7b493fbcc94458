package miniaudio

import (
	"bytes"
	"encoding/hex"
	"sort"
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
)

// sampleFormat mirrors miniaudio's ma_format.
type sampleFormat int

const (
	formatUnknown sampleFormat = iota
	formatU8
	formatS16
	formatS24
	formatS32
	formatF32
)

var formatMap = map[sampleFormat]soundio.Format{
	formatU8:  soundio.FormatU8,
	formatS16: soundio.FormatS16LE,
	formatS24: soundio.FormatS24LE,
	formatS32: soundio.FormatS32LE,
	formatF32: soundio.FormatFloat32LE,
}

// Limits miniaudio applies when a device reports no native formats.
const (
	minSampleRate = 8000
	maxSampleRate = 384000
	maxChannels   = 8
	preferredRate = 48000
)

// miniaudio does not expose per-device buffer limits; every device reports
// these software latency bounds.
const (
	latencyCurrent = 30 * time.Millisecond
	latencyMin     = 10 * time.Millisecond
	latencyMax     = 4 * time.Second
)

// nativeFormat is one entry of a device's native data formats. Zero fields
// mean "any".
type nativeFormat struct {
	format   sampleFormat
	channels int
	rate     int
}

// probe is what one enumeration pass learned about a device.
type probe struct {
	id        []byte
	name      string
	isDefault bool
	raw       bool
	formats   []nativeFormat
	err       error
}

// deviceID renders an opaque backend device ID. Printable IDs (PulseAudio
// sink names, CoreAudio UIDs) are kept as text. Anything else is hex with
// trailing zero UTF-16 units trimmed, keeping at least the first 32-bit word
// so index 0 still has an ID.
func deviceID(raw []byte) string {
	text := bytes.TrimRight(raw, "\x00")
	if len(text) > 0 && printable(text) {
		return string(text)
	}

	end := len(raw)
	for end >= 2 && raw[end-1] == 0 && raw[end-2] == 0 {
		end -= 2
	}
	if end < idWord {
		end = min(idWord, len(raw))
	}
	return hex.EncodeToString(raw[:end])
}

// idWord is the size of the integer IDs Jack and AAudio store.
const idWord = 4

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

func toDevice(p probe) *soundio.Device {
	dev := &soundio.Device{
		ID:                     deviceID(p.id),
		Name:                   p.name,
		IsRaw:                  p.raw,
		IsDefault:              p.isDefault && !p.raw,
		SoftwareLatencyCurrent: latencyCurrent,
		SoftwareLatencyMin:     latencyMin,
		SoftwareLatencyMax:     latencyMax,
	}
	if p.err != nil {
		dev.ProbeError = p.err
		return dev
	}

	formats := map[soundio.Format]struct{}{}
	minCh, maxCh := 0, 0
	minRate, maxRate := 0, 0
	anyFormat, anyChannels, anyRate := len(p.formats) == 0, len(p.formats) == 0, len(p.formats) == 0

	for _, nf := range p.formats {
		if f, ok := formatMap[nf.format]; ok {
			formats[f] = struct{}{}
		} else {
			anyFormat = true
		}
		if nf.channels == 0 {
			anyChannels = true
		} else {
			if minCh == 0 || nf.channels < minCh {
				minCh = nf.channels
			}
			maxCh = max(maxCh, nf.channels)
		}
		if nf.rate == 0 {
			anyRate = true
		} else {
			if minRate == 0 || nf.rate < minRate {
				minRate = nf.rate
			}
			maxRate = max(maxRate, nf.rate)
		}
	}

	if anyFormat {
		for _, f := range formatMap {
			formats[f] = struct{}{}
		}
	}
	for f := range formats {
		dev.Formats = append(dev.Formats, f)
	}
	sort.Slice(dev.Formats, func(i, j int) bool { return dev.Formats[i] < dev.Formats[j] })
	dev.CurrentFormat = soundio.PreferredFormat(dev.Formats)

	if anyChannels {
		minCh, maxCh = 1, maxChannels
	}
	dev.Layouts = soundio.BuiltinLayoutsFor(minCh, maxCh)
	if l, ok := soundio.DefaultLayout(min(max(2, minCh), maxCh)); ok {
		dev.CurrentLayout = l
	} else if len(dev.Layouts) > 0 {
		dev.CurrentLayout = dev.Layouts[0]
	}

	if anyRate {
		minRate, maxRate = minSampleRate, maxSampleRate
	}
	dev.SampleRates = []soundio.SampleRateRange{{Min: minRate, Max: maxRate}}
	dev.SampleRateCurrent = dev.NearestSampleRate(preferredRate)

	return dev
}
