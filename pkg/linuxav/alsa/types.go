//go:build linux

package alsa

import (
	"path/filepath"
	"strconv"
)

// SoundDir holds the ALSA character devices.
const SoundDir = "/dev/snd"

// Stream is the direction of a PCM.
type Stream int32

// Stream directions, matching SNDRV_PCM_STREAM_*.
const (
	StreamPlayback Stream = 0
	StreamCapture  Stream = 1
)

func (s Stream) String() string {
	if s == StreamCapture {
		return "capture"
	}
	return "playback"
}

func (s Stream) suffix() string {
	if s == StreamCapture {
		return "c"
	}
	return "p"
}

// Device is one PCM device of a sound card in one stream direction.
type Device struct {
	Card         int
	CardID       string
	CardName     string
	CardLongName string
	Number       int
	Name         string
	Stream       Stream
	HWName       string // "hw:0,0"

	MinRate        int
	MaxRate        int
	SupportedRates []int // CommonSampleRates within [MinRate, MaxRate]
	MinChannels    int
	MaxChannels    int
	Formats        []int
	MinBufferSize  int // frames
	MaxBufferSize  int
	MinPeriodSize  int
	MaxPeriodSize  int

	// ProbeErr is set when the PCM could not be opened or refined.
	ProbeErr error
}

// PCMPath returns the character device of the PCM.
func (d Device) PCMPath() string {
	return PCMPath(d.Card, d.Number, d.Stream)
}

// FormatNames returns the ALSA names of the supported formats.
func (d Device) FormatNames() []string {
	names := make([]string, len(d.Formats))
	for i, f := range d.Formats {
		names[i] = FormatName(f)
	}
	return names
}

// HWName formats the raw device name for card and device numbers.
func HWName(card, device int) string {
	return "hw:" + strconv.Itoa(card) + "," + strconv.Itoa(device)
}

// ControlPath returns the control device of a card.
func ControlPath(card int) string {
	return filepath.Join(SoundDir, "controlC"+strconv.Itoa(card))
}

// PCMPath returns the character device of a PCM.
func PCMPath(card, device int, stream Stream) string {
	return filepath.Join(SoundDir, "pcmC"+strconv.Itoa(card)+"D"+strconv.Itoa(device)+stream.suffix())
}

// PCM format codes, matching SNDRV_PCM_FORMAT_*.
const (
	FormatS8        = 0
	FormatU8        = 1
	FormatS16LE     = 2
	FormatS16BE     = 3
	FormatU16LE     = 4
	FormatU16BE     = 5
	FormatS24LE     = 6
	FormatS24BE     = 7
	FormatU24LE     = 8
	FormatU24BE     = 9
	FormatS32LE     = 10
	FormatS32BE     = 11
	FormatU32LE     = 12
	FormatU32BE     = 13
	FormatFloatLE   = 14
	FormatFloatBE   = 15
	FormatFloat64LE = 16
	FormatFloat64BE = 17
	FormatMuLaw     = 20
	FormatALaw      = 21
)

var formatNames = map[int]string{
	FormatS8:        "S8",
	FormatU8:        "U8",
	FormatS16LE:     "S16_LE",
	FormatS16BE:     "S16_BE",
	FormatU16LE:     "U16_LE",
	FormatU16BE:     "U16_BE",
	FormatS24LE:     "S24_LE",
	FormatS24BE:     "S24_BE",
	FormatU24LE:     "U24_LE",
	FormatU24BE:     "U24_BE",
	FormatS32LE:     "S32_LE",
	FormatS32BE:     "S32_BE",
	FormatU32LE:     "U32_LE",
	FormatU32BE:     "U32_BE",
	FormatFloatLE:   "FLOAT_LE",
	FormatFloatBE:   "FLOAT_BE",
	FormatFloat64LE: "FLOAT64_LE",
	FormatFloat64BE: "FLOAT64_BE",
	FormatMuLaw:     "MU_LAW",
	FormatALaw:      "A_LAW",
}

// FormatName returns the ALSA name of a PCM format code.
func FormatName(format int) string {
	if name, ok := formatNames[format]; ok {
		return name
	}
	return "UNKNOWN"
}

// CommonSampleRates are the discrete rates reported in SupportedRates.
var CommonSampleRates = []int{
	8000, 11025, 16000, 22050, 32000, 44100, 48000, 88200, 96000, 176400, 192000, 352800, 384000,
}

// LinearFormats are the format codes tested against a device's format mask.
var LinearFormats = []int{
	FormatS8, FormatU8,
	FormatS16LE, FormatS16BE, FormatU16LE, FormatU16BE,
	FormatS24LE, FormatS24BE, FormatU24LE, FormatU24BE,
	FormatS32LE, FormatS32BE, FormatU32LE, FormatU32BE,
	FormatFloatLE, FormatFloatBE, FormatFloat64LE, FormatFloat64BE,
}
