//go:build linux

package alsa

import (
	"strconv"
	"time"

	alsadev "github.com/smazurov/soundnode/pkg/linuxav/alsa"
	"github.com/smazurov/soundnode/pkg/soundio"
)

var formatMap = map[int]soundio.Format{
	alsadev.FormatS8:        soundio.FormatS8,
	alsadev.FormatU8:        soundio.FormatU8,
	alsadev.FormatS16LE:     soundio.FormatS16LE,
	alsadev.FormatS16BE:     soundio.FormatS16BE,
	alsadev.FormatU16LE:     soundio.FormatU16LE,
	alsadev.FormatU16BE:     soundio.FormatU16BE,
	alsadev.FormatS24LE:     soundio.FormatS24LE,
	alsadev.FormatS24BE:     soundio.FormatS24BE,
	alsadev.FormatU24LE:     soundio.FormatU24LE,
	alsadev.FormatU24BE:     soundio.FormatU24BE,
	alsadev.FormatS32LE:     soundio.FormatS32LE,
	alsadev.FormatS32BE:     soundio.FormatS32BE,
	alsadev.FormatU32LE:     soundio.FormatU32LE,
	alsadev.FormatU32BE:     soundio.FormatU32BE,
	alsadev.FormatFloatLE:   soundio.FormatFloat32LE,
	alsadev.FormatFloatBE:   soundio.FormatFloat32BE,
	alsadev.FormatFloat64LE: soundio.FormatFloat64LE,
	alsadev.FormatFloat64BE: soundio.FormatFloat64BE,
}

const preferredRate = 48000

// deviceID names a PCM by card ID rather than card number so it survives
// renumbering when other cards come and go.
func deviceID(d alsadev.Device) string {
	card := d.CardID
	if card == "" {
		return d.HWName
	}
	return "hw:CARD=" + card + ",DEV=" + strconv.Itoa(d.Number)
}

// convert splits raw PCMs into soundio input and output lists. The first PCM
// of each direction is marked default, matching ALSA's "default" PCM on a
// system without asound.conf.
func convert(devices []alsadev.Device) (inputs, outputs []*soundio.Device) {
	for _, d := range devices {
		dev := toDevice(d)
		if d.Stream == alsadev.StreamCapture {
			dev.Aim = soundio.AimInput
			dev.IsDefault = len(inputs) == 0
			inputs = append(inputs, dev)
		} else {
			dev.Aim = soundio.AimOutput
			dev.IsDefault = len(outputs) == 0
			outputs = append(outputs, dev)
		}
	}
	return inputs, outputs
}

func toDevice(d alsadev.Device) *soundio.Device {
	name := d.Name
	if d.CardName != "" {
		name = d.CardName + ", " + d.Name
	}
	dev := &soundio.Device{
		ID:    deviceID(d),
		Name:  name,
		IsRaw: true,
	}
	if d.ProbeErr != nil {
		dev.ProbeError = d.ProbeErr
		return dev
	}

	dev.Layouts = soundio.BuiltinLayoutsFor(d.MinChannels, d.MaxChannels)
	if len(dev.Layouts) == 0 && d.MaxChannels > 0 {
		custom := soundio.ChannelLayout{Channels: make([]soundio.ChannelID, d.MaxChannels)}
		for i := range custom.Channels {
			custom.Channels[i] = soundio.ChannelAux
		}
		dev.Layouts = []soundio.ChannelLayout{custom}
	}
	if l, ok := soundio.DefaultLayout(min(max(2, d.MinChannels), d.MaxChannels)); ok {
		dev.CurrentLayout = l
	} else if len(dev.Layouts) > 0 {
		dev.CurrentLayout = dev.Layouts[0]
	}

	for _, f := range d.Formats {
		if sf, ok := formatMap[f]; ok {
			dev.Formats = append(dev.Formats, sf)
		}
	}
	dev.CurrentFormat = soundio.PreferredFormat(dev.Formats)

	if d.MaxRate > 0 {
		dev.SampleRates = []soundio.SampleRateRange{{Min: d.MinRate, Max: d.MaxRate}}
		dev.SampleRateCurrent = dev.NearestSampleRate(preferredRate)
	}

	if d.MaxRate > 0 && d.MinRate > 0 {
		dev.SoftwareLatencyMin = frames(d.MinBufferSize, d.MaxRate)
		dev.SoftwareLatencyMax = frames(d.MaxBufferSize, d.MinRate)
		dev.SoftwareLatencyCurrent = dev.SoftwareLatencyMin
	}
	return dev
}

func frames(n, rate int) time.Duration {
	return time.Duration(n) * time.Second / time.Duration(rate)
}
