package models

import (
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/soundnode/pkg/soundio"
)

// DeviceAim filters devices by direction.
type DeviceAim string

const (
	AimInput  DeviceAim = "input"
	AimOutput DeviceAim = "output"
)

// Schema implements huma.SchemaProvider so the enum shows up in OpenAPI.
func (DeviceAim) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        huma.TypeString,
		Enum:        []any{string(AimInput), string(AimOutput)},
		Description: "Device direction",
	}
}

type SampleRateRange struct {
	Min int `json:"min" example:"44100" doc:"Lowest supported rate in Hz"`
	Max int `json:"max" example:"48000" doc:"Highest supported rate in Hz"`
}

type LayoutData struct {
	Name     string   `json:"name,omitempty" example:"Stereo" doc:"Builtin layout name, empty for custom layouts"`
	Channels []string `json:"channels" example:"[\"Front Left\",\"Front Right\"]" doc:"Channel positions in order"`
}

type DeviceData struct {
	ID                string            `json:"id" example:"hw:PCH,0" doc:"Identifier stable across snapshots"`
	Name              string            `json:"name" example:"HDA Intel PCH: ALC892 Analog" doc:"Human-readable name"`
	Aim               DeviceAim         `json:"aim" doc:"Device direction"`
	Raw               bool              `json:"raw" doc:"Opened directly, bypassing any sound server"`
	Default           bool              `json:"default" doc:"Default device for its direction"`
	CurrentLayout     LayoutData        `json:"current_layout" doc:"Layout in use"`
	Layouts           []LayoutData      `json:"layouts" doc:"Supported channel layouts"`
	CurrentFormat     string            `json:"current_format" example:"signed 16-bit LE" doc:"Sample format in use"`
	Formats           []string          `json:"formats" doc:"Supported sample formats"`
	SampleRates       []SampleRateRange `json:"sample_rates" doc:"Supported sample rate ranges"`
	SampleRateCurrent int               `json:"sample_rate_current,omitempty" example:"48000" doc:"Sample rate in use, 0 if unknown"`
	LatencyCurrent    float64           `json:"latency_current" example:"0.02" doc:"Current software latency in seconds"`
	LatencyMin        float64           `json:"latency_min" example:"0.001" doc:"Minimum software latency in seconds"`
	LatencyMax        float64           `json:"latency_max" example:"2" doc:"Maximum software latency in seconds"`
	ProbeError        string            `json:"probe_error,omitempty" doc:"Why capabilities could not be queried"`
}

type DeviceListData struct {
	Backend       string       `json:"backend" example:"Alsa" doc:"Backend the snapshot came from"`
	CapturedAt    time.Time    `json:"captured_at" doc:"When the snapshot was taken"`
	Inputs        []DeviceData `json:"inputs" doc:"Input devices"`
	Outputs       []DeviceData `json:"outputs" doc:"Output devices"`
	DefaultInput  int          `json:"default_input" example:"0" doc:"Index of the default input, -1 if none"`
	DefaultOutput int          `json:"default_output" example:"0" doc:"Index of the default output, -1 if none"`
}

type DeviceListResponse struct {
	Body DeviceListData
}

type DeviceResponse struct {
	Body DeviceData
}

// FromSnapshot converts a snapshot into its API representation.
func FromSnapshot(snap *soundio.Snapshot) DeviceListData {
	return DeviceListData{
		Backend:       snap.Backend().String(),
		CapturedAt:    snap.CapturedAt(),
		Inputs:        fromDevices(snap.Inputs()),
		Outputs:       fromDevices(snap.Outputs()),
		DefaultInput:  snap.DefaultInputIndex(),
		DefaultOutput: snap.DefaultOutputIndex(),
	}
}

func fromDevices(list []*soundio.Device) []DeviceData {
	res := make([]DeviceData, len(list))
	for i, d := range list {
		res[i] = FromDevice(d)
	}
	return res
}

// FromDevice converts one device.
func FromDevice(d *soundio.Device) DeviceData {
	data := DeviceData{
		ID:                d.ID,
		Name:              d.Name,
		Aim:               DeviceAim(d.Aim.String()),
		Raw:               d.IsRaw,
		Default:           d.IsDefault,
		CurrentLayout:     fromLayout(d.CurrentLayout),
		Layouts:           make([]LayoutData, len(d.Layouts)),
		CurrentFormat:     d.CurrentFormat.String(),
		Formats:           make([]string, len(d.Formats)),
		SampleRates:       make([]SampleRateRange, len(d.SampleRates)),
		SampleRateCurrent: d.SampleRateCurrent,
		LatencyCurrent:    d.SoftwareLatencyCurrent.Seconds(),
		LatencyMin:        d.SoftwareLatencyMin.Seconds(),
		LatencyMax:        d.SoftwareLatencyMax.Seconds(),
	}
	for i, l := range d.Layouts {
		data.Layouts[i] = fromLayout(l)
	}
	for i, f := range d.Formats {
		data.Formats[i] = f.String()
	}
	for i, r := range d.SampleRates {
		data.SampleRates[i] = SampleRateRange{Min: r.Min, Max: r.Max}
	}
	if d.ProbeError != nil {
		data.ProbeError = d.ProbeError.Error()
	}
	return data
}

func fromLayout(l soundio.ChannelLayout) LayoutData {
	channels := make([]string, len(l.Channels))
	for i, c := range l.Channels {
		channels[i] = c.String()
	}
	return LayoutData{Name: l.Name, Channels: channels}
}
