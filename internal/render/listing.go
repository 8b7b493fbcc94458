// Package render writes device snapshots as human-readable text.
package render

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/smazurov/soundnode/pkg/soundio"
)

const rule = "--------------------"

// WriteListing writes every input device, then every output device.
func WriteListing(w io.Writer, snap *soundio.Snapshot) error {
	var b strings.Builder
	b.WriteString("Inputs\n")
	for _, d := range snap.Inputs() {
		writeDevice(&b, d)
	}
	b.WriteString("Outputs\n")
	for _, d := range snap.Outputs() {
		writeDevice(&b, d)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDevice writes a single device block.
func WriteDevice(w io.Writer, d *soundio.Device) error {
	var b strings.Builder
	writeDevice(&b, d)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDevice(b *strings.Builder, d *soundio.Device) {
	b.WriteString("\n" + rule + "\n")
	b.WriteString(d.Name)
	if d.IsRaw {
		b.WriteString(" (raw)")
	}
	if d.IsDefault {
		b.WriteString(" (default)")
	}
	b.WriteString("\n" + rule + "\n")
	b.WriteString("id: " + d.ID + "\n")

	if d.ProbeError != nil {
		b.WriteString("Probe error: " + d.ProbeError.Error() + "\n")
		return
	}

	b.WriteString(strconv.Itoa(d.CurrentLayout.ChannelCount()) + " channels (current)\n")

	b.WriteString("Channel layouts:\n")
	for _, l := range d.Layouts {
		b.WriteString("  " + layoutLine(l) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Sample Rates:\n")
	for _, r := range d.SampleRates {
		b.WriteString("  " + strconv.Itoa(r.Min) + " - " + strconv.Itoa(r.Max) + "\n")
	}
	if d.SampleRateCurrent > 0 {
		b.WriteString("Current: " + strconv.Itoa(d.SampleRateCurrent) + "\n")
	}
	b.WriteString("\n")

	names := make([]string, len(d.Formats))
	for i, f := range d.Formats {
		names[i] = f.String()
	}
	b.WriteString("Formats: " + strings.Join(names, ", ") + "\n")
	b.WriteString("Current: " + d.CurrentFormat.String() + "\n")
	b.WriteString("\n")

	b.WriteString("Latency: " + seconds(d.SoftwareLatencyCurrent) +
		" (" + seconds(d.SoftwareLatencyMin) + " - " + seconds(d.SoftwareLatencyMax) + ")\n")
}

// layoutLine names a layout and spells out its channels.
func layoutLine(l soundio.ChannelLayout) string {
	channels := make([]string, len(l.Channels))
	for i, c := range l.Channels {
		channels[i] = c.String()
	}
	if l.Name == "" {
		return strings.Join(channels, ", ")
	}
	return l.Name + ": " + strings.Join(channels, ", ")
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
