package soundio

import (
	"fmt"
	"strings"
)

// ChannelID identifies the position of one channel.
type ChannelID int

// Channel positions.
const (
	ChannelInvalid ChannelID = iota
	ChannelFrontLeft
	ChannelFrontRight
	ChannelFrontCenter
	ChannelLFE
	ChannelBackLeft
	ChannelBackRight
	ChannelFrontLeftCenter
	ChannelFrontRightCenter
	ChannelBackCenter
	ChannelSideLeft
	ChannelSideRight
	ChannelTopCenter
	ChannelTopFrontLeft
	ChannelTopFrontCenter
	ChannelTopFrontRight
	ChannelTopBackLeft
	ChannelTopBackCenter
	ChannelTopBackRight
	ChannelFrontLeftWide
	ChannelFrontRightWide
	ChannelAux
)

var channelNames = [...]string{
	ChannelInvalid:          "(Invalid Channel)",
	ChannelFrontLeft:        "Front Left",
	ChannelFrontRight:       "Front Right",
	ChannelFrontCenter:      "Front Center",
	ChannelLFE:              "LFE",
	ChannelBackLeft:         "Back Left",
	ChannelBackRight:        "Back Right",
	ChannelFrontLeftCenter:  "Front Left Center",
	ChannelFrontRightCenter: "Front Right Center",
	ChannelBackCenter:       "Back Center",
	ChannelSideLeft:         "Side Left",
	ChannelSideRight:        "Side Right",
	ChannelTopCenter:        "Top Center",
	ChannelTopFrontLeft:     "Top Front Left",
	ChannelTopFrontCenter:   "Top Front Center",
	ChannelTopFrontRight:    "Top Front Right",
	ChannelTopBackLeft:      "Top Back Left",
	ChannelTopBackCenter:    "Top Back Center",
	ChannelTopBackRight:     "Top Back Right",
	ChannelFrontLeftWide:    "Front Left Wide",
	ChannelFrontRightWide:   "Front Right Wide",
	ChannelAux:              "Aux",
}

func (c ChannelID) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("ChannelID(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannelID maps a channel name (case-insensitive) to its ID.
func ParseChannelID(name string) (ChannelID, error) {
	for c := ChannelInvalid + 1; int(c) < len(channelNames); c++ {
		if strings.EqualFold(channelNames[c], name) {
			return c, nil
		}
	}
	return ChannelInvalid, fmt.Errorf("%w: unknown channel %q", ErrInvalidArgument, name)
}

// ChannelLayout is an ordered set of channel positions with an optional name.
//
// The zero value is an absent layout. A layout with channels and an empty
// name is a custom, unnamed layout.
type ChannelLayout struct {
	Name     string
	Channels []ChannelID
}

// IsZero reports whether the layout is unset.
func (l ChannelLayout) IsZero() bool {
	return l.Name == "" && len(l.Channels) == 0
}

// IsCustom reports whether the layout has channels but no name.
func (l ChannelLayout) IsCustom() bool {
	return l.Name == "" && len(l.Channels) > 0
}

// ChannelCount returns the number of channels.
func (l ChannelLayout) ChannelCount() int {
	return len(l.Channels)
}

// Equal compares channel positions in order; names are ignored.
func (l ChannelLayout) Equal(other ChannelLayout) bool {
	if len(l.Channels) != len(other.Channels) {
		return false
	}
	for i, c := range l.Channels {
		if other.Channels[i] != c {
			return false
		}
	}
	return true
}

// FindChannel returns the index of id in the layout, or -1.
func (l ChannelLayout) FindChannel(id ChannelID) int {
	for i, c := range l.Channels {
		if c == id {
			return i
		}
	}
	return -1
}

// DetectBuiltin fills in the name of a builtin layout with the same channels.
// It reports whether a match was found.
func (l *ChannelLayout) DetectBuiltin() bool {
	for _, b := range builtinLayouts {
		if l.Equal(b) {
			l.Name = b.Name
			return true
		}
	}
	l.Name = ""
	return false
}

func (l ChannelLayout) String() string {
	if l.Name != "" {
		return l.Name
	}
	names := make([]string, len(l.Channels))
	for i, c := range l.Channels {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

func (l ChannelLayout) clone() ChannelLayout {
	if l.Channels == nil {
		return ChannelLayout{Name: l.Name}
	}
	return ChannelLayout{Name: l.Name, Channels: append([]ChannelID(nil), l.Channels...)}
}

const (
	fl  = ChannelFrontLeft
	fr  = ChannelFrontRight
	fc  = ChannelFrontCenter
	lfe = ChannelLFE
	bl  = ChannelBackLeft
	br  = ChannelBackRight
	flc = ChannelFrontLeftCenter
	frc = ChannelFrontRightCenter
	bc  = ChannelBackCenter
	sl  = ChannelSideLeft
	sr  = ChannelSideRight
)

var builtinLayouts = []ChannelLayout{
	{"Mono", []ChannelID{fc}},
	{"Stereo", []ChannelID{fl, fr}},
	{"2.1", []ChannelID{fl, fr, lfe}},
	{"3.0", []ChannelID{fl, fr, fc}},
	{"3.0 (back)", []ChannelID{fl, fr, bc}},
	{"3.1", []ChannelID{fl, fr, fc, lfe}},
	{"4.0", []ChannelID{fl, fr, fc, bc}},
	{"Quad", []ChannelID{fl, fr, bl, br}},
	{"Quad (side)", []ChannelID{fl, fr, sl, sr}},
	{"4.1", []ChannelID{fl, fr, fc, bc, lfe}},
	{"5.0 (back)", []ChannelID{fl, fr, fc, bl, br}},
	{"5.0 (side)", []ChannelID{fl, fr, fc, sl, sr}},
	{"5.1", []ChannelID{fl, fr, fc, sl, sr, lfe}},
	{"5.1 (back)", []ChannelID{fl, fr, fc, bl, br, lfe}},
	{"6.0 (side)", []ChannelID{fl, fr, fc, sl, sr, bc}},
	{"6.0 (front)", []ChannelID{fl, fr, sl, sr, flc, frc}},
	{"Hexagonal", []ChannelID{fl, fr, fc, bl, br, bc}},
	{"6.1", []ChannelID{fl, fr, fc, sl, sr, bc, lfe}},
	{"6.1 (back)", []ChannelID{fl, fr, fc, bl, br, bc, lfe}},
	{"6.1 (front)", []ChannelID{fl, fr, sl, sr, flc, frc, lfe}},
	{"7.0", []ChannelID{fl, fr, fc, sl, sr, bl, br}},
	{"7.0 (front)", []ChannelID{fl, fr, fc, sl, sr, flc, frc}},
	{"7.1", []ChannelID{fl, fr, fc, sl, sr, bl, br, lfe}},
	{"7.1 (wide)", []ChannelID{fl, fr, fc, sl, sr, flc, frc, lfe}},
	{"7.1 (wide) (back)", []ChannelID{fl, fr, fc, bl, br, flc, frc, lfe}},
	{"Octagonal", []ChannelID{fl, fr, fc, sl, sr, bl, br, bc}},
}

// BuiltinLayouts returns copies of the named layouts.
func BuiltinLayouts() []ChannelLayout {
	out := make([]ChannelLayout, len(builtinLayouts))
	for i, l := range builtinLayouts {
		out[i] = l.clone()
	}
	return out
}

// BuiltinLayoutsFor returns the builtin layouts whose channel count lies in
// [minChannels, maxChannels].
func BuiltinLayoutsFor(minChannels, maxChannels int) []ChannelLayout {
	var out []ChannelLayout
	for _, l := range builtinLayouts {
		if n := len(l.Channels); n >= minChannels && n <= maxChannels {
			out = append(out, l.clone())
		}
	}
	return out
}

var defaultLayoutNames = map[int]string{
	1: "Mono",
	2: "Stereo",
	3: "2.1",
	4: "Quad",
	5: "5.0 (back)",
	6: "5.1",
	7: "6.1",
	8: "7.1",
}

// DefaultLayout returns the conventional layout for a channel count.
func DefaultLayout(channelCount int) (ChannelLayout, bool) {
	name, ok := defaultLayoutNames[channelCount]
	if !ok {
		return ChannelLayout{}, false
	}
	for _, l := range builtinLayouts {
		if l.Name == name {
			return l.clone(), true
		}
	}
	return ChannelLayout{}, false
}

// BestMatchingLayout returns the first layout in preferred that is also in
// available.
func BestMatchingLayout(preferred, available []ChannelLayout) (ChannelLayout, bool) {
	for _, p := range preferred {
		for _, a := range available {
			if p.Equal(a) {
				return p.clone(), true
			}
		}
	}
	return ChannelLayout{}, false
}
