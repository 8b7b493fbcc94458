//go:build cgo && !noaudio

package miniaudio

import (
	"fmt"
	"runtime"

	"github.com/gen2brain/malgo"

	"github.com/smazurov/soundnode/pkg/soundio"
)

var defaultDriver driver = malgoDriver{}

var malgoBackends = map[soundio.BackendKind]malgo.Backend{
	soundio.BackendJack:       malgo.BackendJack,
	soundio.BackendPulseAudio: malgo.BackendPulseaudio,
	soundio.BackendCoreAudio:  malgo.BackendCoreaudio,
	soundio.BackendWASAPI:     malgo.BackendWasapi,
}

func platformKinds() []soundio.BackendKind {
	switch runtime.GOOS {
	case "darwin":
		return []soundio.BackendKind{soundio.BackendJack, soundio.BackendCoreAudio}
	case "windows":
		return []soundio.BackendKind{soundio.BackendJack, soundio.BackendWASAPI}
	case "android", "ios", "js":
		return nil
	default:
		return []soundio.BackendKind{soundio.BackendJack, soundio.BackendPulseAudio}
	}
}

type malgoDriver struct{}

func (malgoDriver) initContext(kind soundio.BackendKind) (*malgo.AllocatedContext, error) {
	backend, ok := malgoBackends[kind]
	if !ok {
		return nil, fmt.Errorf("%s is not a miniaudio backend", kind)
	}
	return malgo.InitContext([]malgo.Backend{backend}, malgo.ContextConfig{}, nil)
}

func (d malgoDriver) available(kind soundio.BackendKind) bool {
	ctx, err := d.initContext(kind)
	if err != nil {
		return false
	}
	_ = ctx.Uninit()
	ctx.Free()
	return true
}

func (d malgoDriver) open(kind soundio.BackendKind) (session, error) {
	ctx, err := d.initContext(kind)
	if err != nil {
		return nil, err
	}
	return &malgoSession{ctx: ctx, exclusive: kind == soundio.BackendWASAPI}, nil
}

type malgoSession struct {
	ctx *malgo.AllocatedContext
	// exclusive lists each device a second time in exclusive mode, as raw.
	exclusive bool
}

func (s *malgoSession) enumerate() (inputs, outputs []probe, err error) {
	if inputs, err = s.list(malgo.Capture); err != nil {
		return nil, nil, err
	}
	if outputs, err = s.list(malgo.Playback); err != nil {
		return nil, nil, err
	}
	return inputs, outputs, nil
}

func (s *malgoSession) list(typ malgo.DeviceType) ([]probe, error) {
	devices, err := s.ctx.Devices(typ)
	if err != nil {
		return nil, err
	}

	res := make([]probe, 0, len(devices))
	seen := make(map[string]struct{}, len(devices))
	for _, dev := range devices {
		p := s.probe(typ, dev, malgo.Shared)

		// Some backends report the same device twice.
		id := string(p.id)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, p)

		if s.exclusive {
			if raw := s.probe(typ, dev, malgo.Exclusive); raw.err == nil {
				raw.raw = true
				res = append(res, raw)
			}
		}
	}
	return res, nil
}

func (s *malgoSession) probe(typ malgo.DeviceType, dev malgo.DeviceInfo, mode malgo.ShareMode) probe {
	p := probe{
		id:        append([]byte(nil), dev.ID[:]...),
		name:      dev.Name(),
		isDefault: dev.IsDefault == 1,
	}

	full, err := s.ctx.DeviceInfo(typ, dev.ID, mode)
	if err != nil {
		p.err = err
		return p
	}
	p.name = full.Name()
	p.isDefault = full.IsDefault == 1
	for i := 0; i < int(full.FormatCount) && i < len(full.Formats); i++ {
		f := full.Formats[i]
		p.formats = append(p.formats, nativeFormat{
			format:   sampleFormat(f.Format),
			channels: int(f.Channels),
			rate:     int(f.SampleRate),
		})
	}
	return p
}

func (s *malgoSession) close() error {
	if err := s.ctx.Uninit(); err != nil {
		return err
	}
	s.ctx.Free()
	return nil
}
