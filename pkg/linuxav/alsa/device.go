//go:build linux

package alsa

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"unsafe"
)

// ListAll returns every capture and playback PCM of every card.
func ListAll() ([]Device, error) {
	return list(StreamCapture, StreamPlayback)
}

// ListDevices returns the PCMs of every card that support stream.
func ListDevices(stream Stream) ([]Device, error) {
	return list(stream)
}

func list(streams ...Stream) ([]Device, error) {
	cards, err := Cards()
	if err != nil {
		return nil, err
	}

	var devices []Device
	for _, card := range cards {
		devs, err := cardDevices(card, streams)
		if err != nil {
			continue // card went away or denies access
		}
		devices = append(devices, devs...)
	}
	return devices, nil
}

// Cards returns the numbers of the sound cards present, ascending. A system
// without SoundDir has no cards.
func Cards() ([]int, error) {
	entries, err := os.ReadDir(SoundDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var cards []int
	for _, e := range entries {
		if n, ok := ParseControlName(e.Name()); ok {
			cards = append(cards, n)
		}
	}
	sort.Ints(cards)
	return cards, nil
}

// ParseControlName extracts the card number from a "controlC<N>" file name.
func ParseControlName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "controlC")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func cardDevices(card int, streams []Stream) ([]Device, error) {
	fd, err := syscall.Open(ControlPath(card), syscall.O_RDONLY|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	defer syscall.Close(fd)

	info := sndCtlCardInfo{}
	if err := ioctl(fd, sndrvCtlIoctlCardInfo, unsafe.Pointer(&info)); err != nil {
		return nil, err
	}

	var devices []Device
	num := int32(-1)
	for {
		if err := ioctl(fd, sndrvCtlIoctlPCMNextDevice, unsafe.Pointer(&num)); err != nil || num < 0 {
			break
		}

		for _, stream := range streams {
			pcm := sndPCMInfo{device: uint32(num), stream: int32(stream)}
			if err := ioctl(fd, sndrvCtlIoctlPCMInfo, unsafe.Pointer(&pcm)); err != nil {
				continue // no substream in this direction
			}

			dev := Device{
				Card:         card,
				CardID:       cstr(info.id[:]),
				CardName:     cstr(info.name[:]),
				CardLongName: cstr(info.longname[:]),
				Number:       int(num),
				Name:         cstr(pcm.name[:]),
				Stream:       stream,
				HWName:       HWName(card, int(num)),
			}
			dev.ProbeErr = dev.probe()
			devices = append(devices, dev)
		}
	}
	return devices, nil
}

// probe opens the PCM and refines an unconstrained hw_params to read the
// device's capability ranges.
func (d *Device) probe() error {
	path := d.PCMPath()
	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_NONBLOCK|syscall.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer syscall.Close(fd)

	var hw sndPCMHwParams
	hw.reset()
	hw.setMask(sndrvPCMHwParamAccess, sndrvPCMAccessRwInterleaved)
	if err := ioctl(fd, sndrvPCMIoctlHwRefine, unsafe.Pointer(&hw)); err != nil {
		return fmt.Errorf("refine %s: %w", d.HWName, err)
	}

	minCh, maxCh := hw.interval(sndrvPCMHwParamChannels)
	d.MinChannels, d.MaxChannels = toInt(minCh), toInt(maxCh)

	minRate, maxRate := hw.interval(sndrvPCMHwParamRate)
	d.MinRate, d.MaxRate = toInt(minRate), toInt(maxRate)
	d.SupportedRates = nil
	for _, rate := range CommonSampleRates {
		if rate >= d.MinRate && rate <= d.MaxRate {
			d.SupportedRates = append(d.SupportedRates, rate)
		}
	}

	d.Formats = nil
	for _, f := range LinearFormats {
		if hw.testMask(sndrvPCMHwParamFormat, uint32(f)) {
			d.Formats = append(d.Formats, f)
		}
	}

	minBuf, maxBuf := hw.interval(sndrvPCMHwParamBufferSize)
	d.MinBufferSize, d.MaxBufferSize = toInt(minBuf), toInt(maxBuf)

	minPer, maxPer := hw.interval(sndrvPCMHwParamPeriodSize)
	d.MinPeriodSize, d.MaxPeriodSize = toInt(minPer), toInt(maxPer)

	return nil
}

// toInt keeps unbounded interval ends positive on 32-bit platforms.
func toInt(v uint32) int {
	if uint64(v) > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
