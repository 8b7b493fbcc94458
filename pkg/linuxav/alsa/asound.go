//go:build linux

package alsa

import (
	"bytes"
	"syscall"
	"unsafe"
)

// Control and PCM ioctls whose argument layout is the same on every
// architecture.
const (
	sndrvCtlIoctlCardInfo      = 0x81785501
	sndrvCtlIoctlPCMNextDevice = 0x80045530
	sndrvCtlIoctlPCMInfo       = 0xc1205531
)

// Hardware parameter indices.
const (
	sndrvPCMHwParamAccess        = 0
	sndrvPCMHwParamFormat        = 1
	sndrvPCMHwParamFirstMask     = 0
	sndrvPCMHwParamLastMask      = 2
	sndrvPCMHwParamChannels      = 10
	sndrvPCMHwParamRate          = 11
	sndrvPCMHwParamPeriodSize    = 13
	sndrvPCMHwParamBufferSize    = 17
	sndrvPCMHwParamFirstInterval = 8
	sndrvPCMHwParamLastInterval  = 19

	sndrvMaskMax = 256

	sndrvPCMAccessRwInterleaved = 3
)

// sndCtlCardInfo is 376 bytes.
type sndCtlCardInfo struct {
	card       int32
	_          [4]byte
	id         [16]byte
	driver     [16]byte
	name       [32]byte
	longname   [80]byte
	reserved   [16]byte
	mixername  [80]byte
	components [128]byte
}

// sndPCMInfo is 288 bytes.
type sndPCMInfo struct {
	device          uint32
	subdevice       uint32
	stream          int32
	card            int32
	id              [64]byte
	name            [80]byte
	subname         [32]byte
	devClass        int32
	devSubclass     int32
	subdevicesCount uint32
	subdevicesAvail uint32
	_               [16]byte
	reserved        [64]byte
}

type sndMask struct {
	bits [(sndrvMaskMax + 31) / 32]uint32
}

type sndInterval struct {
	minVal uint32
	maxVal uint32
	bit    uint32
}

// sndPCMHwParams is 608 bytes on 64-bit and 604 bytes on 32-bit ARM; only
// fifoSize changes width.
type sndPCMHwParams struct {
	flags     uint32
	masks     [sndrvPCMHwParamLastMask - sndrvPCMHwParamFirstMask + 1]sndMask
	mres      [5]sndMask
	intervals [sndrvPCMHwParamLastInterval - sndrvPCMHwParamFirstInterval + 1]sndInterval
	ires      [9]sndInterval
	rmask     uint32
	cmask     uint32
	info      uint32
	msbits    uint32
	rateNum   uint32
	rateDen   uint32
	fifoSize  uframes
	reserved  [64]byte
}

// reset sets every parameter to "anything goes" before a refine.
func (p *sndPCMHwParams) reset() {
	for i := range p.masks {
		for j := range p.masks[i].bits {
			p.masks[i].bits[j] = 0xFFFFFFFF
		}
	}
	for i := range p.intervals {
		p.intervals[i].minVal = 0
		p.intervals[i].maxVal = 0xFFFFFFFF
	}
	p.rmask = 0xFFFFFFFF
	p.cmask = 0
	p.info = 0xFFFFFFFF
}

func (p *sndPCMHwParams) setMask(param, val uint32) {
	m := &p.masks[param-sndrvPCMHwParamFirstMask]
	for j := range m.bits {
		m.bits[j] = 0
	}
	m.bits[val>>5] = 1 << (val & 0x1F)
}

func (p *sndPCMHwParams) testMask(param, val uint32) bool {
	return p.masks[param-sndrvPCMHwParamFirstMask].bits[val>>5]&(1<<(val&0x1F)) != 0
}

func (p *sndPCMHwParams) interval(param uint32) (minVal, maxVal uint32) {
	iv := p.intervals[param-sndrvPCMHwParamFirstInterval]
	return iv.minVal, iv.maxVal
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
