//go:build linux && arm

package alsa

import "unsafe"

// uframes is snd_pcm_uframes_t, 4 bytes on 32-bit ARM.
type uframes uint32

// 604-byte argument instead of 608.
const sndrvPCMIoctlHwRefine = 0xc25c4110

var (
	_ [376]byte = [unsafe.Sizeof(sndCtlCardInfo{})]byte{}
	_ [288]byte = [unsafe.Sizeof(sndPCMInfo{})]byte{}
	_ [604]byte = [unsafe.Sizeof(sndPCMHwParams{})]byte{}
)
