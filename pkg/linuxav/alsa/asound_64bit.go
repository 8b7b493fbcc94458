//go:build linux && (amd64 || arm64)

package alsa

import "unsafe"

// uframes is snd_pcm_uframes_t.
type uframes uint64

const sndrvPCMIoctlHwRefine = 0xc2604110

// Struct sizes must match the kernel ABI.
var (
	_ [376]byte = [unsafe.Sizeof(sndCtlCardInfo{})]byte{}
	_ [288]byte = [unsafe.Sizeof(sndPCMInfo{})]byte{}
	_ [32]byte  = [unsafe.Sizeof(sndMask{})]byte{}
	_ [12]byte  = [unsafe.Sizeof(sndInterval{})]byte{}
	_ [608]byte = [unsafe.Sizeof(sndPCMHwParams{})]byte{}
)
