//go:build linux

// Package alsa enumerates ALSA PCM devices and queries their hardware
// capabilities through the kernel's control and PCM ioctls.
//
// The package does not use cgo, so it cross-compiles to every supported Linux
// architecture (amd64, arm64, arm).
//
// # Device Enumeration
//
// ListAll returns every capture and playback PCM; ListDevices restricts the
// result to one stream direction:
//
//	devices, err := alsa.ListAll()
//	for _, dev := range devices {
//	    fmt.Printf("%s %s: %s (%s)\n", dev.HWName, dev.Stream, dev.Name, dev.CardName)
//	    fmt.Printf("  Rates: %d-%d\n", dev.MinRate, dev.MaxRate)
//	    fmt.Printf("  Channels: %d-%d\n", dev.MinChannels, dev.MaxChannels)
//	    fmt.Printf("  Formats: %v\n", dev.FormatNames())
//	}
//
// A device that is busy or refuses the capability query is still listed;
// its ProbeErr is set and the capability fields are left empty.
package alsa
