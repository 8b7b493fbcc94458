// Package miniaudio provides soundio backends for the sound servers and
// platform APIs that miniaudio drives: JACK, PulseAudio, CoreAudio and WASAPI.
//
// The backends need cgo. Builds without cgo, or with the noaudio tag, get no
// backends from Kinds and New reports every kind as unavailable.
package miniaudio
