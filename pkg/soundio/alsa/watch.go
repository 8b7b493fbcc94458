//go:build linux

package alsa

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	alsadev "github.com/smazurov/soundnode/pkg/linuxav/alsa"
	"github.com/smazurov/soundnode/pkg/linuxav/hotplug"
)

// changeSource signals that the set of PCM devices may have changed. A
// failure on errs means no further changes will be reported.
type changeSource struct {
	name    string
	changes <-chan struct{}
	errs    <-chan error
	wg      sync.WaitGroup
	close   func() error
}

// Close waits for the source goroutines to exit and releases the watch.
// ctx passed to the constructor must be cancelled first.
func (s *changeSource) Close() error {
	s.wg.Wait()
	if s.close != nil {
		return s.close()
	}
	return nil
}

func signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// openChangeSource prefers kernel uevents and falls back to watching the
// device directory.
func openChangeSource(ctx context.Context, logger *slog.Logger) (*changeSource, error) {
	src, err := netlinkSource(ctx, logger)
	if err == nil {
		return src, nil
	}
	logger.Debug("Netlink hotplug unavailable, watching device directory", "error", err)

	src, fsErr := fsnotifySource(ctx, logger, alsadev.SoundDir)
	if fsErr != nil {
		return nil, errors.Join(err, fsErr)
	}
	return src, nil
}

func netlinkSource(ctx context.Context, logger *slog.Logger) (*changeSource, error) {
	mon, err := hotplug.NewMonitor()
	if err != nil {
		return nil, err
	}
	mon.AddSubsystemFilter(hotplug.SubsystemSound)

	raw := make(chan hotplug.Event, 16)
	changes := make(chan struct{}, 1)
	errs := make(chan error, 1)
	src := &changeSource{name: "netlink", changes: changes, errs: errs, close: mon.Close}

	src.wg.Add(2)
	go func() {
		defer src.wg.Done()
		if runErr := mon.Run(ctx, raw); runErr != nil && ctx.Err() == nil {
			errs <- runErr
		}
	}()
	go func() {
		defer src.wg.Done()
		for ev := range raw {
			if !ev.ChangesSoundTopology() {
				continue
			}
			card, _ := ev.SoundCard()
			logger.Debug("Sound uevent", "action", ev.Action, "devname", ev.DevName, "card", card)
			signal(changes)
		}
	}()
	return src, nil
}

func fsnotifySource(ctx context.Context, logger *slog.Logger, dir string) (*changeSource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	errs := make(chan error, 1)
	src := &changeSource{name: "fsnotify", changes: changes, errs: errs, close: w.Close}

	src.wg.Add(1)
	go func() {
		defer src.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 || !isPCMNode(event.Name) {
					continue
				}
				logger.Debug("Sound device node changed", "op", event.Op.String(), "path", event.Name)
				signal(changes)
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("Device directory watch error", "error", werr)
			}
		}
	}()
	return src, nil
}

func isPCMNode(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "pcmC") || strings.HasPrefix(base, "controlC")
}
