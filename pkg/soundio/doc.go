// Package soundio exposes a backend-agnostic view of the audio devices on the
// host: which backends exist, a connection to one of them, a point-in-time
// snapshot of its input and output devices, and notification when that set
// changes.
//
// # Usage
//
//	sio := soundio.New(backends.Default(backends.Settings{Logger: logger}))
//	defer sio.Disconnect()
//
//	if err := sio.ConnectDefault(); err != nil {
//		return err
//	}
//	if err := sio.FlushEvents(); err != nil {
//		return err
//	}
//
//	n, _ := sio.InputCount()
//	for i := range n {
//		dev, _ := sio.InputAt(i)
//		fmt.Println(dev.Name)
//	}
//
// # Change notification
//
// Register a callback and pump events from one goroutine:
//
//	sio.OnDevicesChanged(func() {
//		snap, _ := sio.Snapshot()
//		fmt.Println("inputs:", snap.InputCount())
//	})
//	for {
//		res, err := sio.WaitEvents(ctx)
//		if err != nil || res == soundio.WaitCancelled {
//			break
//		}
//	}
//
// Callbacks run synchronously inside FlushEvents and WaitEvents, after the
// snapshot has been refreshed. A callback must not call Disconnect.
//
// # Snapshots
//
// Every refresh produces a new immutable Snapshot. Devices and indices obtained
// from an older snapshot stay readable but describe the old state; look them
// up again after a change.
package soundio
