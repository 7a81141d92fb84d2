package alert

import (
	"context"
	"log"

	"github.com/zulandar/switchboard/internal/device"
)

// sweep probes every registered device and alerts on state transitions.
// The first observation of a device only records its state; alerts fire
// on changes, not on startup.
func (d *Daemon) sweep(ctx context.Context) {
	devices, err := device.List(d.db)
	if err != nil {
		log.Printf("alert: sweep: %v", err)
		return
	}

	for i := range devices {
		dev := &devices[i]

		online, state := false, "unreachable"
		client, err := d.providers(dev)
		if err != nil {
			log.Printf("alert: sweep %s: %v", dev.DeviceID, err)
		} else if status, err := client.Status(ctx, dev); err != nil {
			log.Printf("alert: sweep %s: %v", dev.DeviceID, err)
		} else {
			online, state = status.Online, status.State
		}

		d.mu.Lock()
		prev, seen := d.online[dev.DeviceID]
		d.online[dev.DeviceID] = online
		d.mu.Unlock()

		switch {
		case !seen:
			// Baseline observation.
		case prev && !online:
			d.send(ctx, FormatOffline(dev.DeviceID, dev.Provider, state))
		case !prev && online:
			d.send(ctx, FormatRecovered(dev.DeviceID, dev.Provider))
		}
	}
}

// health reports the last sweep's view of device availability.
func (d *Daemon) health() (online, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, up := range d.online {
		total++
		if up {
			online++
		}
	}
	return online, total
}
