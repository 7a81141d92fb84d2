package alert

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/models"
	"github.com/zulandar/switchboard/internal/provider"
)

// ProviderFactory builds the client used to probe a device's messaging
// provider. Tests substitute a mock.
type ProviderFactory func(dev *models.Device) (provider.Client, error)

// Opts holds parameters for creating a Daemon.
type Opts struct {
	DB            *gorm.DB
	Adapter       Adapter
	Channel       string        // notification channel
	SweepInterval time.Duration // device status sweep cadence; defaults to 5m
	DigestCron    string        // 5-field cron for the daily digest; empty disables it
	Providers     ProviderFactory
	Out           io.Writer // defaults to os.Stdout
}

// Daemon watches device health and posts operator notifications. It sweeps
// provider status on an interval, alerting on offline/online transitions,
// and sends an activity digest on a cron schedule.
type Daemon struct {
	db            *gorm.DB
	adapter       Adapter
	channel       string
	sweepInterval time.Duration
	digestCron    string
	providers     ProviderFactory
	out           io.Writer

	mu     sync.Mutex
	online map[string]bool // last observed state per device
}

// New creates a Daemon with the given options.
func New(opts Opts) (*Daemon, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("alert: db is required")
	}
	if opts.Adapter == nil {
		return nil, fmt.Errorf("alert: adapter is required")
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 5 * time.Minute
	}
	if opts.Providers == nil {
		opts.Providers = func(dev *models.Device) (provider.Client, error) {
			return provider.ForDevice(dev, provider.DefaultTimeout)
		}
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Daemon{
		db:            opts.DB,
		adapter:       opts.Adapter,
		channel:       opts.Channel,
		sweepInterval: opts.SweepInterval,
		digestCron:    opts.DigestCron,
		providers:     opts.Providers,
		out:           out,
		online:        make(map[string]bool),
	}, nil
}

// Run connects the adapter and blocks until the context is cancelled. The
// first sweep happens immediately so the daemon knows every device's state
// before alerting on transitions.
func (d *Daemon) Run(ctx context.Context) error {
	fmt.Fprintf(d.out, "Alert daemon connecting...\n")
	if err := d.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("alert: connect: %w", err)
	}

	d.send(ctx, Message{Title: "Switchboard alerts online", Severity: "info"})
	d.sweep(ctx)

	ticker := time.NewTicker(d.sweepInterval)
	defer ticker.Stop()

	var digestTimer *time.Timer
	if d.digestCron != "" {
		if wait := nextCronDuration(d.digestCron); wait > 0 {
			digestTimer = time.NewTimer(wait)
			defer digestTimer.Stop()
		}
	}

	fmt.Fprintf(d.out, "Alert daemon online\n")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(d.out, "Alert daemon shutting down...\n")
			d.send(context.Background(), Message{Title: "Switchboard alerts shutting down", Severity: "info"})
			if err := d.adapter.Close(); err != nil {
				log.Printf("alert: close adapter: %v", err)
			}
			return nil

		case <-ticker.C:
			d.sweep(ctx)

		case <-timerChan(digestTimer):
			d.fireDigest(ctx)
			if wait := nextCronDuration(d.digestCron); wait > 0 {
				digestTimer.Reset(wait)
			}
		}
	}
}

// send posts a notification on the configured channel, best-effort.
func (d *Daemon) send(ctx context.Context, msg Message) {
	if msg.ChannelID == "" {
		msg.ChannelID = d.channel
	}
	if err := d.adapter.Send(ctx, msg); err != nil {
		log.Printf("alert: send %q: %v", msg.Title, err)
	}
}

// cronParser uses standard 5-field cron expressions (minute, hour, dom,
// month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	wait := time.Until(next)
	if wait < 0 {
		return 0
	}
	return wait
}

// timerChan returns the timer's channel, or nil if the timer is nil. A nil
// channel blocks forever in select, which is what a disabled digest wants.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
