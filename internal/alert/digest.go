package alert

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/convlog"
	"github.com/zulandar/switchboard/internal/rule"
)

// Digest summarizes one reporting window for operators.
type Digest struct {
	ChatThreads   int64
	BotThreads    int64
	HumanTakeover int64
	NewProspects  int64
	Rules         int64
	DevicesOnline int
	DevicesTotal  int
}

// buildDigest collects the digest counters. Device health comes from the
// daemon's sweep state rather than fresh probes.
func (d *Daemon) buildDigest(db *gorm.DB) (*Digest, error) {
	threads, err := convlog.Counts(db)
	if err != nil {
		return nil, fmt.Errorf("alert: digest threads: %w", err)
	}
	prospects, err := convlog.NewProspectsSince(db, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("alert: digest prospects: %w", err)
	}
	rules, err := rule.Count(db)
	if err != nil {
		return nil, fmt.Errorf("alert: digest rules: %w", err)
	}

	online, total := d.health()
	return &Digest{
		ChatThreads:   threads.Chat,
		BotThreads:    threads.Bot,
		HumanTakeover: threads.HumanTakeover,
		NewProspects:  prospects,
		Rules:         rules,
		DevicesOnline: online,
		DevicesTotal:  total,
	}, nil
}

// fireDigest builds and sends one digest.
func (d *Daemon) fireDigest(ctx context.Context) {
	digest, err := d.buildDigest(d.db)
	if err != nil {
		log.Printf("alert: digest: %v", err)
		return
	}
	d.send(ctx, FormatDigest(*digest))
}
