package guildconfig

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/ticketeer/pkg/logging"
	"github.com/robfig/cron/v3"
)

// DefaultPollInterval is how often the configuration is reloaded when no interval is configured.
const DefaultPollInterval = 5 * time.Second

// Poller runs the monitor on a fixed interval.
type Poller struct {
	l        *slog.Logger
	monitor  *Monitor
	interval time.Duration
	timeout  time.Duration

	c *cron.Cron
}

// NewPoller creates a poller that ticks the monitor every interval.
func NewPoller(l *slog.Logger, monitor *Monitor, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		l:        l.With(slog.String("component", "config_poller")),
		monitor:  monitor,
		interval: interval,
		timeout:  interval * 2,
	}
}

// Start runs one tick straight away and then schedules the rest. A tick that is still running when
// the next is due causes that one to be skipped.
func (p *Poller) Start(ctx context.Context) error {
	cl := logging.CronLogger(p.l)
	p.c = cron.New(cron.WithLogger(cl), cron.WithChain(
		cron.Recover(cl),
		cron.SkipIfStillRunning(cl),
	))

	if _, err := p.c.AddFunc(fmt.Sprintf("@every %s", p.interval), func() {
		p.tick(ctx)
	}); err != nil {
		return fmt.Errorf("error scheduling config poll: %w", err)
	}

	p.tick(ctx)
	p.c.Start()

	p.l.Info("Config poller started", slog.Duration("interval", p.interval))
	return nil
}

// Stop stops scheduling ticks and waits for a running tick to finish.
func (p *Poller) Stop() {
	if p.c == nil {
		return
	}
	<-p.c.Stop().Done()
	p.l.Info("Config poller stopped")
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	p.monitor.Tick(ctx)
}
