package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/puffmon/puff/internal/sensor"
	"github.com/puffmon/puff/internal/store"
)

// Poller periodically reads the sensor and appends calibrated readings to the
// store. Read failures are logged and skipped; the loop never dies.
type Poller struct {
	scheduler *gocron.Scheduler
	source    sensor.Source
	store     store.ReadingStore
	settings  store.SettingsStore
	interval  time.Duration
	log       *slog.Logger
}

// New creates a Poller. settings may be nil, in which case no calibration is
// applied.
func New(src sensor.Source, st store.ReadingStore, settings store.SettingsStore, interval time.Duration, log *slog.Logger) *Poller {
	s := gocron.NewScheduler(time.UTC)
	return &Poller{
		scheduler: s,
		source:    src,
		store:     st,
		settings:  settings,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic poll job and starts the underlying scheduler.
func (p *Poller) Start() error {
	secs := int(p.interval.Seconds())
	if secs <= 0 {
		secs = 5
	}

	_, err := p.scheduler.Every(secs).Seconds().Do(p.poll)
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (p *Poller) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	sample, err := p.source.Read(ctx)
	if err != nil {
		p.log.Warn("sensor read failed", "error", err)
		return
	}

	pm25Cal, pm10Cal := 1.0, 1.0
	if p.settings != nil {
		if s, err := p.settings.GetSettings(); err != nil {
			p.log.Warn("load settings failed, skipping calibration", "error", err)
		} else {
			pm25Cal, pm10Cal = s.PM25Calibration, s.PM10Calibration
		}
	}

	r := store.Reading{
		Timestamp: time.Now().UTC(),
		PM25:      sample.PM25 * pm25Cal,
		PM10:      sample.PM10 * pm10Cal,
	}
	if err := p.store.Insert(r); err != nil {
		p.log.Error("store reading failed", "error", err)
		return
	}
	p.log.Debug("recorded reading", "pm25", r.PM25, "pm10", r.PM10)
}
