// Package dispatcher drives the time-based behavior of moodlog: it detects
// day rollovers, runs the auto-save and reminder commands, and publishes
// the resulting events to subscribers.
package dispatcher

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/logger"
	"github.com/julianstephens/moodlog/internal/metrics"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/utils"
)

type Options struct {
	// Interval between ticks. Defaults to 30s.
	Interval time.Duration
	// ReminderWindow is how long after the scheduled time a reminder may fire. Defaults to 10m.
	ReminderWindow time.Duration
	// ProviderTimeout bounds each schedule or record call. Defaults to 10s.
	ProviderTimeout time.Duration
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// Commands replaces the default AutoSave, Morning, Evening set.
	Commands []Command
}

// TickReport describes what a single tick did.
type TickReport struct {
	Today    string
	Skipped  bool
	Rollover bool
	OldDate  string
	// Reminders holds the every-tick reminder results, RolloverResults the
	// full command set run on a date change.
	Reminders       []CommandResult
	RolloverResults []CommandResult
}

type Dispatcher struct {
	clock    Clock
	schedule ScheduleProvider
	commands []Command
	interval time.Duration
	metrics  *metrics.Metrics

	mu          sync.Mutex
	known       *models.MoodRecord
	subscribers []func(Event)

	// busy serializes ticks; lastDate is only touched while it is held.
	busy     atomic.Bool
	lastDate string

	runMu  sync.Mutex
	ticker Ticker
	stop   chan struct{}
	done   chan struct{}
	closed bool

	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
	closeOnce sync.Once
}

// New builds a dispatcher and starts its ticker. The last observed date is
// today, so the first rollover happens at the next date change.
func New(clock Clock, schedule ScheduleProvider, records RecordProvider, opts Options) *Dispatcher {
	if opts.Interval <= 0 {
		opts.Interval = constants.DefaultTickInterval
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = constants.DefaultProviderTimeout
	}

	schedule = timeoutSchedule{inner: schedule, timeout: opts.ProviderTimeout}
	records = timeoutRecords{inner: records, timeout: opts.ProviderTimeout}

	commands := opts.Commands
	if commands == nil {
		commands = []Command{
			NewAutoSaveCommand(clock, records),
			NewMorningReminderCommand(clock, schedule, records, opts.ReminderWindow),
			NewEveningReminderCommand(clock, schedule, records, opts.ReminderWindow),
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		clock:    clock,
		schedule: schedule,
		commands: commands,
		interval: opts.Interval,
		metrics:  opts.Metrics,
		lastDate: utils.DateOf(clock.Now()),
		ctx:      ctx,
		cancel:   cancel,
	}
	d.Start()
	return d
}

// Subscribe registers fn for every published event. Handlers run on the
// tick path in registration order; a panicking handler is logged and skipped.
func (d *Dispatcher) Subscribe(fn func(Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, fn)
}

// SetKnownRecord hands the dispatcher the record the user is currently editing.
func (d *Dispatcher) SetKnownRecord(rec *models.MoodRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.known = rec.Clone()
}

func (d *Dispatcher) KnownRecord() *models.MoodRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.known.Clone()
}

// Commands returns the registered commands in execution order.
func (d *Dispatcher) Commands() []Command {
	return slices.Clone(d.commands)
}

// Start resumes ticking. It is a no-op when already running or closed.
func (d *Dispatcher) Start() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	if d.closed || d.ticker != nil {
		return
	}

	d.ticker = d.clock.NewTicker(d.interval)
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.loop(d.ticker, d.stop, d.done)
	logger.Debug("Dispatcher started", "interval", d.interval)
}

// Stop pauses ticking. A tick already in flight is allowed to finish.
func (d *Dispatcher) Stop() {
	d.runMu.Lock()
	t, stop, done := d.ticker, d.stop, d.done
	d.ticker, d.stop, d.done = nil, nil, nil
	d.runMu.Unlock()

	if t == nil {
		return
	}
	t.Stop()
	close(stop)
	<-done
	logger.Debug("Dispatcher stopped")
}

func (d *Dispatcher) Running() bool {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	return d.ticker != nil
}

// Close stops the ticker for good, cancels any in-flight tick and waits
// for it to return. Calling Close more than once is safe.
func (d *Dispatcher) Close() error {
	d.closeOnce.Do(func() {
		d.runMu.Lock()
		d.closed = true
		d.runMu.Unlock()

		d.Stop()
		d.cancel()
		d.inflight.Wait()
	})
	return nil
}

func (d *Dispatcher) loop(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			// Ticks run off the loop so a slow provider can't hold up the
			// ticker; the busy flag drops ticks that would overlap.
			d.inflight.Add(1)
			go func() {
				defer d.inflight.Done()
				d.Tick(d.ctx)
			}()
		}
	}
}

// Tick runs one tick. It is called by the ticker loop and may be called
// directly; a call made while another tick is running is skipped.
func (d *Dispatcher) Tick(ctx context.Context) TickReport {
	if !d.busy.CompareAndSwap(false, true) {
		logger.Warn("Skipping tick, previous tick still running")
		d.metrics.IncSkippedTick()
		return TickReport{Skipped: true}
	}
	defer d.busy.Store(false)

	started := time.Now()
	defer func() { d.metrics.ObserveTick(time.Since(started)) }()

	today := utils.DateOf(d.clock.Now())
	known := d.KnownRecord()
	report := TickReport{Today: today}

	for _, cmd := range d.commands {
		if !cmd.Kind().IsReminder() {
			continue
		}
		res := d.run(ctx, cmd, today, today, known)
		report.Reminders = append(report.Reminders, res)
		if ev, ok := reminderEvent(res); ok {
			d.publish(ev)
		}
	}

	if today == d.lastDate {
		return report
	}

	oldDate := d.lastDate
	report.Rollover = true
	report.OldDate = oldDate
	d.metrics.IncRollover()
	logger.Info("Date changed", "old_date", oldDate, "new_date", today)

	d.cleanupSchedule(ctx)

	results := make([]CommandResult, 0, len(d.commands))
	for _, cmd := range d.commands {
		results = append(results, d.run(ctx, cmd, oldDate, today, known))
	}
	report.RolloverResults = results

	d.publish(DateChanged{OldDate: oldDate, NewDate: today, Decision: DecideRollover(results)})

	for _, res := range results {
		if p, ok := res.Payload.(SavedRecordPayload); ok {
			d.publish(AutoSaveOccurred{Record: p.Record, Date: oldDate})
			break
		}
	}

	// Morning is re-checked against the new day's state.
	for _, res := range results {
		if res.Kind != KindMorningReminder {
			continue
		}
		if ev, ok := reminderEvent(res); ok {
			d.publish(ev)
		}
	}

	d.lastDate = today
	return report
}

// run invokes cmd and turns a panic into a Failed result naming the command.
func (d *Dispatcher) run(ctx context.Context, cmd Command, oldDate, newDate string, known *models.MoodRecord) (res CommandResult) {
	defer func() {
		if r := recover(); r != nil {
			res = Failed(fmt.Sprintf("%s panicked: %v", cmd.Name(), r))
		}
		res.Command = cmd.Name()
		res.Kind = cmd.Kind()
		if !res.Success {
			logger.Warn("Command failed", "command", res.Command, "old_date", oldDate, "new_date", newDate, "message", res.Message)
		}
		d.metrics.IncCommand(cmd.Kind().String(), res.Outcome())
	}()
	return cmd.Process(ctx, oldDate, newDate, known.Clone())
}

// cleanupSchedule re-saves the schedule unchanged so expired overrides are
// dropped. Errors are logged and otherwise ignored.
func (d *Dispatcher) cleanupSchedule(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Schedule cleanup panicked", "panic", r)
		}
	}()

	cfg, err := d.schedule.LoadConfig(ctx)
	if err != nil {
		logger.Warn("Schedule cleanup failed to load config", "error", err)
		return
	}
	if _, err := d.schedule.UpdateConfig(ctx, cfg.MorningTime, cfg.EveningTime, nil); err != nil {
		logger.Warn("Schedule cleanup failed", "error", err)
	}
}

func (d *Dispatcher) publish(ev Event) {
	d.metrics.IncEvent(string(ev.Type()))

	d.mu.Lock()
	subs := slices.Clone(d.subscribers)
	d.mu.Unlock()

	for _, fn := range subs {
		deliver(fn, ev)
	}
}

func deliver(fn func(Event), ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event subscriber panicked", "event", ev.Type(), "panic", r)
		}
	}()
	fn(ev)
}
