package dispatcher

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/moodlog/internal/models"
)

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) Tickers() []*fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*fakeTicker(nil), c.tickers...)
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type fakeSchedule struct {
	mu        sync.Mutex
	morning   string
	evening   string
	loadErr   error
	updateErr error
	block     bool
	updates   int
}

func newFakeSchedule(morning, evening string) *fakeSchedule {
	return &fakeSchedule{morning: morning, evening: evening}
}

func (s *fakeSchedule) LoadConfig(ctx context.Context) (models.ScheduleConfig, error) {
	s.mu.Lock()
	block, err := s.block, s.loadErr
	cfg := models.ScheduleConfig{
		MorningTime:          s.morning,
		EveningTime:          s.evening,
		EffectiveMorningTime: s.morning,
		EffectiveEveningTime: s.evening,
	}
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return models.ScheduleConfig{}, ctx.Err()
	}
	if err != nil {
		return models.ScheduleConfig{}, err
	}
	return cfg, nil
}

func (s *fakeSchedule) UpdateConfig(ctx context.Context, morning, evening string, override *models.ScheduleOverride) (models.ScheduleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	if s.updateErr != nil {
		return models.ScheduleConfig{}, s.updateErr
	}
	s.morning, s.evening = morning, evening
	return models.ScheduleConfig{MorningTime: morning, EveningTime: evening}, nil
}

func (s *fakeSchedule) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

type fakeRecords struct {
	mu      sync.Mutex
	records map[string]*models.MoodRecord
	getErr  error
	saveErr error
	saves   []savedCall
}

type savedCall struct {
	record              models.MoodRecord
	useAutoSaveDefaults bool
}

func newFakeRecords(recs ...models.MoodRecord) *fakeRecords {
	f := &fakeRecords{records: map[string]*models.MoodRecord{}}
	for i := range recs {
		f.records[recs[i].Date] = recs[i].Clone()
	}
	return f
}

func (f *fakeRecords) GetRecord(_ context.Context, date string) (*models.MoodRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records[date].Clone(), nil
}

func (f *fakeRecords) SaveRecord(_ context.Context, rec models.MoodRecord, useAutoSaveDefaults bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, savedCall{record: rec, useAutoSaveDefaults: useAutoSaveDefaults})
	f.records[rec.Date] = rec.Clone()
	return nil
}

func (f *fakeRecords) Saves() []savedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedCall(nil), f.saves...)
}

// stubCommand returns a fixed result (or panics) and counts its calls.
type stubCommand struct {
	name   string
	kind   CommandKind
	result CommandResult
	panic  bool
	calls  int
	// entered/release let a test hold a tick open.
	entered chan struct{}
	release chan struct{}
}

func (c *stubCommand) Name() string      { return c.name }
func (c *stubCommand) Kind() CommandKind { return c.kind }

func (c *stubCommand) Process(context.Context, string, string, *models.MoodRecord) CommandResult {
	c.calls++
	if c.entered != nil {
		c.entered <- struct{}{}
		<-c.release
	}
	if c.panic {
		panic("boom")
	}
	return c.result
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) All() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func (l *eventLog) OfType(t EventType) []Event {
	var out []Event
	for _, ev := range l.All() {
		if ev.Type() == t {
			out = append(out, ev)
		}
	}
	return out
}

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
