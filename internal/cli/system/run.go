package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/dispatcher"
	"github.com/julianstephens/moodlog/internal/logger"
	"github.com/julianstephens/moodlog/internal/metrics"
	"github.com/julianstephens/moodlog/internal/notifier"
	"github.com/julianstephens/moodlog/internal/utils"
)

// RunCmd runs the dispatcher in the foreground until interrupted.
type RunCmd struct {
	DryRun      bool          `help:"Print reminders instead of sending them to the tray app."`
	Interval    time.Duration `help:"Tick interval, overriding the tick_interval_sec setting."`
	MetricsAddr string        `help:"Serve Prometheus metrics on this address, e.g. 127.0.0.1:9464."`
	Once        bool          `help:"Run a single tick and exit."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	bg, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := ctx.Settings(bg)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	opts := dispatcher.Options{
		Interval:        settings.TickInterval(),
		ReminderWindow:  settings.ReminderWindow(),
		ProviderTimeout: settings.ProviderTimeout(),
		Metrics:         metrics.New(),
	}
	if c.Interval > 0 {
		opts.Interval = c.Interval
	}

	sink := &eventSink{
		ctx:    bg,
		out:    os.Stdout,
		backup: ctx.PerformAutomaticBackup,
	}
	switch {
	case c.DryRun:
		fmt.Println(cli.MutedStyle.Render("Dry run: reminders are printed, not sent."))
	case !settings.NotificationsEnabled:
		fmt.Println(cli.MutedStyle.Render("Notifications are disabled in settings; reminders are printed."))
	default:
		n := notifier.New()
		if err := n.Available(); err != nil {
			logger.Warn("Tray app not reachable, reminders will be retried on each send", "error", err)
		}
		sink.notifier = n
	}

	d := dispatcher.New(dispatcher.SystemClock(ctx.Location), ctx.Schedule, ctx.Records, opts)
	defer d.Close()
	d.Subscribe(sink.Handle)

	if c.Once {
		d.Stop()
		report := d.Tick(bg)
		printReport(os.Stdout, report)
		return nil
	}

	if c.MetricsAddr != "" {
		srv := &http.Server{Addr: c.MetricsAddr, Handler: opts.Metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "addr", c.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("Serving metrics on http://%s/metrics\n", c.MetricsAddr)
	}

	logger.Info("Dispatcher running", "interval", opts.Interval, "window", opts.ReminderWindow, "location", ctx.Location.String())
	fmt.Printf("%s ticking every %s (Ctrl+C to stop)\n", cli.TitleStyle.Render("moodlog"), opts.Interval)

	<-bg.Done()
	fmt.Println("\nShutting down...")
	return nil
}

func printReport(w io.Writer, r dispatcher.TickReport) {
	fmt.Fprintf(w, "%s %s\n", cli.TitleStyle.Render("Tick"), r.Today)
	results := r.Reminders
	if r.Rollover {
		fmt.Fprintf(w, "  rollover from %s\n", r.OldDate)
		results = append(results, r.RolloverResults...)
	}
	for _, res := range results {
		line := fmt.Sprintf("  %-24s %-10s %s", res.Command, res.Outcome(), res.Message)
		if !res.Success {
			line = cli.DangerStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

// sender is satisfied by *notifier.Notifier.
type sender interface {
	Notify(ctx context.Context, msg notifier.Message) error
}

// eventSink turns dispatcher events into notifications and terminal output.
// With no notifier, reminders are printed.
type eventSink struct {
	ctx      context.Context
	notifier sender
	out      io.Writer
	backup   func()
}

func (s *eventSink) Handle(ev dispatcher.Event) {
	switch e := ev.(type) {
	case dispatcher.DateChanged:
		fmt.Fprintf(s.out, "%s %s → %s (%s)\n", cli.TitleStyle.Render("New day"), e.OldDate, e.NewDate, e.Decision)
		if s.backup != nil {
			s.backup()
		}
	case dispatcher.AutoSaveOccurred:
		fmt.Fprintf(s.out, "%s %s\n", cli.WarningStyle.Render("Auto-saved"), cli.FormatRecordLine(e.Record))
	case dispatcher.MorningReminderOccurred:
		s.remind(notifier.Message{
			Title: "Morning check-in",
			Text:  e.Message,
			Kind:  notifier.KindMorning,
			Date:  utils.DateOf(e.ScheduledTime),
		})
	case dispatcher.EveningReminderOccurred:
		s.remind(notifier.Message{
			Title: "Evening check-in",
			Text:  e.Message,
			Kind:  notifier.KindEvening,
			Date:  utils.DateOf(e.ScheduledTime),
		})
	}
}

func (s *eventSink) remind(msg notifier.Message) {
	if s.notifier != nil {
		err := s.notifier.Notify(s.ctx, msg)
		if err == nil {
			logger.Debug("Reminder sent", "kind", msg.Kind, "date", msg.Date)
			return
		}
		logger.Warn("Failed to send reminder", "kind", msg.Kind, "error", err)
	}
	fmt.Fprintf(s.out, "%s %s\n", cli.OKStyle.Render("⏰ "+msg.Title+":"), msg.Text)
}
