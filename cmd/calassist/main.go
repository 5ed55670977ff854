package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calassist/internal/classify"
	"calassist/internal/config"
	"calassist/internal/engine"
	appLog "calassist/internal/log"
	"calassist/internal/remind"
	"calassist/internal/store"
)

// flagConfig holds CLI flag values for the demo runner. The scheduling
// core itself is a library; this binary stands in for the surrounding
// calendar application.
type flagConfig struct {
	configPath  string
	title       string
	description string
	watch       bool
	verbose     bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"business_hours", fmt.Sprintf("%02d:00-%02d:00", conf.BusinessHours.Start, conf.BusinessHours.End),
		"work_days", len(conf.WorkDays),
		"reminder_lead_minutes", conf.ReminderLeadMinutes,
		"classifier_endpoint", conf.Classifier.Endpoint != "",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	var remote classify.RemoteClient
	if conf.Classifier.Endpoint != "" {
		remote = classify.NewHTTPClient(conf.Classifier.Endpoint, conf.ClassifierTimeout())
	}
	classifier := classify.New(remote, conf.ClassifierTimeout())

	reminders := remind.NewScheduler(&stderrNotifier{}, conf.ReminderLead())
	eng := engine.New(conf, store.NewMemory(), classifier, reminders)

	suggestion, err := eng.SuggestSlots(ctx, flags.title, flags.description, time.Now())
	if err != nil {
		appLog.Error("suggestion failed", err, "title", flags.title)
		os.Exit(1)
	}

	cls := suggestion.Classification
	fmt.Printf("%s  (%s, confidence %.2f)\n", cls.Category, cls.Source, cls.Confidence)
	fmt.Printf("  %s\n", cls.Rationale)
	if len(suggestion.Candidates) == 0 {
		fmt.Println("no suggestion available")
	}
	for i, c := range suggestion.Candidates {
		fmt.Printf("%d. [%s] %s — %s (score %.0f)\n",
			i+1, c.Priority,
			c.Interval.Start.Format("Mon Jan 2 15:04"),
			c.Interval.End.Format("15:04"),
			c.Score)
	}

	if flags.watch {
		if err := reminders.Start(""); err != nil {
			appLog.Error("failed to start reminder sweep", err)
			os.Exit(1)
		}
		<-ctx.Done()
		reminders.Stop()
	}

	appLog.Info("calassist exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file")
	flag.StringVar(&cfg.title, "title", "Team Meeting", "Activity title to classify")
	flag.StringVar(&cfg.description, "desc", "", "Activity description")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep running with the reminder sweep active")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calassist.yaml"
	}
	return home + "/.config/calassist/config.yaml"
}

// stderrNotifier is a stand-in for the desktop notification surface.
type stderrNotifier struct{}

func (*stderrNotifier) Schedule(handleID, title, body string, firesAt time.Time) error {
	appLog.Info("notification scheduled",
		"handle_id", handleID, "title", title, "body", body,
		"fires_at", firesAt.Format(time.RFC3339))
	return nil
}

func (*stderrNotifier) Cancel(handleID string) error {
	appLog.Info("notification cancelled", "handle_id", handleID)
	return nil
}
