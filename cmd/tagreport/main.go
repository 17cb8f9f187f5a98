package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/tagreport/internal/config"
	"github.com/rewired-gh/tagreport/internal/correlation"
	"github.com/rewired-gh/tagreport/internal/logger"
	"github.com/rewired-gh/tagreport/internal/models"
	"github.com/rewired-gh/tagreport/internal/store"
	"github.com/rewired-gh/tagreport/internal/telegram"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	seedDemo   = flag.Bool("seed", false, "Seed the store with demo events before analyzing")
)

const (
	storeFilePermissions = os.FileMode(0o644)
	storeDirPermissions  = os.FileMode(0o755)
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Configuration loaded from %s", *configPath)

	// Initialize store
	st := store.New(cfg.Store.MaxEventsPerKind, cfg.Store.FilePath, storeFilePermissions, storeDirPermissions)
	if err := st.Load(); err != nil {
		logger.Warn("Failed to load persisted events, starting fresh: %v", err)
	}

	if *seedDemo {
		if err := seedDemoEvents(st, cfg.Analysis.SubjectID); err != nil {
			logger.Fatal("Failed to seed demo events: %v", err)
		}
		logger.Info("Seeded demo events (feed=%d, diaper=%d, custom=%d)",
			st.CountEvents(models.KindFeed),
			st.CountEvents(models.KindDiaper),
			st.CountEvents(models.KindCustom))
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, stopping analysis...")
		cancel()
	}()

	if err := run(ctx, cfg, st); err != nil {
		logger.Fatal("Analysis failed: %v", err)
	}

	if err := st.RotateEvents(); err != nil {
		logger.Warn("Failed to rotate events: %v", err)
	}
	if err := st.Save(); err != nil {
		logger.Warn("Failed to persist events: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, st *store.Store) error {
	engine := correlation.New(st)

	interval, err := cfg.Analysis.Interval(time.Now())
	if err != nil {
		return err
	}
	target := cfg.Analysis.Target.Target()

	hashtags := cfg.Analysis.Hashtags
	if len(hashtags) == 0 {
		var fetchErrs []correlation.FetchError
		hashtags, fetchErrs, err = engine.FetchAllHashtags(ctx, interval, cfg.Analysis.SubjectID)
		if err != nil {
			return err
		}
		for _, fe := range fetchErrs {
			logger.Warn("Hashtag scan degraded: %v", fe)
		}
	}
	logger.Info("Analyzing %d hashtags over [%s, %s) with window %v",
		len(hashtags),
		interval.Start.Format(time.RFC3339),
		interval.End.Format(time.RFC3339),
		cfg.Analysis.Window)

	results, fetchErrs, err := engine.Analyze(ctx, hashtags, target, cfg.Analysis.Window, interval, cfg.Analysis.SubjectID)
	if err != nil {
		return err
	}
	for _, fe := range fetchErrs {
		logger.Warn("Analysis degraded: %v", fe)
	}

	printReport(results)

	if cfg.Telegram.Enabled {
		client, err := telegram.NewClient(
			cfg.Telegram.BotToken,
			cfg.Telegram.ChatID,
			cfg.Telegram.MaxRetries,
			cfg.Telegram.RetryDelayBase,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram client: %w", err)
		}
		if err := client.Send(significantOnly(results), target, cfg.Analysis.Window); err != nil {
			logger.Error("Failed to deliver Telegram report: %v", err)
		} else {
			logger.Info("Telegram report delivered")
		}
	}

	return nil
}

// printReport writes the ranked results to stdout.
func printReport(results []models.CorrelationResult) {
	if len(results) == 0 {
		fmt.Println("No hashtags analyzed.")
		return
	}

	fmt.Printf("%-20s %10s %10s %8s %12s %8s %8s\n",
		"HASHTAG", "TOTAL", "MATCHED", "PCT", "AVG(ml)", "COEFF", "P")
	for _, r := range results {
		avg := "-"
		if r.AverageValue != nil {
			avg = fmt.Sprintf("%.1f", *r.AverageValue)
		}
		marker := " "
		if r.Significant() {
			marker = "*"
		}
		fmt.Printf("%-20s %10d %10d %7.0f%% %12s %8.3f %7.3f%s\n",
			"#"+r.Hashtag, r.TotalCount, r.CorrelatedCount, r.Percentage*100,
			avg, r.CorrelationCoefficient, r.PValue, marker)
	}
}

func significantOnly(results []models.CorrelationResult) []models.CorrelationResult {
	var out []models.CorrelationResult
	for _, r := range results {
		if r.Significant() {
			out = append(out, r)
		}
	}
	return out
}

// seedDemoEvents loads a deterministic sample day pattern: morning feeds
// tagged #slowflow followed by fuss events, plus untagged afternoon feeds
// with measured amounts. Useful for trying the binary and the feed-amount
// targets without exporting real tracking data.
func seedDemoEvents(st *store.Store, subjectID string) error {
	if subjectID == "" {
		subjectID = "demo-subject"
	}
	base := time.Now().AddDate(0, 0, -14)

	for day := 0; day < 14; day++ {
		morning := base.AddDate(0, 0, day).Truncate(time.Hour)

		feed := models.NewTaggedEvent(uuid.New().String(), models.KindFeed, subjectID, morning, "morning bottle #slowflow")
		amount := 120.0
		feed.Amount = &amount
		feed.AmountUnit = models.UnitMilliliters
		if err := st.AddEvent(&feed); err != nil {
			return err
		}

		fuss := models.NewTaggedEvent(uuid.New().String(), models.KindCustom, subjectID, morning.Add(20*time.Minute), "")
		fuss.CustomTypeID = "fussy"
		if err := st.AddEvent(&fuss); err != nil {
			return err
		}

		afternoon := morning.Add(6 * time.Hour)
		feed2 := models.NewTaggedEvent(uuid.New().String(), models.KindFeed, subjectID, afternoon, "afternoon bottle")
		amount2 := 90.0
		feed2.Amount = &amount2
		feed2.AmountUnit = models.UnitMilliliters
		if err := st.AddEvent(&feed2); err != nil {
			return err
		}

		diaper := models.NewTaggedEvent(uuid.New().String(), models.KindDiaper, subjectID, afternoon.Add(2*time.Hour), "#wet")
		if err := st.AddEvent(&diaper); err != nil {
			return err
		}
	}

	return nil
}
