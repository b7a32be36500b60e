// Package main - command-line entry point for the student risk hub.
//
// The hub tracks students' dropout risk from attendance, marks, and
// fee-payment signals. Staff import weekly CSV exports, the reconciler folds
// them into per-student histories, and the risk report highlights who needs
// attention first.
//
// The architecture follows the usual layering:
// - Domain: pure model (student records, risk scoring) without dependencies
// - Application: use-case orchestration (Commands/Queries)
// - Infrastructure: record store implementations, event bus
// - Interface: this CLI
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vidya-hub/student-risk-hub/config"
	"github.com/vidya-hub/student-risk-hub/internal/application/command"
	"github.com/vidya-hub/student-risk-hub/internal/application/query"
	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
	"github.com/vidya-hub/student-risk-hub/internal/infrastructure/messaging"
	filestore "github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/file"
	memorystore "github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/memory"
	postgresstore "github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/postgres"
	redisstore "github.com/vidya-hub/student-risk-hub/internal/infrastructure/persistence/redis"
	"github.com/vidya-hub/student-risk-hub/pkg/logger"
	"github.com/vidya-hub/student-risk-hub/pkg/timeutil"
)

const usage = `student-risk-hub - dropout risk tracking for schools

Usage:
  riskhub import <file.csv>     parse and merge a CSV export
  riskhub report [level]        risk overview (level: high|medium|low)
  riskhub sample                load the bundled demo dataset
  riskhub export [file.json]    write a snapshot of records + config
  riskhub restore <file.json>   replace stored state from a snapshot
  riskhub fees-paid <id>        mark one student's fees as paid

Configuration comes from the environment (.env is honored); see config/.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Output:    os.Stderr,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.LogCaller,
	}).With(logger.String("app", cfg.App.Name))

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open record store", logger.Err(err))
	}
	defer cleanup()

	if warnings := cfg.Risk.Model().Validate(); len(warnings) > 0 {
		for _, w := range warnings {
			log.Warn("risk config: " + w)
		}
	}
	if cfg.Risk.SaveDefaults {
		if err := store.SaveConfig(ctx, cfg.Risk.Model()); err != nil {
			log.Fatal("failed to save risk config", logger.Err(err))
		}
	}

	bus := messaging.NewEventBus(log)
	subscribeNotifier(bus, log)

	if err := run(ctx, os.Args[1], os.Args[2:], store, bus, log); err != nil {
		log.Error("command failed", logger.Err(err))
		os.Exit(1)
	}
}

// run dispatches one subcommand.
func run(ctx context.Context, cmd string, args []string, store student.Store, bus *messaging.EventBus, log *logger.Logger) error {
	switch cmd {
	case "import":
		if len(args) != 1 {
			return fmt.Errorf("usage: riskhub import <file.csv>")
		}
		return runImport(ctx, args[0], store, bus, log)

	case "report":
		level := risk.Level("")
		if len(args) == 1 {
			parsed, ok := risk.ParseLevel(args[0])
			if !ok {
				return fmt.Errorf("unknown risk level %q (want high, medium, or low)", args[0])
			}
			level = parsed
		}
		return runReport(ctx, level, store, bus)

	case "sample":
		handler := command.NewLoadSampleDataHandler(store, log)
		total, err := handler.Handle(ctx, timeutil.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Sample data loaded; %d students tracked.\n", total)
		return nil

	case "export":
		return runExport(ctx, args, store)

	case "restore":
		if len(args) != 1 {
			return fmt.Errorf("usage: riskhub restore <file.json>")
		}
		return runRestore(ctx, args[0], store)

	case "fees-paid":
		if len(args) != 1 {
			return fmt.Errorf("usage: riskhub fees-paid <student-id>")
		}
		handler := command.NewStudentHandler(store, bus, log)
		rec, err := handler.MarkFeesPaid(ctx, args[0], timeutil.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Fees marked paid for %s.\n", rec.Name)
		return nil

	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBCOMMANDS
// ══════════════════════════════════════════════════════════════════════════════

func runImport(ctx context.Context, path string, store student.Store, bus *messaging.EventBus, log *logger.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	handler := command.NewImportCSVHandler(store, bus, log)
	result, err := handler.Handle(ctx, command.ImportCSVCommand{
		SourceName: path,
		RawText:    string(raw),
		Timestamp:  timeutil.Now(),
	})
	if err != nil {
		return err
	}

	for _, e := range result.Parse.Errors {
		if e.Row == 0 {
			fmt.Printf("  %s: %s (%q)\n", e.Field, e.Message, e.Value)
		} else {
			fmt.Printf("  row %d, %s: %s (%q)\n", e.Row, e.Field, e.Message, e.Value)
		}
	}

	if !result.Persisted {
		return fmt.Errorf("import rejected: %d error(s), nothing was saved", len(result.Parse.Errors))
	}

	fmt.Printf("Imported %d students; %d tracked in total.\n", result.Parse.StudentsImported, result.TotalAfter)
	return nil
}

func runReport(ctx context.Context, level risk.Level, store student.Store, bus *messaging.EventBus) error {
	handler := query.NewRiskOverviewHandler(store, bus)
	overview, err := handler.Handle(ctx, query.RiskOverviewQuery{FilterLevel: level})
	if err != nil {
		return err
	}

	for _, w := range overview.ConfigWarnings {
		fmt.Printf("warning: %s\n", w)
	}

	fmt.Printf("Risk report, week of %s\n", timeutil.FormatDate(timeutil.StartOfWeek(timeutil.Now())))
	fmt.Printf("Students: %d total | %d high | %d medium | %d low\n\n",
		overview.Summary.Total, overview.Summary.High, overview.Summary.Medium, overview.Summary.Low)

	for _, as := range overview.Students {
		rec := as.Student
		fmt.Printf("%-8s %6.1f  %-24s att %5.1f%%  marks %5.1f%%  fees %-3s  updated %s\n",
			as.Assessment.Level, as.Assessment.Score, rec.Name,
			rec.AttendancePercent, rec.MarksPercent, yesNo(rec.FeesPaid),
			timeutil.FormatDate(rec.LastUpdated))
	}
	return nil
}

func runExport(ctx context.Context, args []string, store student.Store) error {
	data, err := store.ExportSnapshot(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(data)
		return nil
	}
	if err := os.WriteFile(args[0], []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	fmt.Printf("Snapshot written to %s.\n", args[0])
	return nil
}

func runRestore(ctx context.Context, path string, store student.Store) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := store.ImportSnapshot(ctx, string(data)); err != nil {
		if shared.IsMalformedSnapshot(err) {
			return fmt.Errorf("%s is not a valid snapshot: %w", path, err)
		}
		return err
	}
	fmt.Printf("Snapshot %s restored.\n", path)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// WIRING
// ══════════════════════════════════════════════════════════════════════════════

// openStore constructs the record store selected by configuration.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (student.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Debug("using in-memory store")
		return memorystore.NewStore(), noop, nil

	case config.BackendFile:
		log.Debug("using file store", logger.String("path", cfg.Store.FilePath))
		s, err := filestore.NewStore(cfg.Store.FilePath)
		return s, noop, err

	case config.BackendRedis:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
		defer cancel()

		if cfg.Store.RedisURL != "" {
			s, err := redisstore.NewStoreFromURL(connectCtx, cfg.Store.RedisURL)
			if err != nil {
				return nil, noop, err
			}
			return s, func() { _ = s.Close() }, nil
		}
		rc := redisstore.DefaultConfig()
		rc.Host = cfg.Store.RedisHost
		rc.Port = cfg.Store.RedisPort
		rc.Password = cfg.Store.RedisPassword
		rc.DB = cfg.Store.RedisDB
		s, err := redisstore.NewStore(connectCtx, rc)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
		defer cancel()

		s, err := postgresstore.NewStore(connectCtx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// subscribeNotifier wires the event surface that replaces the original UI's
// toasts: operational events become log lines.
func subscribeNotifier(bus *messaging.EventBus, log *logger.Logger) {
	bus.Subscribe(shared.EventImportCompleted, func(e shared.Event) {
		log.Info("notification: import completed", logger.F("payload", e.Payload()))
	})
	bus.Subscribe(shared.EventImportFailed, func(e shared.Event) {
		log.Warn("notification: import rejected", logger.F("payload", e.Payload()))
	})
	bus.Subscribe(shared.EventHighRiskDetected, func(e shared.Event) {
		log.Warn("notification: student at high risk", logger.F("payload", e.Payload()))
	})
	bus.Subscribe(shared.EventFeesMarkedPaid, func(e shared.Event) {
		log.Info("notification: fees marked paid", logger.F("payload", e.Payload()))
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
