package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Addarsh/Email-Integration/internal/config"
	"github.com/Addarsh/Email-Integration/internal/process"
	"github.com/Addarsh/Email-Integration/internal/rate"
	"github.com/Addarsh/Email-Integration/internal/rules"
	"github.com/Addarsh/Email-Integration/internal/runtime"
	"github.com/Addarsh/Email-Integration/internal/store"
)

type processConfig struct {
	configPath string
	dbPath     string
	credsDir   string
	rulesPath  string
	logLevel   string
	logFile    string
	rps        int
	dryRun     bool
}

func main() {
	cfg := parseProcessFlags()
	if err := run(cfg); err != nil {
		runtime.DefaultLogger(slog.LevelInfo).Error("process-emails failed", "error", err)
		os.Exit(1)
	}
}

func parseProcessFlags() processConfig {
	configPath := flag.String("config", config.DefaultPath, "TOML config file")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	credsDir := flag.String("credentials", "", "OAuth credentials directory (overrides config)")
	rulesPath := flag.String("rules", "", "rule collections file (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	logFile := flag.String("log-file", "", "also append logs to this file (overrides config)")
	rps := flag.Int("rps", 0, "max requests per second (overrides config)")
	dryRun := flag.Bool("dry-run", false, "log planned changes; skip modifications")
	flag.Parse()

	return processConfig{
		configPath: *configPath,
		dbPath:     *dbPath,
		credsDir:   *credsDir,
		rulesPath:  *rulesPath,
		logLevel:   *logLevel,
		logFile:    *logFile,
		rps:        *rps,
		dryRun:     *dryRun,
	}
}

func run(cfg processConfig) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := config.Load(cfg.configPath, isFlagSet("config"))
	if err != nil {
		return err
	}
	if cfg.dbPath != "" {
		app.DBPath = cfg.dbPath
	}
	if cfg.credsDir != "" {
		app.CredentialsDir = cfg.credsDir
	}
	if cfg.rulesPath != "" {
		app.RulesPath = cfg.rulesPath
	}
	if cfg.logLevel != "" {
		app.LogLevel = cfg.logLevel
	}
	if cfg.logFile != "" {
		app.LogFile = cfg.logFile
	}
	if cfg.rps > 0 {
		app.RPS = cfg.rps
	}

	level, err := runtime.ParseLevel(app.LogLevel)
	if err != nil {
		return err
	}
	logger := runtime.DefaultLogger(level)
	if app.LogFile != "" {
		teed, logClose, err := runtime.FileLogger(level, app.LogFile)
		if err != nil {
			return err
		}
		defer logClose.Close()
		logger = teed
	}

	doc, err := rules.Load(app.RulesPath)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, app.DBPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := runtime.NewGmailClient(ctx, app.CredentialsDir, runtime.ScopeModify)
	if err != nil {
		return fmt.Errorf("create gmail client: %w", err)
	}

	svc := process.NewService(client, st, rate.NewPacer(app.RPS), logger)
	if err := svc.Run(ctx, doc, process.Options{DryRun: cfg.dryRun}); err != nil {
		return fmt.Errorf("process emails: %w", err)
	}
	return nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
