package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Addarsh/Email-Integration/internal/config"
	"github.com/Addarsh/Email-Integration/internal/index"
	"github.com/Addarsh/Email-Integration/internal/rate"
	"github.com/Addarsh/Email-Integration/internal/runtime"
	"github.com/Addarsh/Email-Integration/internal/store"
)

type indexConfig struct {
	configPath string
	dbPath     string
	credsDir   string
	logLevel   string
	logFile    string
	senders    string
	maxCount   int
	pageSize   int
	rps        int
}

func main() {
	cfg := parseIndexFlags()
	if err := run(cfg); err != nil {
		runtime.DefaultLogger(slog.LevelInfo).Error("index-emails failed", "error", err)
		os.Exit(1)
	}
}

func parseIndexFlags() indexConfig {
	configPath := flag.String("config", config.DefaultPath, "TOML config file")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	credsDir := flag.String("credentials", "", "OAuth credentials directory (overrides config)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	logFile := flag.String("log-file", "", "also append logs to this file (overrides config)")
	senders := flag.String("senders", "", "comma separated sender addresses to index")
	maxCount := flag.Int("max-count", 0, "max messages to examine (overrides config)")
	pageSize := flag.Int("page-size", 0, "Gmail list page size (overrides config)")
	rps := flag.Int("rps", 0, "max requests per second (overrides config)")
	flag.Parse()

	return indexConfig{
		configPath: *configPath,
		dbPath:     *dbPath,
		credsDir:   *credsDir,
		logLevel:   *logLevel,
		logFile:    *logFile,
		senders:    *senders,
		maxCount:   *maxCount,
		pageSize:   *pageSize,
		rps:        *rps,
	}
}

func run(cfg indexConfig) error {
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
	if cfg.logLevel != "" {
		app.LogLevel = cfg.logLevel
	}
	if cfg.logFile != "" {
		app.LogFile = cfg.logFile
	}
	if cfg.senders != "" {
		app.Index.Senders = splitList(cfg.senders)
	}
	if cfg.maxCount > 0 {
		app.Index.MaxCount = cfg.maxCount
	}
	if cfg.pageSize > 0 {
		app.Index.PageSize = cfg.pageSize
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

	st, err := store.Open(ctx, app.DBPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := runtime.NewGmailClient(ctx, app.CredentialsDir, runtime.ScopeReadonly)
	if err != nil {
		return fmt.Errorf("create gmail client: %w", err)
	}

	svc := index.NewService(client, st, rate.NewPacer(app.RPS), logger)
	n, err := svc.Run(ctx, index.Options{
		Senders:  app.Index.Senders,
		MaxCount: app.Index.MaxCount,
		PageSize: app.Index.PageSize,
	})
	if err != nil {
		return fmt.Errorf("index emails: %w", err)
	}
	logger.Info("indexing complete", "indexed", n)
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

func splitList(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
