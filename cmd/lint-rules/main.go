package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Addarsh/Email-Integration/internal/config"
	"github.com/Addarsh/Email-Integration/internal/rules"
	"github.com/Addarsh/Email-Integration/internal/runtime"
)

type lintConfig struct {
	configPath string
	rulesPath  string
	failOn     string
}

func main() {
	cfg := parseLintFlags()
	if err := run(cfg); err != nil {
		runtime.DefaultLogger(slog.LevelInfo).Error("lint-rules failed", "error", err)
		os.Exit(1)
	}
}

func parseLintFlags() lintConfig {
	configPath := flag.String("config", config.DefaultPath, "TOML config file")
	rulesPath := flag.String("rules", "", "rule collections file (overrides config)")
	failOn := flag.String("fail-on", "match-all,no-action,conflict", "comma separated lint failures")
	flag.Parse()

	return lintConfig{
		configPath: *configPath,
		rulesPath:  *rulesPath,
		failOn:     *failOn,
	}
}

func run(cfg lintConfig) error {
	app, err := config.Load(cfg.configPath, isFlagSet("config"))
	if err != nil {
		return err
	}
	if cfg.rulesPath != "" {
		app.RulesPath = cfg.rulesPath
	}

	doc, err := rules.Load(app.RulesPath)
	if err != nil {
		return err
	}

	rep := rules.Lint(doc)
	if _, err := os.Stdout.WriteString(rep.HumanSummary()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if rep.ShouldFail(rules.ParseFailOn(cfg.failOn)) {
		return fmt.Errorf("lint failures matched: %s", cfg.failOn)
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
