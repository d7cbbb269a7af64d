// Package config carries the settings shared by the three binaries.
// Values layer: application defaults, then the TOML file, then flags.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is where the binaries look for a config file when -config is
// not given.
const DefaultPath = "email-integration.toml"

// Config is the application configuration.
type Config struct {
	// DBPath is the SQLite file holding the email index.
	DBPath string `toml:"db_path"`
	// RulesPath is the rule collections file (YAML or JSON).
	RulesPath string `toml:"rules_path"`
	// CredentialsDir holds the OAuth client secret and the cached token.
	CredentialsDir string `toml:"credentials_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFile, when set, receives a copy of everything logged to stderr.
	LogFile string `toml:"log_file"`
	// RPS caps outbound Gmail API calls per second.
	RPS int `toml:"rps"`

	Index Index `toml:"index"`
}

// Index tunes the indexer binary.
type Index struct {
	// Senders restricts indexing to mail from these addresses.
	Senders []string `toml:"senders"`
	// MaxCount caps how many messages one run examines.
	MaxCount int `toml:"max_count"`
	// PageSize is the Gmail list page size.
	PageSize int `toml:"page_size"`
}

// Default returns the settings used when neither file nor flags say
// otherwise.
func Default() Config {
	return Config{
		DBPath:         "emails.db",
		RulesPath:      "rules_config.yaml",
		CredentialsDir: os.ExpandEnv("$HOME/.gmailctl"),
		LogLevel:       "info",
		RPS:            4,
		Index: Index{
			MaxCount: 100,
			PageSize: 10,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// fine unless mustExist is set, which callers use when the user named the
// path explicitly.
func Load(path string, mustExist bool) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !mustExist {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
