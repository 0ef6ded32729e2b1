package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env                   string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel              slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL           string        `env:"DATABASE_URL"`
	GoogleCredentialsFile string        `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"google_credentials.json"`
	GoogleSheet           string        `env:"GOOGLE_SHEET" envDefault:"AI Influencer Tracker sheet"`
	GoogleWorksheet       string        `env:"GOOGLE_WORKSHEET" envDefault:"Sheet1"`
	GoogleSheetGID        int64         `env:"GOOGLE_SHEET_GID" envDefault:"0"`
	SheetCSVURL           string        `env:"SHEET_CSV_URL"`
	DataSource            string        `env:"DATA_SOURCE"`
	DataFile              string        `env:"DATA_FILE" envDefault:"data/influencers.csv"`
	CacheTTL              time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	SnapshotInterval      time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"10m"`
	TopN                  int           `env:"TOP_N" envDefault:"10"`
	TemplateDir           string        `env:"TEMPLATE_DIR" envDefault:"templates"`
	MaxCSVBytes           int64         `env:"MAX_CSV_BYTES" envDefault:"5000000"`
	RefreshPerMinute      int           `env:"REFRESH_PER_MINUTE" envDefault:"6"`
}

// Load reads an optional .env file and then the process environment.
// It panics on malformed values.
func Load() Config {
	_ = godotenv.Load()
	cfg, err := Parse(nil)
	if err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

// Parse builds a Config from environment; nil means the process environment.
func Parse(environment map[string]string) (Config, error) {
	return env.ParseAsWithOptions[Config](env.Options{Environment: environment})
}

const (
	SourceGoogleSheet = "google_sheet"
	SourceCSVURL      = "csv_url"
	SourceFile        = "file"
)

// SourceKind names which source backs the dashboard. DATA_SOURCE wins when
// set; otherwise a published CSV link is preferred over the Sheets API.
func (c Config) SourceKind() string {
	switch {
	case c.DataSource != "":
		return c.DataSource
	case c.SheetCSVURL != "":
		return SourceCSVURL
	default:
		return SourceGoogleSheet
	}
}
