package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./district.db" description:"Path to the SQLite database file"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for source ingestion"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"900" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the ingest trigger endpoint (optional)"`

	// Ingestion tuning
	ProbeTimeout         int     `long:"probe-timeout" env:"PROBE_TIMEOUT" default:"7" description:"Feed/homepage fetch timeout in seconds"`
	PageTimeout          int     `long:"page-timeout" env:"PAGE_TIMEOUT" default:"9" description:"Article page fetch timeout in seconds"`
	SummarizerTimeout    int     `long:"summarizer-timeout" env:"SUMMARIZER_TIMEOUT" default:"10" description:"Summarizer call timeout in seconds"`
	ClassifierTimeout    int     `long:"classifier-timeout" env:"CLASSIFIER_TIMEOUT" default:"8" description:"Classifier call timeout in seconds"`
	TitleDedupeThreshold float64 `long:"title-dedupe-threshold" env:"TITLE_DEDUPE_THRESHOLD" default:"0.55" description:"Token-overlap ratio above which a title counts as duplicate"`
	TitleDedupeWindow    int     `long:"title-dedupe-window" env:"TITLE_DEDUPE_WINDOW" default:"500" description:"Number of recent titles compared during dedupe"`
	MaxCandidates        int     `long:"max-candidates" env:"MAX_CANDIDATES" default:"12" description:"Maximum candidate links examined per source"`

	// Derived-field generation
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key; deterministic fallbacks are used when unset"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model used for summaries, topics and headlines"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; DistrictBot/1.2; +https://districtnews.ai)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Indian/Mauritius)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:               raw.DBPath,
		SourcesDir:           raw.SourcesDir,
		Port:                 raw.Port,
		BaseUrl:              raw.BaseUrl,
		WorkerCount:          raw.WorkerCount,
		SchedulerInterval:    raw.SchedulerInterval,
		APIAccessKey:         raw.APIAccessKey,
		ProbeTimeout:         raw.ProbeTimeout,
		PageTimeout:          raw.PageTimeout,
		SummarizerTimeout:    raw.SummarizerTimeout,
		ClassifierTimeout:    raw.ClassifierTimeout,
		TitleDedupeThreshold: raw.TitleDedupeThreshold,
		TitleDedupeWindow:    raw.TitleDedupeWindow,
		MaxCandidates:        raw.MaxCandidates,
		GeminiAPIKey:         raw.GeminiAPIKey,
		GeminiModel:          raw.GeminiModel,
		UserAgent:            raw.UserAgent,
		Timezone:             raw.Timezone,
		Debug:                raw.Debug,
		Version:              GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
