package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string

	// server mode
	Addr        string
	CORSOrigins []string

	// one-shot mode, used when URL is set
	URL     string
	MinFreq int
	Chart   string
	Out     string

	StopwordsPath string

	FetchBackend string // http | chrome
	FetchTimeout time.Duration
	UserAgent    string

	Segmenter   string // gse | fields
	UserDict    string
	StemEnglish bool

	Store   string // inmem | sqlite
	DBPath  string
	ResetDB bool
}

// LoadConfig reads .env and the environment for defaults, then lets command
// line flags override them.
func LoadConfig(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("WORDFREQ_ENV", "development"),
		LogLevel:      getEnv("WORDFREQ_LOG_LEVEL", ""),
		Addr:          getEnv("WORDFREQ_ADDR", ":8080"),
		CORSOrigins:   getEnvList("WORDFREQ_CORS_ORIGINS"),
		MinFreq:       1,
		Chart:         WordCloud.String(),
		StopwordsPath: getEnv("WORDFREQ_STOPWORDS", "stopwords.txt"),
		FetchBackend:  getEnv("WORDFREQ_FETCH_BACKEND", "http"),
		FetchTimeout:  getEnvDuration("WORDFREQ_FETCH_TIMEOUT", defaultFetchTimeout),
		UserAgent:     getEnv("WORDFREQ_USER_AGENT", defaultUserAgent),
		Segmenter:     getEnv("WORDFREQ_SEGMENTER", "gse"),
		UserDict:      getEnv("WORDFREQ_DICT", ""),
		StemEnglish:   getEnvBool("WORDFREQ_STEM_ENGLISH", false),
		Store:         getEnv("WORDFREQ_STORE", "inmem"),
		DBPath:        getEnv("WORDFREQ_DB", "wordfreq.db"),
	}

	fs := flag.NewFlagSet("wordfreq", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address for the web front end")
	fs.StringVar(&cfg.URL, "url", "", "analyze this URL once and exit instead of serving")
	fs.IntVar(&cfg.MinFreq, "min-freq", cfg.MinFreq, "drop words seen fewer times than this (1-10)")
	fs.StringVar(&cfg.Chart, "chart", cfg.Chart, "chart kind: wordcloud | bar | line | pie | radar | scatter | funnel")
	fs.StringVar(&cfg.Out, "out", "", "write the rendered chart to this HTML file (with -url)")
	fs.StringVar(&cfg.StopwordsPath, "stopwords", cfg.StopwordsPath, "newline-delimited stopword file")
	fs.StringVar(&cfg.FetchBackend, "fetch", cfg.FetchBackend, "fetch backend: http | chrome")
	fs.DurationVar(&cfg.FetchTimeout, "timeout", cfg.FetchTimeout, "fetch timeout")
	fs.StringVar(&cfg.Segmenter, "segmenter", cfg.Segmenter, "segmenter: gse | fields")
	fs.StringVar(&cfg.UserDict, "dict", cfg.UserDict, "extra segmentation dictionary file")
	fs.BoolVar(&cfg.StemEnglish, "stem", cfg.StemEnglish, "stem English words before counting")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "document store: inmem | sqlite")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database file (when -store=sqlite)")
	fs.BoolVar(&cfg.ResetDB, "reset", false, "drop & recreate sqlite tables on startup")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug | info | warn | error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel(cfg.Env)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.FetchBackend {
	case "http", "chrome":
	default:
		return fmt.Errorf("unknown fetch backend %q", c.FetchBackend)
	}
	switch c.Store {
	case "inmem", "sqlite":
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	switch c.Segmenter {
	case "gse", "fields":
	default:
		return fmt.Errorf("unknown segmenter %q", c.Segmenter)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.URL != "" {
		if c.MinFreq < minFreqLow || c.MinFreq > minFreqHigh {
			return fmt.Errorf("min-freq must be between %d and %d", minFreqLow, minFreqHigh)
		}
		if _, err := ParseChartKind(c.Chart); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func defaultLogLevel(env string) string {
	if strings.EqualFold(env, "production") {
		return "info"
	}
	return "debug"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	// bare numbers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
