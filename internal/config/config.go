package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"farmtycoon/internal/app/game"
	"farmtycoon/internal/app/notify"
)

const DefaultTuningFile = "configs/tuning.yaml"

type Config struct {
	HTTPAddr         string
	WSAddr           string
	TickHz           int
	Seed             int64
	SeedPerimeter    bool
	DBDSN            string
	JournalDir       string
	NotifyDurationMs int
	StateInterval    time.Duration
	Tuning           game.Tuning
}

// Load reads the tuning file and then applies FARM_* environment overrides.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (Config, error) {
	env := envReader(getenv)

	path := env.str("FARM_TUNING_FILE", "")
	explicit := path != ""
	if !explicit {
		path = DefaultTuningFile
	}
	tuning, err := LoadTuning(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
		tuning = game.DefaultTuning()
	}

	cfg := Config{
		HTTPAddr:         env.str("FARM_HTTP_ADDR", ":8080"),
		WSAddr:           env.str("FARM_WS_ADDR", ":8081"),
		TickHz:           env.integer("FARM_TICK_HZ", game.DefaultTickHz),
		Seed:             int64(env.integer("FARM_SEED", 0)),
		SeedPerimeter:    env.boolean("FARM_SEED_PERIMETER", tuning.SeedPerimeter),
		DBDSN:            env.str("FARM_DB_DSN", ""),
		JournalDir:       env.str("FARM_JOURNAL_DIR", ""),
		NotifyDurationMs: env.integer("FARM_NOTIFY_DURATION_MS", notify.DefaultDurationMs),
		StateInterval:    time.Duration(env.integer("FARM_WS_STATE_INTERVAL_MS", 200)) * time.Millisecond,
		Tuning:           tuning,
	}
	cfg.Tuning.SeedPerimeter = cfg.SeedPerimeter
	if cfg.TickHz <= 0 {
		return Config{}, fmt.Errorf("FARM_TICK_HZ must be positive, got %d", cfg.TickHz)
	}
	return cfg, nil
}

// LoadTuning overlays a YAML file onto the default tuning, so the file only
// needs the knobs it changes.
func LoadTuning(path string) (game.Tuning, error) {
	t := game.DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	for res, price := range t.Prices {
		if price < 0 {
			return t, fmt.Errorf("%s: negative price for %s", path, res)
		}
	}
	return t, nil
}

type envReader func(string) string

func (e envReader) str(key, fallback string) string {
	v := strings.TrimSpace(e(key))
	if v == "" {
		return fallback
	}
	return v
}

func (e envReader) integer(key string, fallback int) int {
	v := strings.TrimSpace(e(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (e envReader) boolean(key string, fallback bool) bool {
	v := strings.TrimSpace(e(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
