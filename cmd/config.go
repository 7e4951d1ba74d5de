package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/sumwatshade/fueldash/cmd/fuel"
	"github.com/sumwatshade/fueldash/cmd/mapview"
)

// Config is the resolved runtime configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	DefaultFuel fuel.Type
	Center      mapview.Camera
	FocusZoom   int
	FocusFor    time.Duration
	PopupDelay  time.Duration
	NearestM    float64
	LogFile     string
	LogLevel    slog.Level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://127.0.0.1:5000")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("fuel.default", string(fuel.Default))
	// Sydney CBD
	v.SetDefault("map.center_lat", -33.8688)
	v.SetDefault("map.center_lng", 151.2093)
	v.SetDefault("map.zoom", 11)
	v.SetDefault("focus.zoom", 15)
	v.SetDefault("focus.duration", "1500ms")
	v.SetDefault("focus.popup_delay", "300ms")
	v.SetDefault("nearest.max_meters", 75)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// loadConfig reads and validates settings from v.
func loadConfig(v *viper.Viper) (Config, error) {
	f, err := fuel.Parse(v.GetString("fuel.default"))
	if err != nil {
		return Config{}, fmt.Errorf("fuel.default: %w", err)
	}
	base := strings.TrimSpace(v.GetString("api.base_url"))
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("api.base_url must be an absolute URL, got %q", base)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return Config{}, fmt.Errorf("log.level: %w", err)
	}

	cfg := Config{
		BaseURL:     base,
		Timeout:     v.GetDuration("api.timeout"),
		DefaultFuel: f,
		Center: mapview.Camera{
			Lat:  v.GetFloat64("map.center_lat"),
			Lng:  v.GetFloat64("map.center_lng"),
			Zoom: float64(v.GetInt("map.zoom")),
		},
		FocusZoom:  v.GetInt("focus.zoom"),
		FocusFor:   v.GetDuration("focus.duration"),
		PopupDelay: v.GetDuration("focus.popup_delay"),
		NearestM:   v.GetFloat64("nearest.max_meters"),
		LogFile:    v.GetString("log.file"),
		LogLevel:   level,
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.FocusFor <= 0 {
		errs = append(errs, errors.New("focus.duration must be positive"))
	}
	if c.PopupDelay < 0 {
		errs = append(errs, errors.New("focus.popup_delay cannot be negative"))
	}
	if c.FocusZoom < 1 || c.FocusZoom > 19 {
		errs = append(errs, fmt.Errorf("focus.zoom must be within 1..19, got %d", c.FocusZoom))
	}
	if c.Center.Zoom < 1 || c.Center.Zoom > 19 {
		errs = append(errs, fmt.Errorf("map.zoom must be within 1..19, got %.0f", c.Center.Zoom))
	}
	if c.NearestM < 0 {
		errs = append(errs, errors.New("nearest.max_meters cannot be negative"))
	}
	return errors.Join(errs...)
}

// newLogger writes to the configured file; the terminal belongs to the UI,
// so without a file logs are dropped. The returned closer is never nil.
func newLogger(c Config) (*slog.Logger, io.Closer, error) {
	if c.LogFile == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: c.LogLevel})), f, nil
}
