package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/room-booking/internal/booking"
)

// Config captures environment driven configuration values for the booking service.
// A ReconcileInterval of zero disables the background missed check-in sweep.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	ReconcileInterval time.Duration
	StrikeDecayMode   booking.StrikeDecayMode
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// provided values and reporting every invalid entry at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          8080,
		SQLiteDSN:         "file:roombooking.db?_foreign_keys=on",
		ReconcileInterval: time.Minute,
		StrikeDecayMode:   booking.DecayAlways,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	// A zero interval disables the background sweep entirely.
	if intervalValue := strings.TrimSpace(os.Getenv("ROOMBOOKING_RECONCILE_INTERVAL")); intervalValue != "" {
		interval, err := time.ParseDuration(intervalValue)
		if err != nil || interval < 0 {
			invalid = append(invalid, "ROOMBOOKING_RECONCILE_INTERVAL")
		} else {
			cfg.ReconcileInterval = interval
		}
	}

	if modeValue := strings.TrimSpace(os.Getenv("ROOMBOOKING_STRIKE_DECAY_MODE")); modeValue != "" {
		mode := booking.StrikeDecayMode(modeValue)
		if !mode.Valid() {
			invalid = append(invalid, "ROOMBOOKING_STRIKE_DECAY_MODE")
		} else {
			cfg.StrikeDecayMode = mode
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
