package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/goserg/chesstable/internal/rating"
)

type Server struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Debug      bool   `toml:"debug_mode"`
	SqliteFile string `toml:"sqlite_file"`
}

type TgBot struct {
	Enabled          bool    `toml:"enabled"`
	TelegramApiToken string  `toml:"telegram_apitoken"`
	AdminIDs         []int64 `toml:"admin_ids"`
}

type Rating struct {
	Algorithm         string  `toml:"algorithm"`
	InitialRating     float64 `toml:"initial_rating"`
	KFactor           float64 `toml:"k_factor"`
	InitialDeviation  float64 `toml:"initial_deviation"`
	MinDeviation      float64 `toml:"min_deviation"`
	MaxDeviation      float64 `toml:"max_deviation"`
	ApproxDeviation   float64 `toml:"approx_deviation"`
	ReturnPeriods     int     `toml:"return_periods"`
	DeviationGrowth   float64 `toml:"deviation_growth"`
	Volatility        float64 `toml:"volatility"`
	AutoCreatePlayers bool    `toml:"auto_create_players"`
}

type Config struct {
	Server Server
	TgBot  TgBot
	Rating Rating
}

func Default() Config {
	s := rating.DefaultSettings()
	return Config{
		Server: Server{
			Host:       "0.0.0.0",
			Port:       3000,
			SqliteFile: "chesstable.sqlite",
		},
		Rating: Rating{
			Algorithm:         "elo",
			InitialRating:     s.InitialRating,
			KFactor:           s.KFactor,
			InitialDeviation:  s.InitialDeviation,
			MinDeviation:      s.MinDeviation,
			MaxDeviation:      s.MaxDeviation,
			ApproxDeviation:   s.ApproxDeviation,
			ReturnPeriods:     s.ReturnPeriods,
			Volatility:        s.Volatility,
			AutoCreatePlayers: true,
		},
	}
}

// New loads configs/server.toml and configs/bot.toml from dir on top of the
// defaults. Missing files are fine, a bad file is not. The bot token can be
// overridden with TELEGRAM_APITOKEN.
func New(dir string) (Config, error) {
	cfg := Default()
	if err := decodeFile(filepath.Join(dir, "server.toml"), &cfg); err != nil {
		return Config{}, err
	}
	if err := decodeFile(filepath.Join(dir, "bot.toml"), &cfg.TgBot); err != nil {
		return Config{}, err
	}
	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		cfg.TgBot.TelegramApiToken = token
	}
	if !cfg.Rating.Valid() {
		return Config{}, fmt.Errorf("unknown algorithm %q", cfg.Rating.Algorithm)
	}
	return cfg, nil
}

func decodeFile(path string, v any) error {
	_, err := toml.DecodeFile(path, v)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (r Rating) Valid() bool {
	switch r.Algorithm {
	case "elo", "glicko", "glicko2":
		return true
	}
	return false
}

// Settings converts the file values into the immutable settings the rating
// engine is built with.
func (r Rating) Settings() rating.Settings {
	return rating.Settings{
		InitialRating:    r.InitialRating,
		KFactor:          r.KFactor,
		InitialDeviation: r.InitialDeviation,
		MinDeviation:     r.MinDeviation,
		MaxDeviation:     r.MaxDeviation,
		ApproxDeviation:  r.ApproxDeviation,
		ReturnPeriods:    r.ReturnPeriods,
		C:                r.DeviationGrowth,
		Volatility:       r.Volatility,
	}
}
