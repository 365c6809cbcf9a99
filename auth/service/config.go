package service

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Rule struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Method []string `toml:"method"`
	Allow  []string `toml:"allow"`
}

type Config struct {
	SqliteFile     string `toml:"sqlite_file"`
	Token          string `toml:"token"`
	Expiration     string `toml:"expiration"`
	RootPassword   string `toml:"root_password"`
	PasswordPepper string `toml:"password_pepper"`
	Rules          []Rule `toml:"rules"`
}

func Default() Config {
	return Config{
		SqliteFile:   "auth.sqlite",
		Token:        "chesstable-dev-token",
		Expiration:   "24h",
		RootPassword: "root",
		Rules: []Rule{
			{
				Name:   "public pages",
				Path:   `^/api(/|/games-list|/roster|/players/.*)?$`,
				Method: []string{"GET"},
				Allow:  []string{"*"},
			},
			{
				Name:   "record games",
				Path:   `^/api/games$`,
				Method: []string{"*"},
				Allow:  []string{"admin", "moderator"},
			},
			{
				Name:   "manage players",
				Path:   `^/api/players$`,
				Method: []string{"*"},
				Allow:  []string{"admin"},
			},
		},
	}
}

// Load reads configs/auth.toml from dir on top of the defaults. A missing
// file keeps the defaults; AUTH_ROOT_PASSWORD overrides the root password.
func Load(dir string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(filepath.Join(dir, "auth.toml"), &cfg)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	if pass := os.Getenv("AUTH_ROOT_PASSWORD"); pass != "" {
		cfg.RootPassword = pass
	}
	return cfg, nil
}
