package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	appDirName            = "smartplanner"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tasks.db"
	DefaultSnapshotName   = "tasks.json"
)

type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Toggle   string `toml:"toggle"`
	Delete   string `toml:"delete"`
	Collapse string `toml:"collapse"`
	NextView string `toml:"next_view"`
	Import   string `toml:"import"`
	Confirm  string `toml:"confirm"`
	Cancel   string `toml:"cancel"`
}

type Config struct {
	DBPath           string `toml:"db_path"`
	SnapshotPath     string `toml:"snapshot_path"`
	RemoteConfigURL  string `toml:"remote_config_url"`
	CalendarID       string `toml:"calendar_id"`
	ReminderLeadMins int    `toml:"reminder_lead_minutes"`
	Keys             Keymap `toml:"keys"`
}

// ConfigDir is where the config file, database, snapshot and calendar
// credentials live.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appDirName)
}

func ResolveConfigPath() string {
	return filepath.Join(ConfigDir(), DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(ConfigDir(), DefaultDBName)
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = filepath.Join(ConfigDir(), DefaultSnapshotName)
	}
	if cfg.ReminderLeadMins <= 0 {
		cfg.ReminderLeadMins = 60
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:           filepath.Join(ConfigDir(), DefaultDBName),
		SnapshotPath:     filepath.Join(ConfigDir(), DefaultSnapshotName),
		CalendarID:       "primary",
		ReminderLeadMins: 60,
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Up:       "k",
			Down:     "j",
			Toggle:   " ",
			Delete:   "d",
			Collapse: "c",
			NextView: "tab",
			Import:   "i",
			Confirm:  "enter",
			Cancel:   "esc",
		},
	}
}
