package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BusinessHours is the configured weekday working range, in whole hours
// of the local day ([Start, End), 24h clock).
type BusinessHours struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// PreferredDuration holds default event lengths (minutes) per category.
type PreferredDuration struct {
	Business int `yaml:"business" json:"business"`
	Hobby    int `yaml:"hobby" json:"hobby"`
}

// ClassifierConfig points at the remote inference collaborator.
type ClassifierConfig struct {
	// Endpoint is the HTTP URL of the classification service. Empty
	// means remote classification is disabled and only the local
	// scorer runs.
	Endpoint string `yaml:"endpoint" json:"endpoint"`
	// TimeoutSeconds bounds the wait on a remote call before the local
	// fallback takes over.
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// SuggestionConfig tunes the slot generator walk.
type SuggestionConfig struct {
	SearchDays   int `yaml:"search_days" json:"search_days"`
	StepMinutes  int `yaml:"step_minutes" json:"step_minutes"`
	MaxResults   int `yaml:"max_results" json:"max_results"`
	EveningStart int `yaml:"evening_start" json:"evening_start"`
	EveningEnd   int `yaml:"evening_end" json:"evening_end"`
	// DayStart/DayEnd bound the unrestricted hours used for
	// hobby/personal slots on non-work days.
	DayStart int `yaml:"day_start" json:"day_start"`
	DayEnd   int `yaml:"day_end" json:"day_end"`
}

// Config is the top-level preferences document consumed by the
// suggestion engine. It is read-only input at runtime; the surrounding
// application owns edits.
type Config struct {
	// Timezone is the IANA timezone used for slot generation
	// (e.g. "Europe/Berlin"). Empty means the process-local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	BusinessHours BusinessHours `yaml:"business_hours" json:"business_hours"`

	// WorkDays lists lowercase weekday names treated as working days.
	WorkDays []string `yaml:"work_days" json:"work_days"`

	PreferredDuration PreferredDuration `yaml:"preferred_duration" json:"preferred_duration"`

	// ReminderLeadMinutes is how far before an event start its
	// notification fires.
	ReminderLeadMinutes int `yaml:"reminder_lead_minutes" json:"reminder_lead_minutes"`

	Classifier ClassifierConfig `yaml:"classifier" json:"classifier"`

	Suggestions SuggestionConfig `yaml:"suggestions" json:"suggestions"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone: "",
		BusinessHours: BusinessHours{
			Start: 9,
			End:   17,
		},
		WorkDays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		PreferredDuration: PreferredDuration{
			Business: 60,
			Hobby:    90,
		},
		ReminderLeadMinutes: 15,
		Classifier: ClassifierConfig{
			Endpoint:       "",
			TimeoutSeconds: 5,
		},
		Suggestions: SuggestionConfig{
			SearchDays:   14,
			StepMinutes:  30,
			MaxResults:   5,
			EveningStart: 18,
			EveningEnd:   22,
			DayStart:     8,
			DayEnd:       22,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.BusinessHours.Start <= 0 || c.BusinessHours.Start > 23 {
		c.BusinessHours.Start = def.BusinessHours.Start
	}
	if c.BusinessHours.End <= c.BusinessHours.Start || c.BusinessHours.End > 24 {
		c.BusinessHours.End = def.BusinessHours.End
	}
	if len(c.WorkDays) == 0 {
		c.WorkDays = append([]string(nil), def.WorkDays...)
	}
	if c.PreferredDuration.Business <= 0 {
		c.PreferredDuration.Business = def.PreferredDuration.Business
	}
	if c.PreferredDuration.Hobby <= 0 {
		c.PreferredDuration.Hobby = def.PreferredDuration.Hobby
	}
	if c.ReminderLeadMinutes <= 0 {
		c.ReminderLeadMinutes = def.ReminderLeadMinutes
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		c.Classifier.TimeoutSeconds = def.Classifier.TimeoutSeconds
	}

	s := &c.Suggestions
	ds := def.Suggestions
	if s.SearchDays <= 0 {
		s.SearchDays = ds.SearchDays
	}
	if s.StepMinutes <= 0 {
		s.StepMinutes = ds.StepMinutes
	}
	if s.MaxResults <= 0 {
		s.MaxResults = ds.MaxResults
	}
	if s.EveningStart <= 0 || s.EveningStart > 23 {
		s.EveningStart = ds.EveningStart
	}
	if s.EveningEnd <= s.EveningStart || s.EveningEnd > 24 {
		s.EveningEnd = ds.EveningEnd
	}
	if s.DayStart <= 0 || s.DayStart > 23 {
		s.DayStart = ds.DayStart
	}
	if s.DayEnd <= s.DayStart || s.DayEnd > 24 {
		s.DayEnd = ds.DayEnd
	}
}

// ReminderLead returns the configured lead time as a duration.
func (c *Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

// ClassifierTimeout returns the remote classification deadline.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutSeconds) * time.Second
}

// IsWorkDay reports whether the given weekday is configured as working.
func (c *Config) IsWorkDay(d time.Weekday) bool {
	name := strings.ToLower(d.String())
	for _, wd := range c.WorkDays {
		if strings.EqualFold(wd, name) {
			return true
		}
	}
	return false
}

// Location resolves the configured timezone, defaulting to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed,
//     write a default config with 0600 perms, return the default config.
//   - If the file exists: read YAML, unmarshal into Config, normalize.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calassist-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
