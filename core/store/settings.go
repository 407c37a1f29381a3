package store

import "github.com/gaurav-prasanna/pagesimplify/core/simplify"

const settingsSection = "settings"

// Settings are the user's last choices.
type Settings struct {
	Level        string
	ShowOriginal bool
}

// Settings returns the saved settings with defaults for missing values.
func (s *FileStore) Settings() Settings {
	out := Settings{Level: simplify.DefaultLevel}
	if v, ok := s.Get(settingsSection, "level"); ok {
		if lvl, err := simplify.ParseLevel(toString(v)); err == nil {
			out.Level = lvl
		}
	}
	if v, ok := s.Get(settingsSection, "show_original"); ok {
		out.ShowOriginal, _ = v.(bool)
	}
	return out
}

// SaveLevel persists the target level.
func (s *FileStore) SaveLevel(level string) error {
	s.Set(settingsSection, "level", level)
	return s.Save()
}

// SaveShowOriginal persists the visibility state.
func (s *FileStore) SaveShowOriginal(show bool) error {
	s.Set(settingsSection, "show_original", show)
	return s.Save()
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
