package config

// Profile holds a named set of lookup and output settings, for example one
// per document family that stores payloads under a different tag.
type Profile struct {
	// Tag overrides the tag whose content is decoded.
	Tag string `yaml:"tag,omitempty"`

	// Element overrides the embedded element name.
	Element string `yaml:"element,omitempty"`

	// Format overrides the decode output format.
	Format string `yaml:"format,omitempty"`

	// Printer overrides the pretty-printer kind.
	Printer string `yaml:"printer,omitempty"`
}

// File represents the structure of the .xmldecode configuration file.
type File struct {
	// Defaults applies to every run unless a profile overrides it.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Profiles maps profile names to their settings.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Color enables ANSI colors when set.
	Color *bool `yaml:"color,omitempty"`

	// Batch overrides the number of files processed concurrently.
	Batch int `yaml:"batch,omitempty"`

	// History enables saving runs to the history database when set.
	History *bool `yaml:"history,omitempty"`
}

// GetProfile returns the settings of the named profile merged over the
// defaults. An empty name returns the defaults.
func (cf *File) GetProfile(name string) (Profile, error) {
	result := cf.Defaults
	if name == "" {
		return result, nil
	}

	p, ok := cf.Profiles[name]
	if !ok {
		return result, ErrProfileNotFound
	}
	if p.Tag != "" {
		result.Tag = p.Tag
	}
	if p.Element != "" {
		result.Element = p.Element
	}
	if p.Format != "" {
		result.Format = p.Format
	}
	if p.Printer != "" {
		result.Printer = p.Printer
	}
	return result, nil
}

// ApplyTo overlays the non-zero values of the file, with cfg.Profile
// selecting a profile, onto cfg.
func (cf *File) ApplyTo(cfg *Config) error {
	p, err := cf.GetProfile(cfg.Profile)
	if err != nil {
		return err
	}

	if p.Tag != "" {
		cfg.TagName = p.Tag
	}
	if p.Element != "" {
		cfg.ElementName = p.Element
	}
	if p.Format != "" {
		cfg.Format = p.Format
	}
	if p.Printer != "" {
		cfg.Printer = p.Printer
	}
	if cf.Color != nil {
		cfg.Color = *cf.Color
	}
	if cf.Batch != 0 {
		cfg.BatchSize = cf.Batch
	}
	if cf.History != nil {
		cfg.SaveHistory = *cf.History
	}
	return nil
}
