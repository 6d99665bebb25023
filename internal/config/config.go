package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTagName is the tag whose content is decoded.
	DefaultTagName = "contenido"

	// DefaultElementName is the element pulled out of decoded payloads.
	DefaultElementName = "webformData"

	// DefaultFormat is the output format of the decode command.
	DefaultFormat = FormatXML

	// DefaultPrinter is the pretty-printer used for display.
	DefaultPrinter = PrinterTree

	// DefaultBatchSize of 4 concurrent files keeps memory bounded when
	// many large documents are decoded at once.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "xmldecode"
)

// Output formats of the decode command.
const (
	FormatXML      = "xml"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPretty   = "pretty"
)

// Printer kinds.
const (
	PrinterTree  = "tree"
	PrinterToken = "token"
)

// Config holds all configuration options for xmldecode.
// This struct is populated from CLI flags and the configuration file and
// passed through the application rather than kept in global state.
type Config struct {
	// TagName is the qualified name of the elements whose text is decoded.
	TagName string

	// ElementName is the element searched for inside decoded payloads.
	ElementName string

	// Format selects the decode output: xml, json, markdown or pretty.
	Format string

	// Printer selects the pretty-printer: tree or token.
	Printer string

	// Color enables ANSI colors in terminal output.
	Color bool

	// HTML makes the token printer emit HTML spans.
	// Mutually exclusive with Color.
	HTML bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// OutputFile is where output is written instead of stdout.
	// When it names a directory, the export file name is used inside it.
	OutputFile string

	// Copy puts the output on the system clipboard.
	Copy bool

	// Tee also writes the output to stdout when OutputFile is set.
	Tee bool

	// BatchSize is the number of files processed concurrently.
	BatchSize int

	// SaveHistory stores every processed job in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/xmldecode on Linux).
	DBDir string

	// Profile names a profile from the configuration file to apply.
	Profile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Sources are the input files. Empty or "-" means standard input.
	Sources []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		TagName:     DefaultTagName,
		ElementName: DefaultElementName,
		Format:      DefaultFormat,
		Printer:     DefaultPrinter,
		BatchSize:   DefaultBatchSize,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for xmldecode.
// On Linux: ~/.local/share/xmldecode
// On macOS: ~/Library/Application Support/xmldecode
// On Windows: %LOCALAPPDATA%\xmldecode
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for xmldecode.
// On Linux: ~/.config/xmldecode
// On macOS: ~/Library/Application Support/xmldecode
// On Windows: %APPDATA%\xmldecode
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.TagName == "" {
		return ErrEmptyTagName
	}

	if c.ElementName == "" {
		return ErrEmptyElementName
	}

	switch c.Format {
	case FormatXML, FormatJSON, FormatMarkdown, FormatPretty:
	default:
		return ErrInvalidFormat
	}

	switch c.Printer {
	case PrinterTree, PrinterToken:
	default:
		return ErrInvalidPrinter
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.HTML && c.Color {
		return ErrConflictingOutputs
	}

	return nil
}

// Stdin reports whether input comes from standard input.
func (c *Config) Stdin() bool {
	return len(c.Sources) == 0 || (len(c.Sources) == 1 && c.Sources[0] == "-")
}
