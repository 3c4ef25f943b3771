package provision

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document encoding used by Encode.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (must be yaml or json)", s)
	}
}

// FormatFromPath detects the format by file extension, falling back to YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// Encode writes req to w as a JSON or YAML document.
func Encode(w io.Writer, req Request, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(req); err != nil {
			return fmt.Errorf("failed to marshal request JSON: %w", err)
		}
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(req); err != nil {
			return fmt.Errorf("failed to marshal request YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to marshal request YAML: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// WriteFile saves req to path. An empty format is picked from the extension.
// The file is created owner-only since it may hold the password.
func WriteFile(path string, req Request, format Format) error {
	if format == "" {
		format = FormatFromPath(path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write request file: %w", err)
	}
	if err := Encode(f, req, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write request file: %w", err)
	}
	return nil
}
