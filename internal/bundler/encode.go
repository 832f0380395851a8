package bundler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	// FormatJS is a CommonJS module in the shape a metro config file exports.
	FormatJS Format = "js"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatJS}
}

// ParseFormat accepts a format name, case-insensitively. "yml" and
// "javascript" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "js", "javascript":
		return FormatJS, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml, toml or js)", s)
	}
}

// document is the serialized form shared by the data formats.
type document struct {
	ProjectRoots     []string          `json:"projectRoots,omitempty" yaml:"projectRoots,omitempty" toml:"projectRoots,omitempty"`
	ExtraNodeModules map[string]string `json:"extraNodeModules,omitempty" yaml:"extraNodeModules,omitempty" toml:"extraNodeModules,omitempty"`
}

func (c *Config) document() document {
	if c.IsEmpty() {
		return document{}
	}
	return document{
		ProjectRoots:     c.ProjectRoots(),
		ExtraNodeModules: c.ExtraNodeModules,
	}
}

// Encode writes c to w in format f.
func Encode(w io.Writer, c *Config, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(c.document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c.document()); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(c.document()); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	case FormatJS:
		return encodeJS(w, c)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

func encodeJS(w io.Writer, c *Config) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "// Generated by metrolink. Regenerate instead of editing.")

	if c.IsEmpty() {
		fmt.Fprintln(bw, "module.exports = {};")
		return bw.Flush()
	}

	fmt.Fprintln(bw, "module.exports = {")
	fmt.Fprintln(bw, "  extraNodeModules: {")
	for _, name := range c.AliasNames() {
		fmt.Fprintf(bw, "    %s: %s,\n", jsString(name), jsString(c.ExtraNodeModules[name]))
	}
	fmt.Fprintln(bw, "  },")
	fmt.Fprintln(bw, "  getProjectRoots() {")
	fmt.Fprintln(bw, "    return [")
	for _, root := range c.ProjectRoots() {
		fmt.Fprintf(bw, "      %s,\n", jsString(root))
	}
	fmt.Fprintln(bw, "    ];")
	fmt.Fprintln(bw, "  },")
	fmt.Fprintln(bw, "};")
	return bw.Flush()
}

// jsString quotes s as a JavaScript string literal. JSON strings are valid
// JavaScript except for U+2028 and U+2029, which the encoder escapes.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
