package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// WriteObject encodes obj as JSON or YAML. Text output is command specific
// and goes through the text callback.
func WriteObject(w io.Writer, format Format, obj any, text func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(obj)
	case FormatYAML:
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
		_, err = fmt.Fprint(w, string(data))
		return err
	case FormatText:
		return text(w)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
