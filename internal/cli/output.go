package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Форматы вывода.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var errUnknownOutput = fmt.Errorf("unknown output format, expected %s, %s or %s", OutputText, OutputJSON, OutputYAML)

func addOutputFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "output", "o", OutputText,
		fmt.Sprintf("Output format: %s|%s|%s", OutputText, OutputJSON, OutputYAML))
}

func validateOutput(format string) error {
	switch format {
	case OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, format)
	}
}

// render печатает v в структурированном формате или вызывает text.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case OutputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		text(w)
	}
	return nil
}
