package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter форматирует Result в YAML.
type YAMLWriter struct{}

// NewYAMLWriter создаёт YAMLWriter.
func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

// Write сериализует result в YAML документ.
func (y *YAMLWriter) Write(w io.Writer, result *Result) error {
	if result == nil {
		return nil
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result.withSummary()); err != nil {
		return fmt.Errorf("не удалось сериализовать результат в YAML: %w", err)
	}
	return encoder.Close()
}
