package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fivetwenty-io/twilio-client/internal/constants"
	"github.com/fivetwenty-io/twilio-client/pkg/twilio"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// column maps a table header to a resource field.
type column struct {
	header string
	field  string
}

// renderValue writes v as JSON or YAML depending on --output.
func renderValue(w io.Writer, v any) error {
	switch viper.GetString(keyOutput) {
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		err := encoder.Encode(normalize(v))
		if err != nil {
			return fmt.Errorf("failed to encode as YAML: %w", err)
		}

		return encoder.Close()
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		err := encoder.Encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode as JSON: %w", err)
		}

		return nil
	}
}

// renderRecords prints a listing as a table of the given columns, or every
// field as JSON/YAML.
func renderRecords(w io.Writer, records []twilio.Attributes, columns []column, empty string) error {
	output := viper.GetString(keyOutput)
	if output == constants.FormatJSON || output == constants.FormatYAML {
		return renderValue(w, records)
	}

	if len(records) == 0 {
		_, _ = io.WriteString(w, empty+"\n")

		return nil
	}

	table := tablewriter.NewWriter(w)

	headers := make([]any, 0, len(columns))
	for _, col := range columns {
		headers = append(headers, col.header)
	}

	table.Header(headers...)

	for _, record := range records {
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			row = append(row, fieldString(record, col.field))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderRecord prints one resource as a property table, or as JSON/YAML.
func renderRecord(w io.Writer, record twilio.Attributes) error {
	output := viper.GetString(keyOutput)
	if output == constants.FormatJSON || output == constants.FormatYAML {
		return renderValue(w, record)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, key := range slices.Sorted(maps.Keys(record)) {
		_ = table.Append(key, fieldString(record, key))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func fieldString(record twilio.Attributes, field string) string {
	value, ok := record.String(field)
	if ok && value != "" {
		return value
	}

	if raw, present := record[field]; present && raw != nil && !ok {
		encoded, err := json.Marshal(raw)
		if err == nil {
			return string(encoded)
		}
	}

	return constants.NotAvailable
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

// normalize converts json.Number values so YAML prints numbers rather than
// quoted strings.
func normalize(v any) any {
	switch typed := v.(type) {
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n
		}

		if f, err := typed.Float64(); err == nil {
			return f
		}

		return typed.String()
	case twilio.Attributes:
		return normalize(map[string]any(typed))
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = normalize(value)
		}

		return out
	case []twilio.Attributes:
		out := make([]any, 0, len(typed))
		for _, value := range typed {
			out = append(out, normalize(value))
		}

		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, value := range typed {
			out = append(out, normalize(value))
		}

		return out
	default:
		return v
	}
}
