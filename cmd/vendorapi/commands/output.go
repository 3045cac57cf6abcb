package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/vendorapi/internal/constants"
)

const defaultIndent = 2

// Static errors for err113 compliance.
var (
	ErrUnknownOutputFormat = errors.New("unknown output format")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
	ErrUnknownVendor       = errors.New("unknown vendor")
	ErrInvalidRepository   = errors.New("repository must be given as OWNER/REPO")
	ErrInvalidID           = errors.New("invalid numeric ID")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
)

// isTerminal reports whether stdout is a terminal. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// outputFormat resolves --output. Without a flag or config value the table
// format is used on a terminal and JSON everywhere else.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))

	switch format {
	case "":
		if isTerminal() {
			return constants.FormatTable, nil
		}

		return constants.FormatJSON, nil
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownOutputFormat, format)
	}
}

// StandardJSONRenderer writes data as indented JSON.
func StandardJSONRenderer[T any](w io.Writer, data T) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer writes data as YAML.
func StandardYAMLRenderer[T any](w io.Writer, data T) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// render writes data in the selected format, delegating tables to renderTable.
func render[T any](cmd *cobra.Command, data T, renderTable func(w io.Writer) error) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	switch format {
	case constants.FormatJSON:
		return StandardJSONRenderer(w, data)
	case constants.FormatYAML:
		return StandardYAMLRenderer(w, data)
	default:
		return renderTable(w)
	}
}

// renderRows prints a table, or "No <noun> found" when rows is empty.
func renderRows(w io.Writer, noun string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(w, "No %s found\n", noun)

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header(toAny(header)...)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderProperties prints a two-column property table.
func renderProperties(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, pair := range pairs {
		if pair[1] == "" {
			continue
		}

		_ = table.Append(pair[0], pair[1])
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}

	return string(runes[:width-1]) + "…"
}
