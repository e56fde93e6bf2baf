package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vulnverified/legion/internal/config"
	"github.com/vulnverified/legion/internal/engine"
	"github.com/vulnverified/legion/internal/logging"
)

const maxCommandWidth = 90

// WritePlanTable renders the planned commands as a styled terminal table.
func WritePlanTable(w io.Writer, result *engine.PlanResult, noColor bool) {
	if len(result.Commands) == 0 {
		fmt.Fprintln(w, "\nNo commands planned.")
		return
	}

	var rows [][]string
	for i, cmd := range result.Commands {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cmd.Name,
			string(cmd.Category),
			flag(cmd.Chain, "yes"),
			flag(cmd.Shell, "yes"),
			truncate(cmd.Command, maxCommandWidth),
		})
	}

	fmt.Fprintln(w)
	renderTable(w, []string{"#", "Name", "Category", "Chain", "Shell", "Command"}, rows, noColor)
}

// WriteSettingsTable renders every resolved setting with its origin.
// Secret values are redacted.
func WriteSettingsTable(w io.Writer, res *config.Resolved, noColor bool) {
	var rows [][]string
	for _, s := range res.Settings() {
		rows = append(rows, []string{s.Name, logging.Field(s.Name, s.Value.String()), s.Origin.String()})
	}
	for _, name := range res.ExtraNames() {
		v, _ := res.Extra(name)
		rows = append(rows, []string{name, logging.Field(name, v), "extra"})
	}

	fmt.Fprintf(w, "Profile: %s\n\n", res.Profile())
	renderTable(w, []string{"Setting", "Value", "Origin"}, rows, noColor)
}

// WriteProtocolHelp renders a warrior's catalog.
func WriteProtocolHelp(w io.Writer, name, summary string, infos []engine.CommandInfo, noColor bool) {
	fmt.Fprintf(w, "%s: %s\n\n", name, summary)

	var rows [][]string
	for _, info := range infos {
		rows = append(rows, []string{
			info.Name,
			string(info.Category),
			strconv.Itoa(info.MinIntensity),
			strings.Join(info.Requires, ","),
			info.Chain,
		})
	}
	renderTable(w, []string{"Command", "Category", "Intensity", "Requires", "Chain"}, rows, noColor)
}

// ProtocolRow is one line of the protocol list.
type ProtocolRow struct {
	Name        string `json:"name" yaml:"name"`
	DefaultPort int    `json:"default_port" yaml:"default_port"`
	Commands    int    `json:"commands" yaml:"commands"`
	Summary     string `json:"summary" yaml:"summary"`
}

// WriteProtocols renders the list of registered warriors.
func WriteProtocols(w io.Writer, protos []ProtocolRow, noColor bool) {
	var rows [][]string
	for _, p := range protos {
		port := "-"
		if p.DefaultPort > 0 {
			port = strconv.Itoa(p.DefaultPort)
		}
		rows = append(rows, []string{p.Name, port, strconv.Itoa(p.Commands), p.Summary})
	}
	renderTable(w, []string{"Protocol", "Port", "Commands", "Summary"}, rows, noColor)
}

func renderTable(w io.Writer, headers []string, rows [][]string, noColor bool) {
	if noColor {
		writeSimpleTable(w, headers, rows)
		return
	}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		})

	for _, row := range rows {
		t.Row(row...)
	}

	fmt.Fprintln(w, t.Render())
}

func writeSimpleTable(w io.Writer, headers []string, rows [][]string) {
	// Calculate column widths.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Print header.
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, " | ")
		}
		fmt.Fprintf(w, "%-*s", widths[i], h)
	}
	fmt.Fprintln(w)

	// Separator.
	for i, width := range widths {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	// Rows.
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprintf(w, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}
}

func flag(on bool, mark string) string {
	if on {
		return mark
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
