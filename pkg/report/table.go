package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/htmb-bot/NTRU-and-Hypercubic/internal"
	"github.com/htmb-bot/NTRU-and-Hypercubic/pkg"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	caveatStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// newTable returns a bordered table whose columns from numericFrom on are right aligned
func newTable(numericFrom int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= numericFrom:
				return numberStyle
			default:
				return cellStyle
			}
		})
}

// EstimateTable renders one line per estimate
func EstimateTable(ests []pkg.Estimate) string {
	t := newTable(1, "instance", "dim", "targets", "log2 vol", "|t|^2", "blocksize", "iterations")
	var notes []string
	for _, est := range ests {
		rec := NewRecord(est)
		t.Row(
			rec.Name,
			strconv.Itoa(rec.Dimension),
			strconv.Itoa(rec.Targets),
			fmt.Sprintf("%.2f", rec.Log2Volume),
			fmt.Sprintf("%.4g", rec.SquaredNorm),
			internal.FormatFloat(est.Blocksize, 4),
			strconv.Itoa(rec.Iterations),
		)
		for _, w := range est.Warnings {
			notes = append(notes, fmt.Sprintf("%s (targets=%d): %s", rec.Name, rec.Targets, w))
		}
	}
	return withNotes(t.Render(), notes)
}

// SweepTable renders the single-target and dimension-target blocksizes of a sweep side by side
func SweepTable(rows []pkg.SweepRow) string {
	t := newTable(0, "dim", "blocksize, 1 target", "blocksize, dim targets", "gain")
	var notes []string
	for _, row := range rows {
		single := row.Comparison.Single.BlocksizeFloat64()
		multi := row.Comparison.Multi.BlocksizeFloat64()
		t.Row(
			strconv.Itoa(row.Dimension),
			fmt.Sprintf("%.4f", single),
			fmt.Sprintf("%.4f", multi),
			fmt.Sprintf("%.4f", single-multi),
		)
		for _, est := range []pkg.Estimate{row.Comparison.Single, row.Comparison.Multi} {
			for _, w := range est.Warnings {
				notes = append(notes, fmt.Sprintf("dim %d (targets=%d): %s", row.Dimension, est.Parameters.TargetCount, w))
			}
		}
	}
	return withNotes(titleStyle.Render("Hypercubic lattices Z^d, unit volume, unit target norm")+"\n"+t.Render(), notes)
}

// SimulationTable compares a Monte Carlo run with the analytic estimate
func SimulationTable(dim, projDim, targets int, median, mean, stddev, analytic float64, trials int) string {
	t := newTable(1, "quantity", "value")
	t.Row("dimension", strconv.Itoa(dim))
	t.Row("projection dimension", strconv.Itoa(projDim))
	t.Row("targets", strconv.Itoa(targets))
	t.Row("trials", strconv.Itoa(trials))
	t.Row("simulated median", fmt.Sprintf("%.6f", median))
	t.Row("simulated mean", fmt.Sprintf("%.6f", mean))
	t.Row("simulated std dev", fmt.Sprintf("%.6f", stddev))
	t.Row("analytic median", fmt.Sprintf("%.6f", analytic))
	return t.Render()
}

// PresetList renders the registered parameter sets
func PresetList(params []pkg.Parameters) string {
	t := newTable(1, "name", "dim", "targets", "volume", "|t|^2")
	for _, p := range params {
		t.Row(p.Name, strconv.Itoa(p.Dimension), strconv.Itoa(p.TargetCount),
			internal.FormatMagnitude(p.Volume), internal.FormatMagnitude(p.SquaredTargetNorm))
	}
	return t.Render()
}

// Caveat renders a highlighted warning banner
func Caveat(msg string) string {
	return caveatStyle.Render(msg)
}

func withNotes(body string, notes []string) string {
	if len(notes) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	for _, n := range notes {
		b.WriteString(warnStyle.Render("! " + n))
		b.WriteString("\n")
	}
	b.WriteString(faintStyle.Render("estimates below dimension 200 or blocksize 50 are outside the accurate range of the model"))
	return b.String()
}
