// Package report renders tables and run summaries for the command line.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/valerio/go-wavetank/wavetank/pitch"
	"github.com/valerio/go-wavetank/wavetank/tables"
	"github.com/valerio/go-wavetank/wavetank/timing"
)

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	zero   lipgloss.Style
	box    lipgloss.Style
}

var style = styles{
	title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
	header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
	cell:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7)),
	zero:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	box:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
}

// ByteGrid renders 256 bytes as a 16x16 hex grid with row and column labels.
func ByteGrid(title string, data *[tables.Size]uint8) string {
	var sb strings.Builder
	sb.WriteString(style.title.Render(title))
	sb.WriteString("\n    ")
	for col := 0; col < 16; col++ {
		sb.WriteString(style.header.Render(fmt.Sprintf(" x%X", col)))
	}
	for row := 0; row < 16; row++ {
		sb.WriteString("\n")
		sb.WriteString(style.header.Render(fmt.Sprintf("%Xx  ", row)))
		for col := 0; col < 16; col++ {
			b := data[row*16+col]
			s := style.cell
			if b == 0 {
				s = style.zero
			}
			sb.WriteString(s.Render(fmt.Sprintf(" %02X", b)))
		}
	}
	return style.box.Render(sb.String())
}

// VolumeTable renders the volume-scaling table for a curve.
func VolumeTable(c tables.Curve, vt *tables.VolumeTable) string {
	return ByteGrid(fmt.Sprintf("Volume table %s", c), (*[tables.Size]uint8)(vt))
}

var ratioNames = [4]string{"1", "7/8", "3/4", "5/8"}

// RatioTables renders the four tables of the ratio scaler, one above the
// other.
func RatioTables(ts [4]*tables.RatioTable) string {
	grids := make([]string, len(ts))
	for i, t := range ts {
		grids[i] = ByteGrid("Ratio table "+ratioNames[i], (*[tables.Size]uint8)(t))
	}
	return lipgloss.JoinVertical(lipgloss.Left, grids...)
}

// Waveform renders one wavetable.
func Waveform(name string, w *tables.Waveform) string {
	return ByteGrid(fmt.Sprintf("Waveform %s", name), (*[tables.Size]uint8)(w))
}

// Waveforms lists the stock slots with their range and mean.
func Waveforms(set *tables.Set) string {
	var sb strings.Builder
	sb.WriteString(style.title.Render("Waveform slots"))
	sb.WriteString("\n")
	sb.WriteString(style.header.Render(fmt.Sprintf("%-4s %-8s %4s %4s %6s", "Slot", "Name", "Min", "Max", "Mean")))
	for i, w := range set {
		lo, hi, sum := 255, 0, 0
		for _, b := range w {
			lo = min(lo, int(b))
			hi = max(hi, int(b))
			sum += int(b)
		}
		fmt.Fprintf(&sb, "\n%-4d %-8s %4d %4d %6.1f", i, tables.SlotName(i), lo, hi, float64(sum)/tables.Size)
	}
	return style.box.Render(sb.String())
}

// Notes lists the increment of every MIDI note and the pitch it really plays.
func Notes(t *pitch.Table) string {
	var sb strings.Builder
	sb.WriteString(style.title.Render(fmt.Sprintf("Pitch table at %d Hz", t.SampleRate())))
	sb.WriteString("\n")
	sb.WriteString(style.header.Render(fmt.Sprintf("%-4s %-5s %6s %6s", "MIDI", "Note", "Inc", "Hz")))
	for i, inc := range t.Increments() {
		fmt.Fprintf(&sb, "\n%-4d %-5s 0x%04x %6d", i, pitch.Note(i), inc, pitch.IncrementToHz(inc, t.SampleRate()))
	}
	return style.box.Render(sb.String())
}

// Summary describes a finished render.
func Summary(path string, seconds float64, stats timing.Stats) string {
	lines := []string{
		style.title.Render("Render complete"),
		fmt.Sprintf("%-9s %s", "output", path),
		fmt.Sprintf("%-9s %.2fs", "length", seconds),
		fmt.Sprintf("%-9s %d", "ticks", stats.Ticks),
		fmt.Sprintf("%-9s %d", "misses", stats.Misses),
	}
	return style.box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
