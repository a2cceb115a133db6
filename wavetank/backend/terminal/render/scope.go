package render

import "strings"

// ScopeRows maps each of width columns to a row in [0, height), row 0 being
// the top. Samples are decimated to fit; 255 lands on row 0 and 0 on the
// bottom row. Columns without a sample are -1.
func ScopeRows(samples []uint8, width, height int) []int {
	if width <= 0 {
		return nil
	}
	rows := make([]int, width)
	for x := range rows {
		rows[x] = -1
		if height <= 0 || len(samples) == 0 {
			continue
		}
		i := x * len(samples) / width
		if len(samples) < width {
			if x >= len(samples) {
				continue
			}
			i = x
		}
		rows[x] = (255 - int(samples[i])) * (height - 1) / 255
	}
	return rows
}

// LevelBar draws value out of max as a bar of width cells.
func LevelBar(value, max, width int) string {
	if width <= 0 {
		return ""
	}
	if max <= 0 {
		max = 1
	}
	filled := value * width / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}
