package analysis

import (
	"math"
	"strings"
)

// PhasePortrait plots ys against xs on a grid centred on the origin, with
// the horizontal axis spanning ±xSpan and the vertical axis ±ySpan. A
// non-positive span is replaced by the largest magnitude in the data.
// Points outside the spans are dropped.
func PhasePortrait(xs, ys []float64, xSpan, ySpan float64, width, height int) string {
	n := min(len(xs), len(ys))
	if n == 0 || width < 3 || height < 3 {
		return ""
	}
	xSpan = span(xSpan, xs[:n])
	ySpan = span(ySpan, ys[:n])

	grid := make([][]rune, height)
	midRow, midCol := height/2, width/2
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
		grid[r][midCol] = '│'
	}
	for c := range grid[midRow] {
		grid[midRow][c] = '─'
	}
	grid[midRow][midCol] = '┼'

	for i := 0; i < n; i++ {
		col, ok := cell(xs[i]/xSpan, midCol, width)
		if !ok {
			continue
		}
		row, ok := cell(-ys[i]/ySpan, midRow, height)
		if !ok {
			continue
		}
		grid[row][col] = '•'
	}

	var sb strings.Builder
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// cell maps a fraction in [-1, 1] of the half-extent onto an index.
func cell(frac float64, mid, size int) (int, bool) {
	if !finite(frac) || math.Abs(frac) > 1 {
		return 0, false
	}
	half := float64(min(mid, size-1-mid))
	i := mid + int(math.Round(frac*half))
	return i, i >= 0 && i < size
}

func span(s float64, vs []float64) float64 {
	if s > 0 && finite(s) {
		return s
	}
	s = 0
	for _, v := range vs {
		if finite(v) {
			s = math.Max(s, math.Abs(v))
		}
	}
	if s == 0 {
		return 1
	}
	return s
}
