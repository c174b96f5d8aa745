package extract

import (
	"sort"
	"strings"
)

// word is one positioned text fragment from a PDF text layer. Depending on
// how the PDF was produced a fragment may be a whole string or a single
// glyph; the grouping below handles both.
type word struct {
	x, y, w  float64
	fontSize float64
	text     string
}

// cell is a reconstructed table cell with the X position it starts at.
type cell struct {
	x    float64
	text string
}

func lineTolerance(fontSize float64) float64 {
	if fontSize <= 0 {
		return 3
	}
	return fontSize * 0.4
}

// groupLines clusters fragments into visual rows by Y coordinate. PDF Y
// grows upward, so rows come out top of page first.
func groupLines(ws []word) [][]word {
	if len(ws) == 0 {
		return nil
	}
	// Stable sorts keep stream order for glyphs that share coordinates;
	// some producers emit zero-width glyph runs stacked at one position.
	sorted := make([]word, len(ws))
	copy(sorted, ws)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var lines [][]word
	cur := []word{sorted[0]}
	curY := sorted[0].y
	for _, w := range sorted[1:] {
		if curY-w.y <= lineTolerance(w.fontSize) {
			cur = append(cur, w)
			continue
		}
		lines = append(lines, cur)
		cur = []word{w}
		curY = w.y
	}
	lines = append(lines, cur)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })
	}
	return lines
}

// splitCells merges a row of fragments into cells. A horizontal gap wider
// than roughly one character height starts a new cell; a smaller but
// visible gap is a word break inside the same cell.
func splitCells(line []word) []cell {
	var cells []cell
	flush := func(x float64, buf *strings.Builder) {
		text := strings.Join(strings.Fields(buf.String()), " ")
		if text != "" {
			cells = append(cells, cell{x: x, text: text})
		}
		buf.Reset()
	}

	var buf strings.Builder
	var cellX, prevEnd float64
	for i, w := range line {
		if i == 0 {
			cellX = w.x
			buf.WriteString(w.text)
			prevEnd = w.x + w.w
			continue
		}
		fs := w.fontSize
		if fs <= 0 {
			fs = 10
		}
		gap := w.x - prevEnd
		switch {
		case gap > fs:
			flush(cellX, &buf)
			cellX = w.x
			buf.WriteString(w.text)
		case gap > fs*0.18:
			if !strings.HasSuffix(buf.String(), " ") {
				buf.WriteByte(' ')
			}
			buf.WriteString(w.text)
		default:
			buf.WriteString(w.text)
		}
		prevEnd = w.x + w.w
	}
	flush(cellX, &buf)
	return cells
}

func cellTexts(cells []cell) []string {
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.text
	}
	return texts
}

// assignColumns maps data cells onto header columns by nearest X start.
// When two cells land on the same column the leftmost wins.
func assignColumns(header []cell, row []cell) map[int]string {
	out := make(map[int]string, len(row))
	for _, c := range row {
		best := -1
		bestDist := 0.0
		for i, h := range header {
			dist := c.x - h.x
			if dist < 0 {
				dist = -dist
			}
			if best == -1 || dist < bestDist {
				best, bestDist = i, dist
			}
		}
		if best >= 0 {
			if _, taken := out[best]; !taken {
				out[best] = c.text
			}
		}
	}
	return out
}
