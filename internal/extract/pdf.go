// Package extract turns a PDF byte stream into raw marks-table rows. It
// reads the PDF text layer, reconstructs visual rows and cells from glyph
// positions, locates the header row by field synonyms, and filters noise
// rows. Scanned (image-only) PDFs carry no text layer and fail with
// ErrUnreadablePDF.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"marksbot/internal/schema"

	"github.com/ledongthuc/pdf"
	"github.com/phuslu/log"
)

// ErrUnreadablePDF means no extractable text-based marks table was found.
// Retrying with a different file is the only recovery.
var ErrUnreadablePDF = errors.New("no extractable marks table found in pdf")

// Result is the ordered raw output of table extraction. Rows map the
// original header cell text to the cell value; Noise counts rows dropped
// as blanks, repeated headers or rows without a student id.
type Result struct {
	Header   []string
	Rows     []map[string]string
	Noise    int
	Warnings []string
}

// ReadTable extracts the marks table from a PDF. When several candidate
// tables exist, the one whose header resolves the most required fields
// wins, ties broken by document order. Only the first matched header is
// canonical; header-like rows repeated on later pages are skipped.
func ReadTable(data []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}

	var lines [][]cell
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, line := range groupLines(pageWords(p)) {
			if cells := splitCells(line); len(cells) > 0 {
				lines = append(lines, cells)
			}
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty text layer", ErrUnreadablePDF)
	}

	headerIdx := findHeader(lines)
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w: no header row matched", ErrUnreadablePDF)
	}

	header := lines[headerIdx]
	headerTexts := cellTexts(header)
	res := &Result{Header: headerTexts, Noise: headerIdx}

	cols := schema.MapColumns(headerTexts)
	idHeader := cols[schema.FieldStudentID]
	idCol := slices.Index(headerTexts, idHeader)
	if _, ok := cols[schema.FieldSubject]; !ok {
		res.Warnings = append(res.Warnings, "no subject column detected; expected a header like subject, course or paper")
	}

	for _, line := range lines[headerIdx+1:] {
		texts := cellTexts(line)
		if schema.IsHeaderRow(texts) {
			res.Noise++
			continue
		}
		byCol := assignColumns(header, line)
		if idCol < 0 || byCol[idCol] == "" {
			res.Noise++
			continue
		}
		row := make(map[string]string, len(headerTexts))
		for i, h := range headerTexts {
			row[h] = byCol[i]
		}
		res.Rows = append(res.Rows, row)
	}

	log.Debug().Int("rows", len(res.Rows)).Int("noise", res.Noise).Msg("extracted marks table")
	return res, nil
}

// findHeader returns the index of the best candidate header line: the
// highest synonym score among lines matching both a student_id and a mark
// synonym, earliest on ties.
func findHeader(lines [][]cell) int {
	best, bestScore := -1, 0
	for i, line := range lines {
		texts := cellTexts(line)
		if !schema.IsHeaderRow(texts) {
			continue
		}
		if score := schema.Score(texts); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// pageWords reads positioned fragments from one page. ledongthuc/pdf can
// panic on malformed content streams, so the page is abandoned rather
// than taking down the upload.
func pageWords(p pdf.Page) (ws []word) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Msgf("pdf page content parse panic: %v", r)
			ws = nil
		}
	}()
	for _, t := range p.Content().Text {
		ws = append(ws, word{x: t.X, y: t.Y, w: t.W, fontSize: t.FontSize, text: t.S})
	}
	return ws
}
