package extract

import "regexp"

// anchorRe matches a signed two-decimal percentage token. The rate column is
// the only field distinctive enough to delimit rows once OCR has destroyed
// line breaks, so every anchor marks the end of one notional holding row.
var anchorRe = regexp.MustCompile(`[+-]?\d+[.,]?\d{2}%`)

// Anchor is one percentage token found in cleaned text, with byte offsets.
type Anchor struct {
	Value string
	Start int
	End   int
}

// Row is the slice of cleaned text belonging to one holding row: everything
// after the previous anchor (or the text start) up to and including this
// row's anchor.
type Row struct {
	Text   string
	Anchor Anchor
}

// NameRegion returns the row text before the percentage token; the fund
// name and the numeric amount fields all live here.
func (r Row) NameRegion() string {
	return r.Text[:len(r.Text)-len(r.Anchor.Value)]
}

// Anchors scans cleaned text for all percentage anchors in source order.
func Anchors(text string) []Anchor {
	matches := anchorRe.FindAllStringIndex(text, -1)
	anchors := make([]Anchor, 0, len(matches))
	for _, m := range matches {
		anchors = append(anchors, Anchor{Value: text[m[0]:m[1]], Start: m[0], End: m[1]})
	}
	return anchors
}

// Segment slices cleaned text into row candidates, one per anchor, in
// anchor order. Rows are non-overlapping and cover the text up to the last
// anchor. Zero anchors means zero rows; the caller reports that as a
// distinct "no usable rows" outcome.
func Segment(text string) []Row {
	anchors := Anchors(text)
	rows := make([]Row, 0, len(anchors))
	prevEnd := 0
	for _, a := range anchors {
		rows = append(rows, Row{Text: text[prevEnd:a.End], Anchor: a})
		prevEnd = a.End
	}
	return rows
}
