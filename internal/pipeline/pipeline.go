package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"FundSnap/internal/extract"
	"FundSnap/internal/match"
	"FundSnap/internal/model"
	"FundSnap/internal/ocr"
)

// AcceptScore is the minimum fuzzy score for a match to survive without a
// code-exact hit; lower-confidence rows are surfaced as discards so the
// user can enter the code by hand.
const AcceptScore = 3

// CatalogLoader supplies a read-only catalog snapshot.
type CatalogLoader interface {
	Load(ctx context.Context) ([]model.CatalogEntry, error)
}

// Pipeline sequences recognition: fragments -> clean -> segment -> classify
// per row -> concurrent catalog matching -> accepted records plus discard
// reasons.
type Pipeline struct {
	Catalog    CatalogLoader
	Matcher    *match.Matcher
	Source     ocr.ImageSource
	Recognizer *ocr.Recognizer
}

// New wires a Pipeline with the default matcher rules.
func New(cat CatalogLoader, src ocr.ImageSource, rec *ocr.Recognizer) *Pipeline {
	return &Pipeline{
		Catalog:    cat,
		Matcher:    match.NewMatcher(),
		Source:     src,
		Recognizer: rec,
	}
}

// Discard reports one rejected row so the caller can show why.
type Discard struct {
	Name       string `json:"name"`
	HoldAmount string `json:"holdAmount"`
	Reason     string `json:"reason"`
}

// Result is one recognition outcome: accepted records, per-row discards,
// and totals over the accepted rows.
type Result struct {
	Records  []model.RecognizedItem `json:"records"`
	Discards []Discard              `json:"discards"`
	Summary  model.Summary          `json:"summary"`
}

// Recognize runs the full image flow: capability check, frame acquisition,
// engine session, then text parsing and matching.
func (p *Pipeline) Recognize(ctx context.Context, ref string) (*Result, error) {
	if p.Recognizer == nil || p.Recognizer.Engine == nil {
		return nil, ErrUnsupported
	}
	if err := p.Recognizer.Engine.Supported(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if strings.TrimSpace(ref) == "" {
		return nil, ErrInvalidImage
	}
	frame, err := p.Source.Acquire(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	ocr.Grayscale(frame)
	fragments, err := p.Recognizer.Run(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngine, err)
	}
	if len(fragments) == 0 {
		return nil, ErrEmptyRecognition
	}
	return p.ParseFragments(ctx, fragments)
}

// ParseFragments turns raw text fragments into validated, deduplicated
// holding records. Fragment order is call order, not spatial order, so the
// fragments are joined and re-segmented by percentage anchors.
func (p *Pipeline) ParseFragments(ctx context.Context, fragments []string) (*Result, error) {
	clean := extract.Clean(strings.Join(fragments, ""))
	if clean == "" {
		return nil, ErrNoiseOnly
	}
	rows := extract.Segment(clean)
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	log.Printf("[INFO] recognize: %d anchors in %d cleaned chars", len(rows), len(clean))

	records := make([]model.ParsedRecord, 0, len(rows))
	seenRecord := make(map[string]bool)
	for _, row := range rows {
		rec := extract.Classify(row)
		key := rec.Name + "|" + rec.HoldAmount + "|" + rec.HoldProfit
		if seenRecord[key] {
			continue
		}
		seenRecord[key] = true
		records = append(records, rec)
	}

	catalog, err := p.Catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load fund catalog: %w", err)
	}

	// Matching is a pure function of the row plus the read-only snapshot,
	// so rows fan out. Abnormal rows can never be accepted and are skipped.
	matches := make([]*model.MatchResult, len(records))
	var wg sync.WaitGroup
	for i := range records {
		if records[i].IsAbnormal {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			matches[i] = p.Matcher.MatchOne(records[i].Name, catalog)
		}(i)
	}
	wg.Wait()

	var (
		items    []model.RecognizedItem
		accepted []model.ParsedRecord
		discards []Discard
		seenItem = make(map[string]bool)
	)
	for i, rec := range records {
		m := matches[i]
		switch {
		case rec.IsAbnormal:
			discards = append(discards, Discard{Name: rec.Name, HoldAmount: rec.HoldAmount, Reason: DiscardAbnormal})
		case m == nil || m.FundCode == "":
			discards = append(discards, Discard{Name: rec.Name, HoldAmount: rec.HoldAmount, Reason: DiscardUnmatched})
		case !m.ByCode && m.Score < AcceptScore:
			discards = append(discards, Discard{Name: rec.Name, HoldAmount: rec.HoldAmount, Reason: DiscardLowScore})
		default:
			key := m.FundCode + "|" + m.FundName + "|" + rec.HoldAmount
			if seenItem[key] {
				continue
			}
			seenItem[key] = true
			items = append(items, model.RecognizedItem{
				RawName:        rec.Name,
				FundCode:       m.FundCode,
				FundName:       m.FundName,
				HoldAmount:     rec.HoldAmount,
				HoldProfit:     rec.HoldProfit,
				PositionAmount: extract.ParseAmount(rec.HoldAmount),
				HoldingProfit:  extract.ParseAmount(rec.HoldProfit),
				MatchScore:     m.Score,
				MatchLabel:     m.Label,
			})
			accepted = append(accepted, rec)
		}
	}
	for _, d := range discards {
		log.Printf("[INFO] discard row: name=%q amount=%q reason=%s", d.Name, d.HoldAmount, d.Reason)
	}

	res := &Result{Records: items, Discards: discards, Summary: extract.Summarize(accepted)}
	if len(items) == 0 {
		return res, ErrNoAccepted
	}
	return res, nil
}
