package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"FundSnap/internal/catalog"
	"FundSnap/internal/model"
	"FundSnap/internal/pipeline"
	"FundSnap/internal/store"
	"FundSnap/internal/valuation"
)

var fundCodeRe = regexp.MustCompile(`^\d{6}$`)

// ValuationFetcher looks up a realtime estimate for one fund code.
type ValuationFetcher interface {
	GetRealtime(ctx context.Context, fundCode string) (*model.Valuation, error)
}

// RecognizeService runs the recognition pipeline, either over raw text
// fragments or over an image reference through the device engine.
type RecognizeService interface {
	ParseFragments(ctx context.Context, fragments []string) (*pipeline.Result, error)
	Recognize(ctx context.Context, ref string) (*pipeline.Result, error)
}

// Server exposes the watchlist, catalog, valuation, and recognition
// endpoints. Responses use the {ec, em, data} envelope.
type Server struct {
	store     store.Store
	catalog   *catalog.Service
	valuation ValuationFetcher
	parser    RecognizeService
	mux       *http.ServeMux
}

// New wires the routes.
func New(st store.Store, cat *catalog.Service, val ValuationFetcher, parser RecognizeService) *Server {
	s := &Server{store: st, catalog: cat, valuation: val, parser: parser, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /user/watchlist", s.handleListWatchlist)
	s.mux.HandleFunc("POST /user/watchlist", s.handleAddWatchlist)
	s.mux.HandleFunc("DELETE /user/watchlist/{code}", s.handleRemoveWatchlist)
	s.mux.HandleFunc("DELETE /user/watchlist", s.handleClearWatchlist)
	s.mux.HandleFunc("GET /fund/valuation", s.handleValuation)
	s.mux.HandleFunc("GET /fund/search", s.handleSearch)
	s.mux.HandleFunc("POST /recognize/text", s.handleRecognizeText)
	s.mux.HandleFunc("POST /recognize/image", s.handleRecognizeImage)
	return s
}

// Handler returns the http handler for the server.
func (s *Server) Handler() http.Handler { return s.mux }

type envelope struct {
	EC   int    `json:"ec"`
	EM   string `json:"em"`
	Data any    `json:"data,omitempty"`
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{EC: http.StatusOK, EM: "success", Data: data})
}

func writeErr(w http.ResponseWriter, status int, em string) {
	writeJSON(w, status, envelope{EC: status, EM: em})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List()
	if err != nil {
		log.Printf("[ERROR] list watchlist: %v", err)
		writeErr(w, http.StatusInternalServerError, emLoadFailed)
		return
	}
	if list == nil {
		list = []model.Holding{}
	}
	writeOK(w, list)
}

// addRequest uses json.Number so malformed amounts surface as their own
// validation error rather than a generic decode failure.
type addRequest struct {
	FundCode       string      `json:"fundCode"`
	FundName       string      `json:"fundName"`
	PositionAmount json.Number `json:"positionAmount"`
	HoldingProfit  json.Number `json:"holdingProfit"`
	YesterdayNav   json.Number `json:"yesterdayNav"`
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, emServerError)
		return
	}

	code := strings.TrimSpace(req.FundCode)
	if !fundCodeRe.MatchString(code) {
		writeErr(w, http.StatusBadRequest, emBadCode)
		return
	}
	name := strings.TrimSpace(req.FundName)
	if name == "" || len([]rune(name)) > 100 {
		writeErr(w, http.StatusBadRequest, emBadName)
		return
	}
	amount, err := numberValue(req.PositionAmount, 0)
	if err != nil {
		writeErr(w, http.StatusBadRequest, emBadAmount)
		return
	}
	if amount <= 0 || amount > 1e9 {
		writeErr(w, http.StatusBadRequest, emAmountRange)
		return
	}
	profit, err := numberValue(req.HoldingProfit, 0)
	if err != nil {
		writeErr(w, http.StatusBadRequest, emBadProfit)
		return
	}
	if profit < -1e9 || profit > 1e9 {
		writeErr(w, http.StatusBadRequest, emProfitRange)
		return
	}

	nav, err := numberValue(req.YesterdayNav, 0)
	if err != nil || nav < 0 {
		writeErr(w, http.StatusBadRequest, emBadNav)
		return
	}
	if nav == 0 && s.valuation != nil {
		// Recognition doesn't carry a NAV; fill it from the estimate feed.
		val, verr := s.valuation.GetRealtime(r.Context(), code)
		if verr == nil {
			if parsed, perr := strconv.ParseFloat(val.YesterdayNav, 64); perr == nil {
				nav = parsed
			}
		}
	}
	if nav <= 0 {
		writeErr(w, http.StatusBadRequest, emBadNav)
		return
	}

	h := &model.Holding{
		FundCode:       code,
		FundName:       name,
		PositionAmount: amount,
		HoldingProfit:  profit,
		YesterdayNav:   nav,
	}
	if err := s.store.Upsert(h); err != nil {
		if errors.Is(err, store.ErrFull) {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[ERROR] upsert holding %s: %v", code, err)
		writeErr(w, http.StatusInternalServerError, emAddFailed)
		return
	}
	writeOK(w, h)
}

func (s *Server) handleRemoveWatchlist(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if err := s.store.Remove(code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("[ERROR] remove holding %s: %v", code, err)
		writeErr(w, http.StatusInternalServerError, emRemoveFailed)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleClearWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		log.Printf("[ERROR] clear watchlist: %v", err)
		writeErr(w, http.StatusInternalServerError, emServerError)
		return
	}
	writeOK(w, nil)
}

func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if !fundCodeRe.MatchString(code) {
		writeErr(w, http.StatusBadRequest, emBadCode)
		return
	}
	val, err := s.valuation.GetRealtime(r.Context(), code)
	if err != nil {
		if errors.Is(err, valuation.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("[ERROR] valuation %s: %v", code, err)
		writeErr(w, http.StatusBadGateway, formatUserError(err.Error()))
		return
	}
	writeOK(w, val)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	entries, err := s.catalog.Search(r.Context(), q, limit)
	if err != nil {
		log.Printf("[ERROR] catalog search %q: %v", q, err)
		writeErr(w, http.StatusBadGateway, formatUserError(err.Error()))
		return
	}
	if entries == nil {
		entries = []model.CatalogEntry{}
	}
	writeOK(w, entries)
}

type recognizeRequest struct {
	Fragments []string `json:"fragments"`
}

func (s *Server) handleRecognizeText(w http.ResponseWriter, r *http.Request) {
	var req recognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, emServerError)
		return
	}
	res, err := s.parser.ParseFragments(r.Context(), req.Fragments)
	if err != nil {
		s.writeRecognizeError(w, res, err)
		return
	}
	writeOK(w, res)
}

type recognizeImageRequest struct {
	Ref string `json:"ref"`
}

func (s *Server) handleRecognizeImage(w http.ResponseWriter, r *http.Request) {
	var req recognizeImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, emServerError)
		return
	}
	res, err := s.parser.Recognize(r.Context(), req.Ref)
	if err != nil {
		s.writeRecognizeError(w, res, err)
		return
	}
	writeOK(w, res)
}

// writeRecognizeError maps pipeline terminal outcomes onto the envelope.
// The error strings are already user-facing, so em carries them verbatim.
func (s *Server) writeRecognizeError(w http.ResponseWriter, res *pipeline.Result, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoAccepted):
		// Zero accepted rows still carries the discard report.
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			EC: http.StatusUnprocessableEntity, EM: err.Error(), Data: res,
		})
	case errors.Is(err, pipeline.ErrUnsupported):
		writeErr(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, pipeline.ErrInvalidImage):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrEngine):
		writeErr(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, pipeline.ErrNoiseOnly), errors.Is(err, pipeline.ErrNoRows),
		errors.Is(err, pipeline.ErrEmptyRecognition):
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("[ERROR] recognize: %v", err)
		writeErr(w, http.StatusInternalServerError, formatUserError(err.Error()))
	}
}

// numberValue parses a json.Number that may be absent; absent fields take
// the fallback.
func numberValue(n json.Number, fallback float64) (float64, error) {
	if n.String() == "" {
		return fallback, nil
	}
	return n.Float64()
}
