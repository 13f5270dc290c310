package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/rcandelu/adant/internal/pipeline"
	"github.com/rcandelu/adant/internal/upstream"
)

// Client-facing messages, kept verbatim from the dashboard contract.
const (
	msgInvalidDate  = "Formato data non valido. Usa YYYY-MM-DD."
	msgInvalidRange = "Formato start/end non valido. Usa date ISO (YYYY-MM-DDTHH:mm:ssZ)."
	msgUpstreamDown = "Impossibile recuperare i dati da uno o più servizi esterni."
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQuery serves the base route: optional exact-day or start/end range.
// `date` takes precedence over `start`/`end`; with no parameters the whole
// event collection is enriched.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	start, end := q.Get("start"), q.Get("end")

	filter := func(events []gjson.Result) []gjson.Result { return events }
	switch {
	case date != "":
		win, err := pipeline.ExactDay(date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidDate})
			return
		}
		filter = s.windowFilter(win)
	case start != "" || end != "":
		win, err := pipeline.Range(start, end, time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidRange})
			return
		}
		filter = s.windowFilter(win)
	}

	s.respond(w, r, filter)
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.windowFilter(pipeline.Today(time.Now())))
}

func (s *Server) handleYesterday(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.windowFilter(pipeline.Yesterday(time.Now())))
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.windowFilter(pipeline.Weekly(time.Now())))
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	tsField := s.pipe.Schema().TimestampField
	s.respond(w, r, func(events []gjson.Result) []gjson.Result {
		return pipeline.Latest(events, tsField, pipeline.DefaultLatestCount)
	})
}

func (s *Server) windowFilter(win pipeline.Window) func([]gjson.Result) []gjson.Result {
	tsField := s.pipe.Schema().TimestampField
	return func(events []gjson.Result) []gjson.Result {
		return pipeline.FilterWindow(events, tsField, win)
	}
}

// respond runs fetch → filter → enrich and writes the JSON array.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, filter func([]gjson.Result) []gjson.Result) {
	records, err := s.enriched(r, filter)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) enriched(r *http.Request, filter func([]gjson.Result) []gjson.Result) ([]json.RawMessage, error) {
	ctx := r.Context()
	events, err := s.pipe.Events(ctx)
	if err != nil {
		return nil, err
	}
	return s.pipe.EnrichAll(ctx, filter(events))
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, upstream.ErrUpstreamUnavailable) {
		s.logger.Error("enrichment aborted by upstream failure", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorBody{Error: msgUpstreamDown})
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusBadGateway, errorBody{Error: msgUpstreamDown})
}
