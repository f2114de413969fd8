// Package api exposes the controller over HTTP with JSON bodies.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chabad360/osc-spatial/control"
	"github.com/chabad360/osc-spatial/geom"
	"github.com/chabad360/osc-spatial/mixer"
	"github.com/chabad360/osc-spatial/osc"
	"github.com/chabad360/osc-spatial/snapshot"
	"github.com/chabad360/osc-spatial/speakers"
	"github.com/chabad360/osc-spatial/zone"
)

type handler struct {
	c   *control.Controller
	log *slog.Logger
}

// New returns the router for c.
func New(c *control.Controller, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	h := &handler{c: c, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/status", h.status)
	r.Get("/meters", h.meters)

	r.Route("/zones", func(r chi.Router) {
		r.Get("/", h.zones)
		r.Put("/count", h.zoneCount)
		r.Post("/send", h.sendZones)
		r.Put("/{index}", h.zoneAngle)
		r.Put("/{index}/position", h.moveZone)
		r.Post("/{index}/snap", h.snapZone)
	})
	r.Put("/headphones", h.headphones)
	r.Put("/labels/{index}", h.label)
	r.Put("/input-channel", h.inputChannel)

	r.Route("/objects", func(r chi.Router) {
		r.Post("/send", h.sendObjects)
		r.Put("/{index}", h.moveObject)
		r.Post("/{index}/snap", h.snapObject)
		r.Put("/{index}/reverb", h.reverbSend)
	})

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", h.listSnapshots)
		r.Put("/{name}", h.saveSnapshot)
		r.Post("/{name}/load", h.loadSnapshot)
		r.Delete("/{name}", h.deleteSnapshot)
	})

	r.Put("/engine/host", h.engineHost)
	r.Put("/engine/select", h.selectEngine)
	r.Put("/faders/{name}", h.fader)
	r.Post("/solo/{channel}", h.toggleSolo)
	r.Delete("/solo", h.clearSolo)
	r.Put("/reverb", h.reverb)
	r.Put("/delay", h.delay)

	r.Route("/speakers", func(r chi.Router) {
		r.Post("/", h.placeSpeaker)
		r.Delete("/", h.removeSpeaker)
		r.Post("/send", h.sendSpeakers)
	})
	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// text accepts either a JSON string or a JSON number, so that operator input
// reaches the parser as typed.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number")
	}
	*t = text(n.String())
	return nil
}

type valueRequest struct {
	Value text `json:"value"`
}

type pointRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Free bool    `json:"free"`
}

func (p pointRequest) point() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func intParam(r *http.Request, key string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", errBadRequest, key, err)
	}
	return n, nil
}

// writeJSON writes v with code, or a 500 when v cannot be encoded.
func (h *handler) writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Error("encode response", "err", err)
		code = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(body, '\n'))
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code >= 500 {
		h.log.Error("request failed", "err", err)
	}
	h.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusOf(err error) int {
	var pe *zone.ParseError
	switch {
	case errors.As(err, &pe),
		errors.Is(err, errBadRequest),
		errors.Is(err, geom.ErrNaN),
		errors.Is(err, snapshot.ErrInvalidName),
		errors.Is(err, osc.ErrInvalidHost),
		errors.Is(err, zone.ErrNegativeCount),
		errors.Is(err, control.ErrInvalid),
		errors.Is(err, speakers.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, snapshot.ErrNotFound),
		errors.Is(err, zone.ErrIndexOutOfRange),
		errors.Is(err, speakers.ErrNotFound),
		errors.Is(err, control.ErrUnknownFader),
		errors.Is(err, mixer.ErrNoChannel):
		return http.StatusNotFound
	case errors.Is(err, snapshot.ErrProtected),
		errors.Is(err, snapshot.ErrCardinalityMismatch),
		errors.Is(err, speakers.ErrFull),
		errors.Is(err, speakers.ErrEmpty),
		errors.Is(err, zone.ErrNoCandidates):
		return http.StatusConflict
	case errors.Is(err, control.ErrMissingDependency),
		errors.Is(err, control.ErrStopped),
		errors.Is(err, osc.ErrNoRemote),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// reply writes v, or err when it is not nil.
func (h *handler) reply(w http.ResponseWriter, v any, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}
