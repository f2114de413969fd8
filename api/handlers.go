package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chabad360/osc-spatial/snapshot"
)

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	st, err := h.c.Status(r.Context())
	h.reply(w, st, err)
}

func (h *handler) meters(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.c.Meters())
}

func (h *handler) zones(w http.ResponseWriter, r *http.Request) {
	markers, err := h.c.Markers(r.Context())
	h.reply(w, markers, err)
}

func (h *handler) zoneCount(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetZoneCount(r.Context(), string(req.Value)))
}

func (h *handler) zoneAngle(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req valueRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetZoneAngle(r.Context(), index, string(req.Value)))
}

func (h *handler) moveZone(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req pointRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.MoveZone(r.Context(), index, req.point()))
}

func (h *handler) snapZone(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	angle, err := h.c.SnapZone(r.Context(), index)
	h.reply(w, map[string]float64{"angle": angle}, err)
}

func (h *handler) sendZones(w http.ResponseWriter, r *http.Request) {
	h.reply(w, nil, h.c.SendZones(r.Context()))
}

func (h *handler) headphones(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetHeadphones(r.Context(), req.On))
}

func (h *handler) label(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req valueRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetLabel(r.Context(), index, string(req.Value)))
}

func (h *handler) inputChannel(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetInputChannel(r.Context(), string(req.Value)))
}

func (h *handler) moveObject(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req pointRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.MoveObject(r.Context(), index, req.point(), req.Free))
}

func (h *handler) snapObject(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	angle, err := h.c.SnapObject(r.Context(), index)
	h.reply(w, map[string]float64{"angle": angle}, err)
}

func (h *handler) reverbSend(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req pointRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetReverbSend(r.Context(), index, req.point()))
}

func (h *handler) sendObjects(w http.ResponseWriter, r *http.Request) {
	if err := h.c.SendObjects(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *handler) listSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := h.c.ListSnapshots(r.Context())
	if names == nil {
		names = []string{}
	}
	h.reply(w, names, err)
}

func (h *handler) saveSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.c.SaveSnapshot(r.Context(), chi.URLParam(r, "name"))
	h.reply(w, snap, err)
}

func (h *handler) loadSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.c.LoadSnapshot(r.Context(), chi.URLParam(r, "name"))
	h.reply(w, snap, err)
}

func (h *handler) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	h.reply(w, nil, h.c.DeleteSnapshot(r.Context(), chi.URLParam(r, "name")))
}

func (h *handler) engineHost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Host string `json:"host"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetEngineHost(r.Context(), req.Host))
}

func (h *handler) selectEngine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Engine int `json:"engine"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SelectEngine(r.Context(), req.Engine))
}

func (h *handler) fader(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position float64 `json:"position"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	db, err := h.c.SetFader(r.Context(), chi.URLParam(r, "name"), req.Position)
	h.reply(w, map[string]float64{"db": db}, err)
}

func (h *handler) toggleSolo(w http.ResponseWriter, r *http.Request) {
	ch, err := intParam(r, "channel")
	if err != nil {
		h.writeError(w, err)
		return
	}
	soloed, err := h.c.ToggleSolo(r.Context(), ch)
	h.reply(w, map[string]int{"soloed": soloed}, err)
}

func (h *handler) clearSolo(w http.ResponseWriter, r *http.Request) {
	h.reply(w, nil, h.c.ClearSolo(r.Context()))
}

func (h *handler) reverb(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Size  int     `json:"size"`
		Decay float64 `json:"decay"`
	}
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetReverb(r.Context(), req.Size, req.Decay))
}

func (h *handler) delay(w http.ResponseWriter, r *http.Request) {
	var req snapshot.Delay
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.SetDelay(r.Context(), req))
}

func (h *handler) placeSpeaker(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.PlaceSpeaker(r.Context(), req.point()))
}

func (h *handler) removeSpeaker(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.reply(w, nil, h.c.RemoveSpeaker(r.Context(), req.point()))
}

func (h *handler) sendSpeakers(w http.ResponseWriter, r *http.Request) {
	h.reply(w, nil, h.c.SendSpeakers(r.Context()))
}
