package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nstehr/arena-core/agent"
	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/telemetry"
)

// maxBody bounds a posted level snapshot.
const maxBody = 4 << 20

// Player decides one tick.
type Player interface {
	Play(snap model.Snapshot) agent.Decision
}

// Config wires the handler. Store and Monitor are optional; without them
// the diagnostic routes answer 404.
type Config struct {
	Player  Player
	Store   telemetry.SnapshotStore
	Monitor *agent.Monitor
}

// NewHandler returns the HTTP surface:
//
//	GET  /              liveness probe used by the game host, answers ["dash"]
//	POST /              level snapshot in, moves out
//	GET  /healthz       plain ok
//	GET  /ws            websocket, one snapshot per text message
//	GET  /deaths/{id}   latest stored death snapshot for a player
//	GET  /deaths/{id}/history?limit=n   stored deaths, newest first
//	GET  /events        recent diagnostic events
func NewHandler(cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Move{model.Dash})
	})

	mux.HandleFunc("POST /{$}", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			httpError(w, "failed to read body", http.StatusBadRequest)
			return
		}
		snap, err := model.DecodeSnapshot(body)
		if err != nil {
			slog.Warn("rejected level data", "error", err)
			httpError(w, err.Error(), http.StatusBadRequest)
			return
		}
		d := cfg.Player.Play(snap)
		writeJSON(w, http.StatusOK, d.Moves)
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.Handle("GET /ws", NewWSHandler(cfg.Player))

	mux.HandleFunc("GET /deaths/{id}", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Store == nil {
			http.NotFound(w, r)
			return
		}
		rec, err := cfg.Store.LatestDeath(r.Context(), model.ID(r.PathValue("id")))
		if errors.Is(err, telemetry.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("failed to load death snapshot", "error", err)
			httpError(w, "failed to load death snapshot", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	mux.HandleFunc("GET /deaths/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Store == nil {
			http.NotFound(w, r)
			return
		}
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				httpError(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}
		recs, err := cfg.Store.History(r.Context(), model.ID(r.PathValue("id")), limit)
		if err != nil {
			slog.Error("failed to load death history", "error", err)
			httpError(w, "failed to load death history", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, recs)
	})

	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Monitor == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, cfg.Monitor.Events())
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		httpError(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func httpError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
