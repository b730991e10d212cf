package handlers

import (
	"clementus360/doit/celebrate"
	"clementus360/doit/config"
	"clementus360/doit/store"
	"clementus360/doit/types"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const keepAliveInterval = 25 * time.Second

// stateEvent carries no identity details; clients that need them ask
// GET /session.
type stateEvent struct {
	Tasks         []types.Task `json:"tasks"`
	Categories    []string     `json:"categories"`
	Authenticated bool         `json:"authenticated"`
}

type celebrateEvent struct {
	At time.Time `json:"at"`
}

func newStateEvent(s store.Snapshot) stateEvent {
	tasks := s.Tasks
	if tasks == nil {
		tasks = []types.Task{}
	}
	return stateEvent{
		Tasks:         tasks,
		Categories:    s.Categories,
		Authenticated: s.Authenticated(),
	}
}

func writeEvent(w http.ResponseWriter, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

// EventsHandler streams the store state as server-sent events. The current
// state is sent on connect and again after every change. Slow clients only
// ever see the newest state.
func (h *Handler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	states := make(chan store.Snapshot, 1)
	unsubscribe := h.store.Subscribe(func(s store.Snapshot) {
		for {
			select {
			case states <- s:
				return
			default:
			}
			select {
			case <-states:
			default:
			}
		}
	})
	defer unsubscribe()

	var celebrations <-chan celebrate.Event
	if h.celebrations != nil {
		ch, stop := h.celebrations.Subscribe(4)
		defer stop()
		celebrations = ch
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, config.EventState, newStateEvent(h.store.Snapshot())); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case snap := <-states:
			err = writeEvent(w, config.EventState, newStateEvent(snap))
		case ev, open := <-celebrations:
			if !open {
				celebrations = nil
				continue
			}
			err = writeEvent(w, config.EventCelebrate, celebrateEvent{At: ev.At})
		case <-ticker.C:
			_, err = fmt.Fprint(w, ": ping\n\n")
		}
		if err != nil {
			h.log.WithError(err).Debug("Event stream closed")
			return
		}
		flusher.Flush()
	}
}
