package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shahar-caura/lifeline/internal/session"
	"github.com/shahar-caura/lifeline/internal/state"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// wsInbound is one command from a responder's device.
type wsInbound struct {
	Op          string `json:"op"`
	Description string `json:"description,omitempty"`
	Image       []byte `json:"image,omitempty"`
	Step        int    `json:"step,omitempty"`
	Text        string `json:"text,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Target      string `json:"target,omitempty"`
}

type wsOutbound struct {
	Type    string        `json:"type"`
	View    *session.View `json:"view,omitempty"`
	Summary string        `json:"summary,omitempty"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message,omitempty"`
}

// sessionWS drives one session over a websocket. Every command is answered
// with the resulting view, or an error message.
func (h *Handlers) sessionWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !state.ValidID(id) {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		h.Logger.Debug("ws: set read deadline failed", "id", id, "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Greet with the current view so the client can render immediately.
	v, err := h.Sessions.Create(ctx, id)
	if err != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		_ = conn.WriteJSON(wsError(err))
		return
	}

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	pushWS(writeCh, wsOutbound{Type: "view", View: &v})

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		pushWS(writeCh, h.dispatchWS(ctx, id, in))
	}
}

func (h *Handlers) dispatchWS(ctx context.Context, id string, in wsInbound) wsOutbound {
	var (
		v   session.View
		err error
	)
	switch strings.ToLower(strings.TrimSpace(in.Op)) {
	case "":
		return wsOutbound{Type: "error", Code: "invalid_argument", Message: "op is required"}
	case "ping":
		return wsOutbound{Type: "pong"}
	case "get":
		v, err = h.Sessions.Get(ctx, id)
	case "start":
		v, err = h.Sessions.Start(ctx, id, in.Description, in.Image)
	case "advance", "next":
		v, err = h.Sessions.Advance(ctx, id)
	case "retreat", "back":
		v, err = h.Sessions.Retreat(ctx, id)
	case "log":
		v, err = h.Sessions.LogAction(ctx, id, in.Step, in.Text)
	case "notes":
		v, err = h.Sessions.SetNotes(ctx, id, in.Notes)
	case "toggle_summary":
		v, err = h.Sessions.ToggleSummary(ctx, id)
	case "reset":
		v, err = h.Sessions.Reset(ctx, id)
	case "summary":
		text, err := h.Sessions.Summary(ctx, id)
		if err != nil {
			return wsError(err)
		}
		return wsOutbound{Type: "summary", Summary: text}
	case "speak":
		if err := h.Sessions.Speak(ctx, id, in.Target); err != nil {
			return wsError(err)
		}
		return wsOutbound{Type: "spoken"}
	default:
		return wsOutbound{Type: "error", Code: "invalid_argument", Message: "unsupported op: " + in.Op}
	}
	if err != nil {
		return wsError(err)
	}
	return wsOutbound{Type: "view", View: &v}
}

func wsError(err error) wsOutbound {
	code := "internal"
	switch {
	case errors.Is(err, session.ErrNotFound):
		code = "not_found"
	case errors.Is(err, session.ErrNoIncident):
		code = "failed_precondition"
	case errors.Is(err, session.ErrInvalidID), errors.Is(err, session.ErrInvalidArgument):
		code = "invalid_argument"
	case errors.Is(err, session.ErrUnavailable):
		code = "unimplemented"
	}
	return wsOutbound{Type: "error", Code: code, Message: err.Error()}
}

// pushWS enqueues out, dropping the oldest queued message when full.
func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
