package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/round"
)

type WSHandler struct {
	service   *app.GameService
	roundCfg  round.Config
	roundOpts []round.Option
	logger    *log.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(service *app.GameService, roundCfg round.Config, logger *log.Logger, roundOpts ...round.Option) *WSHandler {
	return &WSHandler{
		service:   service,
		roundCfg:  roundCfg,
		roundOpts: append([]round.Option{round.WithLogger(logger)}, roundOpts...),
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Index int `json:"index"`
}

type roundPayload struct {
	Round     domain.RoundSnapshot `json:"round"`
	Effects   []domain.Effect      `json:"effects,omitempty"`
	GameScore int                  `json:"gameScore"`
}

type joinedPayload struct {
	SessionID string               `json:"sessionId"`
	Round     domain.RoundSnapshot `json:"round"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one game per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	displayName := r.URL.Query().Get("name")
	if playerID == "" || displayName == "" {
		http.Error(w, "missing playerId or name", http.StatusBadRequest)
		return
	}
	books, err := domain.ParseBooks(r.URL.Query().Get("books"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session, err := h.service.StartGame(ctx, playerID, displayName, books)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	ctrl := round.New(session, h.roundCfg, h.roundOpts...)
	joined := ctrl.Start(session.CurrentQuestion())
	updates, cancel := ctrl.Subscribe()
	defer cancel()
	defer h.finish(session, ctrl)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "err", err)
				// Keep draining so producers never block on a dead connection.
				for range send {
				}
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{SessionID: session.ID(), Round: joined}}

	go func() {
		defer close(updatesDone)
		<-updates // initial snapshot already sent as joined
		for {
			select {
			case ev, ok := <-updates:
				if !ok {
					return
				}
				msg := outboundMessage[any]{Type: "round", Payload: roundPayload{
					Round:     ev.Snapshot,
					Effects:   ev.Effects,
					GameScore: session.Summary().GameScore,
				}}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	ended := false
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if ended = h.handle(ctx, inbound, ctrl, session, send); ended {
			break
		}
	}

	if ended {
		// End closed the event stream; wait until its last round message is
		// queued so the summary goes out after it.
		<-updatesDone
		send <- outboundMessage[any]{Type: "ended", Payload: session.Summary()}
	}
	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle applies one inbound intent and reports whether the player ended the game.
func (h *WSHandler) handle(ctx context.Context, inbound inboundMessage, ctrl *round.Controller, session *app.GameSession, send chan<- outboundMessage[any]) bool {
	switch inbound.Type {
	case "revealHint":
		ctrl.RevealHint()
	case "revealBook":
		ctrl.RevealBook()
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
			return false
		}
		ctrl.TapAnswer(payload.Index)
	case "advance":
		if _, err := ctrl.Advance(ctx); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		}
	case "end":
		h.finish(session, ctrl)
		return true
	default:
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
	}
	return false
}

// finish ends the round and drops the session; safe to call twice.
func (h *WSHandler) finish(session *app.GameSession, ctrl *round.Controller) {
	ctx := context.Background()
	if err := ctrl.End(ctx); err != nil {
		h.logger.Error("end game", "session", session.ID(), "err", err)
	}
	if err := h.service.Finish(ctx, session.ID()); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		h.logger.Error("finish session", "session", session.ID(), "err", err)
	}
}
