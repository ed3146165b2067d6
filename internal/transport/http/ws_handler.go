package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirerelay-server/internal/config"
	"github.com/vovakirdan/wirerelay-server/internal/core"
	"github.com/vovakirdan/wirerelay-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core endpoints.
type WSHandler struct {
	hub    *core.Hub
	cfg    *config.Config
	log    *zerolog.Logger
	accept *websocket.AcceptOptions
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	accept := &websocket.AcceptOptions{}
	if origin, err := cfg.FrontendOrigin(); err == nil && origin != nil {
		accept.OriginPatterns = []string{origin.Host}
	} else {
		accept.InsecureSkipVerify = true
	}
	return &WSHandler{hub: hub, cfg: cfg, log: logger, accept: accept}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.cfg.MaxMessageBytes)

	endpoint := core.NewEndpoint(uuid.NewString(), h.cfg.SendBuffer)
	if err := h.hub.Connect(endpoint); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer func() {
		if err := h.hub.Disconnect(endpoint.ID); err != nil {
			h.log.Debug().Err(err).Str("endpoint_id", endpoint.ID).Msg("disconnect after hub stop")
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, endpoint)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, endpoint)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	switch code := websocket.CloseStatus(err); {
	case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
	case code == websocket.StatusNormalClosure, code == websocket.StatusGoingAway:
	case errors.Is(err, core.ErrHubStopped):
		status = websocket.StatusGoingAway
		reason = "server shutting down"
	default:
		status = websocket.StatusInternalError
		reason = "internal error"
		h.log.Warn().Err(err).Str("endpoint_id", endpoint.ID).Msg("ws connection closed with error")
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, endpoint *core.Endpoint) error {
	limiter := newRateLimiter(h.cfg.RateLimitPerMinute)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if !limiter.allow() {
			if err := h.writeError(ctx, conn, core.ErrCodeRateLimited, "too many messages"); err != nil {
				return err
			}
			continue
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Str("endpoint_id", endpoint.ID).Msg("malformed ws inbound")
			if err := h.writeError(ctx, conn, core.ErrCodeBadRequest, "malformed message"); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr := inboundToCommand(endpoint.ID, inbound)
		if protoErr != nil {
			if err := h.write(ctx, conn, errorOutbound(protoErr)); err != nil {
				return err
			}
			continue
		}
		if err := h.hub.Dispatch(*cmd); err != nil {
			return err
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, endpoint *core.Endpoint) error {
	var ping <-chan time.Time
	if h.cfg.PingInterval > 0 {
		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case event, ok := <-endpoint.Events:
			if !ok {
				return core.ErrHubStopped
			}
			if err := h.write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("endpoint_id", endpoint.ID).Msg("write ws event")
				return err
			}
		case <-ping:
			if err := h.ping(ctx, conn); err != nil {
				return err
			}
		case <-h.hub.Done():
			return core.ErrHubStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, v any) error {
	if h.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.WriteTimeout)
		defer cancel()
	}
	return wsjson.Write(ctx, conn, v)
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return h.write(ctx, conn, errorOutbound(&proto.Error{Code: code, Msg: msg}))
}

func (h *WSHandler) ping(ctx context.Context, conn *websocket.Conn) error {
	if h.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.WriteTimeout)
		defer cancel()
	}
	return conn.Ping(ctx)
}
