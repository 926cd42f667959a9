package connection

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/servctl/internal/outbox"
	"github.com/rickgao/servctl/internal/registry"
)

// Handler accepts websocket connections and runs their lifecycle.
type Handler struct {
	cfg        Config
	registry   *registry.Registry
	dispatcher Dispatcher
	logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// NewHandler creates a Handler.
func NewHandler(cfg Config, reg *registry.Registry, d Dispatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:        cfg,
		registry:   reg,
		dispatcher: d,
		logger:     logger,
		upgrader: websocket.Upgrader{
			// Operators connect from tools, not pages on our origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP checks the token, upgrades the request and serves the connection
// until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.logger.Warn("rejected unauthorized connection", "remote", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	h.Serve(r.Context(), conn, r.RemoteAddr)
}

// Serve runs one connection from OPEN to CLOSED. It returns after the
// identity is deregistered and the socket is closed. Cancelling ctx closes
// the socket.
func (h *Handler) Serve(ctx context.Context, conn *websocket.Conn, remoteAddr string) {
	id := registry.NewID()
	logger := h.logger.With("client_id", id)
	logger.Info("client connected", "remote", remoteAddr)

	out := outbox.New[string]()
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		h.forward(conn, out, logger)
	}()

	h.registry.Insert(id, registry.NewEntry(out, remoteAddr))

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}
	if h.cfg.PingInterval > 0 {
		h.extendReadDeadline(conn)
		conn.SetPongHandler(func(string) error {
			h.extendReadDeadline(conn)
			return nil
		})
		go h.keepalive(conn, stop, logger)
	}

	h.readLoop(ctx, conn, id, logger)

	close(stop)
	h.registry.Remove(id)
	<-forwardDone
	conn.Close()

	logger.Info("client disconnected")
}

// readLoop dispatches inbound text frames until the stream ends.
func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, id string, logger *slog.Logger) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Debug("connection closed", "reason", err)
			} else {
				logger.Warn("error receiving message", "error", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			if h.cfg.PingInterval > 0 {
				h.extendReadDeadline(conn)
			}
			continue
		}

		// Pongs are only consumed by ReadMessage, so a slow command such as
		// RESTART must not count against the pong timeout.
		if h.cfg.PingInterval > 0 {
			conn.SetReadDeadline(time.Time{})
		}
		resp, ok := h.dispatcher.Dispatch(ctx, string(data))
		if h.cfg.PingInterval > 0 {
			h.extendReadDeadline(conn)
		}
		if !ok {
			continue
		}
		if !h.registry.Send(id, resp) {
			logger.Debug("response dropped, outbox closed")
		}
	}
}

// forward drains the outbox to the socket until the outbox is closed and
// empty or a write fails. On exit the outbox is closed so later sends report
// failure instead of queueing forever.
func (h *Handler) forward(conn *websocket.Conn, out *outbox.Queue[string], logger *slog.Logger) {
	defer out.Close()

	for {
		msg, ok := out.Receive()
		if !ok {
			return
		}

		if h.cfg.WriteTimeout > 0 {
			conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			logger.Warn("error sending websocket msg", "error", err)
			return
		}
	}
}

// keepalive pings the peer until stop is closed.
func (h *Handler) keepalive(conn *websocket.Conn, stop <-chan struct{}, logger *slog.Logger) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (h *Handler) extendReadDeadline(conn *websocket.Conn) {
	if h.cfg.PongTimeout <= 0 {
		return
	}
	conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
}

// authorized accepts "Authorization: Bearer <token>" or a token query
// parameter for clients that cannot set headers.
func (h *Handler) authorized(r *http.Request) bool {
	if h.cfg.AuthToken == "" {
		return true
	}

	token := r.URL.Query().Get("token")
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.AuthToken)) == 1
}
