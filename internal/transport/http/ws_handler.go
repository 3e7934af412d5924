package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"slices"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/tutorcall-signal/internal/auth"
	"github.com/vovakirdan/tutorcall-signal/internal/config"
	"github.com/vovakirdan/tutorcall-signal/internal/core"
	"github.com/vovakirdan/tutorcall-signal/internal/proto"
	"github.com/vovakirdan/tutorcall-signal/internal/utils"
)

// maxCloseReason is the longest close reason a control frame can carry.
const maxCloseReason = 123

// WSHandler upgrades HTTP connections and bridges them to core.Peer.
type WSHandler struct {
	relay    *core.Relay
	cfg      *config.Config
	identity *auth.IdentityConfig
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(relay *core.Relay, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		relay: relay,
		cfg:   cfg,
		identity: &auth.IdentityConfig{
			Secret: []byte(cfg.IdentitySecret),
			Issuer: cfg.IdentityIssuer,
		},
		log: logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.cfg.MaxMessageBytes)

	name, protoErr := h.resolveIdentity(r)
	if protoErr != nil {
		_ = h.write(ctx, conn, proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr})
		conn.Close(websocket.StatusPolicyViolation, protoErr.Msg)
		return
	}

	peer := core.NewPeer(utils.NewID(), name, h.cfg.SendBuffer)
	logger := h.log.With().Str("peer_id", peer.ID).Logger()
	logger.Debug().Str("remote", r.RemoteAddr).Msg("ws connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)
	go func() {
		errCh <- h.readLoop(ctx, conn, peer, &logger)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, peer, &logger)
	}()
	go func() {
		errCh <- h.relay.Serve(ctx, peer)
	}()

	err = <-errCh

	// Close before cancelling so the peer sees our status code rather than a
	// reset caused by the aborted read.
	status, reason := closeStatus(err)
	if status != websocket.StatusNormalClosure {
		logger.Warn().Err(err).Int("status", int(status)).Msg("ws connection closed with error")
	}
	conn.Close(status, reason)

	cancel() // stop the other goroutines
	<-errCh
	<-errCh
}

func (h *WSHandler) acceptOptions() *websocket.AcceptOptions {
	origins := h.cfg.AllowedOrigins
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	return &websocket.AcceptOptions{OriginPatterns: originPatterns(origins)}
}

// originPatterns reduces configured origins to the host patterns the
// websocket library matches against, so "https://app.example.com/" and
// "app.example.com" are equivalent.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if i := strings.Index(origin, "://"); i >= 0 {
			origin = origin[i+3:]
		}
		origin = strings.TrimRight(origin, "/")
		if origin != "" {
			patterns = append(patterns, origin)
		}
	}
	return patterns
}

// resolveIdentity picks the display label: a verified token wins over the name query param.
func (h *WSHandler) resolveIdentity(r *stdhttp.Request) (string, *proto.Error) {
	name := cleanName(r.URL.Query().Get("name"))
	if !h.identity.Enabled() {
		return name, nil
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" && !h.cfg.IdentityRequired {
		return name, nil
	}

	claims, err := auth.ParseIdentityToken(h.identity, token)
	if err != nil {
		h.log.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("identity token rejected")
		return "", &proto.Error{Code: core.ErrCodeUnauthorized, Msg: "invalid identity token"}
	}
	return cleanName(claims.DisplayName()), nil
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, peer *core.Peer, logger *zerolog.Logger) error {
	limiter := newRateLimiter(h.cfg.RateLimitPerMinute)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		if !limiter.allow() {
			logger.Debug().Msg("inbound rate limited")
			if err := h.write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: core.ErrCodeRateLimited, Msg: "too many messages"},
			}); err != nil {
				return err
			}
			continue
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			logger.Debug().Err(err).Msg("malformed inbound envelope")
			if err := h.write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "malformed message"},
			}); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			if err := h.write(ctx, conn, proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr}); err != nil {
				return err
			}
			continue
		}
		cmd.Name = cleanName(cmd.Name)

		select {
		case peer.Commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, peer *core.Peer, logger *zerolog.Logger) error {
	for {
		select {
		case event := <-peer.Events:
			if err := h.write(ctx, conn, outboundFromEvent(event)); err != nil {
				logger.Error().Err(err).Str("event", event.Kind.String()).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) write(ctx context.Context, conn *websocket.Conn, out proto.Outbound) error {
	if h.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.WriteTimeout)
		defer cancel()
	}
	return wsjson.Write(ctx, conn, out)
}

func closeStatus(err error) (websocket.StatusCode, string) {
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		return websocket.StatusNormalClosure, "closing"
	case errors.Is(err, core.ErrJoinTimeout):
		return websocket.StatusPolicyViolation, "join timeout"
	case errors.Is(err, core.ErrPeerOverflow):
		return websocket.StatusTryAgainLater, "outbound queue overflow"
	}

	switch s := websocket.CloseStatus(err); s {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway, websocket.StatusNoStatusRcvd:
		return websocket.StatusNormalClosure, "closing"
	case -1:
	default:
		return s, "closing"
	}

	reason := err.Error()
	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
	}
	return websocket.StatusInternalError, reason
}

// cleanName trims a display label to something safe to echo to the other peer.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > 64 {
		name = string(r[:64])
	}
	return name
}
