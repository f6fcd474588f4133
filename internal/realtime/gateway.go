// Package realtime implementa el transporte de conexiones persistentes
// (websocket) y su integración con la verificación de claims y el registro
// de presencia.
package realtime

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/dropDatabas3/gatewarden/internal/claims"
	httpx "github.com/dropDatabas3/gatewarden/internal/http"
	httperrors "github.com/dropDatabas3/gatewarden/internal/http/errors"
	"github.com/dropDatabas3/gatewarden/internal/observability/logger"
	"github.com/dropDatabas3/gatewarden/internal/presence"
	"github.com/dropDatabas3/gatewarden/internal/security/verification"
)

const (
	wsSubprotocol = "gatewarden.v1"

	wsDefaultSendQueueSize = 256
	wsMinSendQueueSize     = 32

	wsDefaultWriteTimeout   = 5 * time.Second
	wsDefaultReadIdle       = 2 * time.Minute
	wsDefaultHeartbeatEvery = 30 * time.Second
	wsHeartbeatTimeout      = 10 * time.Second
	wsCloseGrace            = 1 * time.Second

	wsMaxFrameBytes   = 32 * 1024
	wsMaxPingFailures = 3
)

// Config del gateway. Origin requerido por default (secure-by-default).
type Config struct {
	OriginRequired bool
	AllowedOrigins []string

	SendQueueSize  int
	WriteTimeout   time.Duration
	ReadIdle       time.Duration
	HeartbeatEvery time.Duration
}

// Gateway es el entrypoint websocket.
//
// Aplica política de origin, verificación de claims ANTES del upgrade
// (una cuenta sin verificar no llega a establecer conexión), presencia en
// el cache compartido, heartbeats y cola de envío acotada por conexión.
type Gateway struct {
	verifier *claims.Verifier
	registry *presence.Registry
	hub      *Hub

	originRequired bool
	allowedOrigins []string
	// websocket.Accept exige OriginPatterns para cross-origin; se derivan
	// del allowlist para que las dos capas estén de acuerdo.
	originPatterns []string

	sendQueueSize  int
	writeTimeout   time.Duration
	readIdle       time.Duration
	heartbeatEvery time.Duration
}

// NewGateway crea el gateway con defaults seguros.
func NewGateway(verifier *claims.Verifier, registry *presence.Registry, cfg Config) *Gateway {
	g := &Gateway{
		verifier: verifier,
		registry: registry,
		hub:      NewHub(),

		originRequired: cfg.OriginRequired,
		allowedOrigins: cfg.AllowedOrigins,
		originPatterns: deriveOriginPatterns(cfg.AllowedOrigins),

		sendQueueSize:  cfg.SendQueueSize,
		writeTimeout:   cfg.WriteTimeout,
		readIdle:       cfg.ReadIdle,
		heartbeatEvery: cfg.HeartbeatEvery,
	}

	if g.sendQueueSize <= 0 {
		g.sendQueueSize = wsDefaultSendQueueSize
	}
	if g.sendQueueSize < wsMinSendQueueSize {
		g.sendQueueSize = wsMinSendQueueSize
	}
	if g.writeTimeout <= 0 {
		g.writeTimeout = wsDefaultWriteTimeout
	}
	if g.readIdle <= 0 {
		g.readIdle = wsDefaultReadIdle
	}
	if g.heartbeatEvery <= 0 {
		g.heartbeatEvery = wsDefaultHeartbeatEvery
	}

	return g
}

// envelope es el frame JSON que viaja por la conexión.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	TS      time.Time       `json:"ts"`
}

// Deliver encola el payload a las conexiones locales del subject en el scope.
// Devuelve cuántas conexiones lo recibieron.
func (g *Gateway) Deliver(ctx context.Context, subjectID, scope string, payload json.RawMessage) int {
	env := envelope{Type: "deliver", Payload: payload, TS: time.Now().UTC()}
	b, err := json.Marshal(env)
	if err != nil {
		logger.From(ctx).Error("failed to marshal delivery envelope", logger.Err(err))
		return 0
	}

	n := g.hub.Deliver(subjectID, scope, b)
	logger.From(ctx).Debug("payload delivered",
		logger.SubjectID(subjectID),
		logger.Scope(scope),
		logger.Count(n),
	)
	return n
}

// ServeHTTP atiende GET /v1/ws?scope=...&token=...
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("ws"))

	if err := g.enforceOrigin(r); err != nil {
		log.Info("ws origin rejected",
			logger.String("origin", r.Header.Get("Origin")),
			logger.Err(err),
		)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	// Autenticación y verificación ANTES del upgrade: la conexión de una
	// cuenta sin verificar no debe llegar a establecerse.
	cl, appErr := g.authenticate(r)
	if appErr != nil {
		httperrors.WriteError(w, r, appErr)
		return
	}

	scope := strings.TrimSpace(r.URL.Query().Get("scope"))
	if scope == "" {
		httperrors.WriteError(w, r, httperrors.ErrMissingFields.WithDetail("scope es requerido"))
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{wsSubprotocol},
		OriginPatterns: g.originPatterns,
	})
	if err != nil {
		log.Error("ws accept failed", logger.Err(err))
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	conn.SetReadLimit(wsMaxFrameBytes)

	handle := uuid.NewString()
	client := NewClient(handle, cl.Subject, scope, g.sendQueueSize)
	log = log.With(logger.SubjectID(cl.Subject), logger.Scope(scope), logger.Handle(handle))

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := g.registry.Attach(connCtx, cl.Subject, scope, handle); err != nil {
		log.Error("presence attach failed", logger.Err(err))
		_ = conn.Close(websocket.StatusInternalError, "presence unavailable")
		return
	}

	g.hub.Register(client)
	httpx.RecordWSConnection(1)
	log.Info("ws connection established")

	var closeOnce sync.Once
	shutdown := func(code websocket.StatusCode, reason string) {
		closeOnce.Do(func() {
			g.hub.Unregister(client)
			httpx.RecordWSConnection(-1)

			// Detach con ctx propio: el de la conexión ya puede estar cancelado.
			detachCtx, detachCancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := g.registry.Detach(detachCtx, cl.Subject, scope, handle); err != nil {
				log.Warn("presence detach failed", logger.Err(err))
			}
			detachCancel()

			client.Close()
			_ = conn.Close(code, reason)
			cancel()
			log.Info("ws connection closed", logger.String("reason", reason))
		})
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-connCtx.Done():
				return
			case <-client.Done():
				return
			case payload := <-client.Send:
				if err := g.write(connCtx, conn, payload); err != nil {
					log.Info("ws write failed", logger.Err(err))
					shutdown(websocket.StatusAbnormalClosure, "write failed")
					return
				}
			}
		}
	}()

	heartbeatDone := make(chan struct{})
	go func() {
		defer close(heartbeatDone)

		t := time.NewTicker(g.heartbeatEvery)
		defer t.Stop()

		failures := 0
		for {
			select {
			case <-connCtx.Done():
				return
			case <-client.Done():
				return
			case <-t.C:
				hbCtx, hbCancel := context.WithTimeout(connCtx, wsHeartbeatTimeout)
				err := conn.Ping(hbCtx)
				hbCancel()

				if err != nil {
					failures++
					if failures >= wsMaxPingFailures {
						shutdown(websocket.StatusGoingAway, "heartbeat failed")
						return
					}
					continue
				}
				failures = 0
			}
		}
	}()

readLoop:
	for {
		readCtx, readCancel := context.WithTimeout(connCtx, g.readIdle)
		env, err := g.read(readCtx, conn)
		readCancel()

		if err != nil {
			switch classifyReadErr(err) {
			case readErrClose:
				shutdown(websocket.StatusNormalClosure, "peer closed")
			case readErrCtxDone:
				shutdown(websocket.StatusNormalClosure, "context done")
			case readErrConnClosed:
				shutdown(websocket.StatusAbnormalClosure, "conn closed")
			case readErrBadJSON:
				g.trySendError(connCtx, client, "bad_json")
				continue readLoop
			default:
				log.Info("ws read failed", logger.Err(err))
				shutdown(websocket.StatusAbnormalClosure, "read failed")
			}
			break readLoop
		}

		switch env.Type {
		case "ping":
			g.enqueue(connCtx, client, envelope{Type: "pong", TS: time.Now().UTC()})
		default:
			// Los frames entrantes no mutan estado: las operaciones con
			// side effects viajan por HTTP con su check CSRF.
			g.trySendError(connCtx, client, "unsupported")
		}
	}

	shutdown(websocket.StatusNormalClosure, "bye")
	<-writerDone

	select {
	case <-heartbeatDone:
	case <-time.After(wsCloseGrace):
	}
}

// authenticate saca el token del query param o del header Authorization y
// corre el mismo camino de verificación que el transporte request/response,
// con caller de conexión.
func (g *Gateway) authenticate(r *http.Request) (*claims.Claims, *httperrors.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get("token"))
	if raw == "" {
		if ah := strings.TrimSpace(r.Header.Get("Authorization")); strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			raw = strings.TrimSpace(ah[len("Bearer "):])
		}
	}
	if raw == "" {
		return nil, httperrors.ErrTokenMissing
	}

	cl, err := g.verifier.Verify(raw)
	if err != nil {
		return nil, httperrors.ErrUnauthorized.WithCause(err)
	}

	if err := verification.Require(cl, verification.ConnectionCaller{}); err != nil {
		if stderrors.Is(err, verification.ErrUnverifiedConnection) {
			httpx.RecordVerificationDenial("connection")
			return nil, httperrors.ErrUnverifiedConnection
		}
		return nil, httperrors.ErrUnauthorized.WithCause(err)
	}

	return cl, nil
}

func (g *Gateway) enqueue(ctx context.Context, client *Client, env envelope) bool {
	b, err := json.Marshal(env)
	if err != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-client.Done():
		return false
	case client.Send <- b:
		return true
	default:
		return false
	}
}

func (g *Gateway) trySendError(ctx context.Context, client *Client, code string) {
	p, _ := json.Marshal(map[string]string{"code": code})
	_ = g.enqueue(ctx, client, envelope{Type: "error", Payload: p, TS: time.Now().UTC()})
}

func (g *Gateway) read(ctx context.Context, conn *websocket.Conn) (envelope, error) {
	mt, data, err := conn.Read(ctx)
	if err != nil {
		return envelope{}, err
	}
	if mt != websocket.MessageText && mt != websocket.MessageBinary {
		return envelope{}, errUnsupportedFrame
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, err
	}
	return env, nil
}

func (g *Gateway) write(parent context.Context, conn *websocket.Conn, payload []byte) error {
	ctx, cancel := context.WithTimeout(parent, g.writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

var errUnsupportedFrame = stderrors.New("realtime: unsupported frame type")
