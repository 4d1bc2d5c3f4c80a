package chat

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chatrelaygo/internal/services/auth"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10 // must be < pongWait
	maxMessageSize  = 4096
	dispatchTimeout = 2 * time.Second
)

type WsServer struct {
	gateway  *Gateway
	router   *Router
	authSvc  auth.IAuthService
	upgrader websocket.Upgrader
}

func NewWsServer(gw *Gateway, authSvc auth.IAuthService) *WsServer {
	srv := &WsServer{
		gateway: gw,
		router:  NewRouter(),
		authSvc: authSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true }, // dev-only
		},
	}
	srv.registerHandlers() // ← all WS events configured here
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

// Handle authenticates the handshake and, on success, upgrades and admits
// the connection. Verification is a single synchronous check; any failure
// terminates the connection attempt with no session created.
func (s *WsServer) Handle(ginCtx *gin.Context) {
	token := ginCtx.Query("token")
	if token == "" {
		token = strings.TrimPrefix(ginCtx.GetHeader("Authorization"), "Bearer ")
	}

	who, err := s.authSvc.VerifyToken(token)
	if err != nil {
		zap.L().Warn("ws.auth_rejected", zap.String("remote", ginCtx.ClientIP()))
		ginCtx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.upgrade", zap.Error(err))
		return
	}

	// ─────────────────── Client admitted ────────────────────────
	connID := uuid.NewString()
	wsConn := &clientConn{rawConn: rawConn}

	if err := s.gateway.Connect(connID, wsConn, who); err != nil {
		zap.L().Error("ws.admit", zap.String("conn_id", connID), zap.Error(err))
		_ = wsConn.Close()
		return
	}
	zap.L().Info("ws.connected",
		zap.String("user", who.Username),
		zap.String("role", who.Role),
		zap.String("conn_id", connID),
	)

	go s.reader(connID, wsConn)
	go s.pinger(wsConn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

func (s *WsServer) registerHandlers() {
	Register(s.router, evtInJoinRoom,
		func(ctx context.Context, cc *ConnContext, room string) error {
			s.gateway.JoinRoom(cc.ConnID, room)
			return nil
		})

	Register(s.router, evtInMessage,
		func(ctx context.Context, cc *ConnContext, req MessageBody) error {
			s.gateway.SendMessage(cc.ConnID, req.Content)
			return nil
		})

	Register(s.router, evtInTyping,
		func(ctx context.Context, cc *ConnContext, isTyping bool) error {
			s.gateway.SetTyping(cc.ConnID, isTyping)
			return nil
		})

	Register(s.router, evtInChangeNickname,
		func(ctx context.Context, cc *ConnContext, nickname string) error {
			s.gateway.ChangeNickname(cc.ConnID, nickname)
			return nil
		})

	Register(s.router, evtInCreateRoom,
		func(ctx context.Context, cc *ConnContext, room string) error {
			s.gateway.CreateRoom(cc.ConnID, room)
			return nil
		})

	Register(s.router, evtInDeleteRoom,
		func(ctx context.Context, cc *ConnContext, room string) error {
			s.gateway.DeleteRoom(cc.ConnID, room)
			return nil
		})
}

func (s *WsServer) reader(connID string, conn *clientConn) {
	defer func() {
		s.gateway.Disconnect(connID)
		_ = conn.Close()
		zap.L().Info("ws.disconnected", zap.String("conn_id", connID))
	}()

	conn.rawConn.SetReadLimit(maxMessageSize)
	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{ConnID: connID}

	for {
		var env Envelope
		if err := conn.rawConn.ReadJSON(&env); err != nil {
			return // client closed or errored
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		err := s.router.dispatch(ctx, cc, env)
		cancel()

		// Malformed or unknown events are dropped without a reply.
		if err != nil {
			zap.L().Debug("ws.dispatch_dropped",
				zap.String("event", env.Event), zap.Error(err))
		}
	}
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			_ = conn.Close()
			return
		}
	}
}
