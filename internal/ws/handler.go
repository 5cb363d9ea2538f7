package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"draw-poker/internal/config"
	"draw-poker/internal/middleware"
	"draw-poker/internal/service/game"
	"draw-poker/internal/service/lobby"
	appErr "draw-poker/pkg/errors"
	"draw-poker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Subscriptions is the connection side of the session registry.
type Subscriptions interface {
	Subscribe(identity string) (uint64, <-chan game.OutgoingMessage)
	Unsubscribe(identity string, id uint64)
}

type Handler struct {
	lobbies  *lobby.Service
	resolver middleware.TokenResolver
	subs     Subscriptions
	cfg      config.SessionConfig
}

func NewHandler(lobbies *lobby.Service, resolver middleware.TokenResolver, subs Subscriptions, cfg config.SessionConfig) *Handler {
	return &Handler{lobbies: lobbies, resolver: resolver, subs: subs, cfg: cfg}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

func (h *Handler) HandleLobbyWS(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	token, err := middleware.BearerToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	identity, err := h.resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	table, err := h.lobbies.Get(code)
	if err != nil {
		if errors.Is(err, appErr.ErrLobbyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lobby not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lobby"})
		return
	}
	if !table.HasSeat(identity) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not seated in this lobby"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New WebSocket connection",
		zap.String(logger.LobbyKey, code),
		zap.String(logger.IdentityKey, identity),
	)

	cl := newClient(conn, identity, code, h)
	cl.send(game.OutgoingMessage{Type: "state", Data: table.GameState(identity, false)})
	cl.run()
}

type incomingMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	conn      *websocket.Conn
	identity  string
	code      string
	h         *Handler
	subID     uint64
	outbound  <-chan game.OutgoingMessage
	replies   chan game.OutgoingMessage
	limiter   *rate.Limiter
	done      chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, identity, code string, h *Handler) *client {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	perSecond := h.cfg.ActionsPerSecond
	if perSecond <= 0 {
		perSecond = config.DefaultSessionConfig().ActionsPerSecond
	}
	burst := h.cfg.ActionBurst
	if burst <= 0 {
		burst = config.DefaultSessionConfig().ActionBurst
	}

	id, outbound := h.subs.Subscribe(identity)
	return &client{
		conn:      conn,
		identity:  identity,
		code:      code,
		h:         h,
		subID:     id,
		outbound:  outbound,
		replies:   make(chan game.OutgoingMessage, 16),
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burst),
		done:      make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run() {
	go c.writePump()
	c.readPump()
}

func (c *client) log() *zap.Logger {
	return logger.Lobby(c.code).With(zap.String(logger.IdentityKey, c.identity))
}

func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.h.subs.Unsubscribe(c.identity, c.subID)
		c.conn.Close()
	}()

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			c.log().Info("WS read error", zap.Error(err))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		var incoming incomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.sendError("", appErr.ErrInvalidPayload)
			continue
		}
		if incoming.Type == "" {
			continue
		}
		if !c.limiter.Allow() {
			c.send(game.OutgoingMessage{
				Type: "error",
				Data: gin.H{"action": incoming.Type, "reason": "rate_limited"},
			})
			continue
		}

		reply, err := c.h.lobbies.HandleAction(c.identity, c.code, incoming.Type, incoming.Data)
		if err != nil {
			c.sendError(incoming.Type, err)
			continue
		}
		if reply != nil {
			c.send(*reply)
		}
		if incoming.Type == lobby.ActionLeave {
			return
		}
	}
}

// writePump is the only goroutine writing to the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := c.write(msg); err != nil {
				return
			}
		case msg := <-c.replies:
			if err := c.write(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) write(msg game.OutgoingMessage) error {
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.log().Info("WS write error", zap.Error(err))
		return err
	}
	return nil
}

// send queues a reply for this connection only.
func (c *client) send(msg game.OutgoingMessage) {
	select {
	case c.replies <- msg:
	default:
		c.log().Warn("reply dropped", zap.String("type", msg.Type))
	}
}

func (c *client) sendError(action string, err error) {
	c.send(game.OutgoingMessage{
		Type: "error",
		Data: gin.H{
			"action":  action,
			"reason":  appErr.Code(err),
			"message": err.Error(),
		},
	})
}
