package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"draw-poker/internal/config"
	"draw-poker/internal/middleware"
	"draw-poker/internal/service"
	"draw-poker/internal/ws"
	appErr "draw-poker/pkg/errors"
	"draw-poker/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container, cfg config.SessionConfig) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services.Lobby, services.Session, services.Registry, cfg)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/session", handler.CreateSession)

		lobbyGroup := v1.Group("/lobbies")
		lobbyGroup.Use(middleware.SessionRequired(services.Session))
		{
			lobbyGroup.POST("", handler.CreateLobby)
			lobbyGroup.GET("/:code", handler.GetLobby)
			lobbyGroup.POST("/:code/join", handler.JoinLobby)
			lobbyGroup.POST("/:code/start", handler.StartLobby)
			lobbyGroup.POST("/:code/leave", handler.LeaveLobby)
			lobbyGroup.GET("/:code/history", handler.LobbyHistory)
		}
	}

	r.GET("/ws/lobby/:code", wsHandler.HandleLobbyWS)
}

type createSessionBody struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateSession(c *gin.Context) {
	var body createSessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.services.Session.Issue(c.Request.Context(), body.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, sess)
}

func (h *Handler) CreateLobby(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	info, err := h.services.Lobby.Create(c.Request.Context(), identity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, info)
}

func (h *Handler) GetLobby(c *gin.Context) {
	info, err := h.services.Lobby.LobbyState(lobbyCode(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, info)
}

func (h *Handler) JoinLobby(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	info, err := h.services.Lobby.Join(c.Request.Context(), identity, lobbyCode(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, info)
}

func (h *Handler) StartLobby(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	code := lobbyCode(c)
	if err := h.services.Lobby.Start(identity, code); err != nil {
		h.handleError(c, err)
		return
	}
	table, err := h.services.Lobby.Get(code)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, table.GameState(identity, false))
}

func (h *Handler) LeaveLobby(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.services.Lobby.Leave(identity); err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMsg(c, gin.H{"status": "left"}, "")
}

func (h *Handler) LobbyHistory(c *gin.Context) {
	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.History.List(c.Request.Context(), lobbyCode(c), page, size)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"items": result.Items,
		"total": result.Total,
		"page":  page,
		"size":  size,
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appErr.ErrLobbyNotFound), errors.Is(err, appErr.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, err)
	case errors.Is(err, appErr.ErrNotHost):
		response.Fail(c, http.StatusForbidden, err)
	case errors.Is(err, appErr.ErrUnauthorized), errors.Is(err, appErr.ErrInvalidToken):
		response.Fail(c, http.StatusUnauthorized, err)
	case errors.Is(err, appErr.ErrLobbyFull), errors.Is(err, appErr.ErrHandInProgress):
		response.Fail(c, http.StatusConflict, err)
	case appErr.Code(err) != "internal":
		response.Fail(c, http.StatusBadRequest, err)
	default:
		response.Fail(c, http.StatusInternalServerError, err)
	}
}

func lobbyCode(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("code")))
}

func parsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return parsed, nil
}
