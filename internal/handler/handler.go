package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"prelanding-studio/internal/models"
	"prelanding-studio/internal/notify"
	"prelanding-studio/internal/scenario"
	"prelanding-studio/internal/workspace"
)

// SessionCookie - cookie с идентификатором рабочего пространства.
const SessionCookie = "studio_session"

const workspaceCtxKey = "workspace"

// Options - настройки cookie рабочего пространства.
type Options struct {
	CookieTTL    time.Duration
	CookieSecure bool
}

// StudioHandler обслуживает HTTP API студии для браузера.
type StudioHandler struct {
	registry  *workspace.Registry
	scenarios *scenario.Manager
	hub       *notify.Hub
	upgrader  websocket.Upgrader
	opts      Options
	logger    *zap.Logger
}

// NewStudioHandler создает обработчик.
func NewStudioHandler(
	registry *workspace.Registry,
	scenarios *scenario.Manager,
	hub *notify.Hub,
	upgrader websocket.Upgrader,
	opts Options,
	logger *zap.Logger,
) *StudioHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CookieTTL <= 0 {
		opts.CookieTTL = 24 * time.Hour
	}
	return &StudioHandler{
		registry:  registry,
		scenarios: scenarios,
		hub:       hub,
		upgrader:  upgrader,
		opts:      opts,
		logger:    logger.Named("StudioHandler"),
	}
}

// RegisterRoutes регистрирует маршруты. generateLimit ограничивает частоту генераций.
func (h *StudioHandler) RegisterRoutes(router *gin.Engine, generateLimit gin.HandlerFunc) {
	if generateLimit == nil {
		generateLimit = func(c *gin.Context) { c.Next() }
	}

	router.GET("/ws", h.serveWS)

	api := router.Group("/api")
	api.GET("/options", h.getOptions)

	ws := api.Group("")
	ws.Use(h.workspaceMiddleware())
	{
		ws.GET("/session", h.getSession)
		ws.PUT("/session/config", h.updateConfig)
		ws.POST("/session/generate", generateLimit, h.generate)
		ws.POST("/session/export", h.export)
		ws.POST("/session/feedback", h.submitFeedback)

		ws.GET("/library", h.getLibrary)
		ws.POST("/library/upload", h.uploadArchive)
		ws.DELETE("/library/:id", h.deletePrelanding)
		ws.GET("/library/top/:metric", h.topPrelandings)

		ws.POST("/generators/names", generateLimit, h.generateNames)
		ws.POST("/generators/reviews", generateLimit, h.generateReviews)
	}

	scenarios := api.Group("/scenarios")
	{
		scenarios.GET("", h.listScenarios)
		scenarios.POST("", h.createScenario)
		scenarios.PUT("/:id", h.updateScenario)
		scenarios.DELETE("/:id", h.deleteScenario)
	}
}

// workspaceMiddleware находит рабочее пространство по cookie и создаёт новое для нового браузера.
func (h *StudioHandler) workspaceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || !validWorkspaceID(id) {
			id = uuid.NewString()
		}
		// Продлеваем cookie на каждом запросе
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(h.opts.CookieTTL.Seconds()), "/", "", h.opts.CookieSecure, true)

		ws, err := h.registry.Get(c.Request.Context(), id)
		if err != nil {
			handleServiceError(c, h.logger, err, "")
			return
		}
		c.Set(workspaceCtxKey, ws)
		c.Next()
	}
}

func validWorkspaceID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func currentWorkspace(c *gin.Context) *workspace.Workspace {
	return c.MustGet(workspaceCtxKey).(*workspace.Workspace)
}

// persist сохраняет снимок сессии; ошибка хранилища не ломает ответ.
func (h *StudioHandler) persist(c *gin.Context, ws *workspace.Workspace) {
	if err := h.registry.Save(c.Request.Context(), ws); err != nil {
		h.logger.Warn("Failed to persist workspace", zap.String("workspaceID", ws.ID), zap.Error(err))
	}
}

func (h *StudioHandler) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, models.Options())
}

func (h *StudioHandler) serveWS(c *gin.Context) {
	h.hub.ServeWS(h.upgrader, c.Writer, c.Request)
}
