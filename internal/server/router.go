package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/MarcoPoloResearchLab/jigong/internal/store"
	"github.com/MarcoPoloResearchLab/jigong/internal/theme"
	"github.com/MarcoPoloResearchLab/jigong/internal/tracker"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeatInterval = 25 * time.Second

var (
	errMissingTrackerService = errors.New("tracker service dependency required")
	errMissingThemeManager   = errors.New("theme manager dependency required")
	errMissingEventBus       = errors.New("event bus dependency required")
)

type Dependencies struct {
	Service      *tracker.Service
	Theme        *theme.Manager
	Bus          *events.Bus
	Logger       *zap.Logger
	AllowOrigins []string
	// HeartbeatInterval spaces keep-alive events on idle event streams.
	HeartbeatInterval time.Duration
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Service == nil {
		return nil, errMissingTrackerService
	}
	if deps.Theme == nil {
		return nil, errMissingThemeManager
	}
	if deps.Bus == nil {
		return nil, errMissingEventBus
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	heartbeat := deps.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware(deps.AllowOrigins))

	handler := &httpHandler{
		service:   deps.Service,
		theme:     deps.Theme,
		bus:       deps.Bus,
		logger:    logger,
		heartbeat: heartbeat,
	}

	api := router.Group("/api")
	api.GET("/home", handler.handleHome)
	api.PUT("/attendance/:date", handler.handleSetAttendance)
	api.DELETE("/attendance/:date", handler.handleClearAttendance)
	api.GET("/personal-info", handler.handleGetPersonalInfo)
	api.PUT("/personal-info", handler.handleSavePersonalInfo)

	api.GET("/projects", handler.handleListProjects)
	api.POST("/projects", handler.handleCreateProject)
	api.PUT("/projects/:id", handler.handleUpdateProject)
	api.DELETE("/projects/:id", handler.handleDeleteProject)
	api.GET("/contacts", handler.handleListContacts)
	api.POST("/contacts", handler.handleCreateContact)
	api.PUT("/contacts/:id", handler.handleUpdateContact)
	api.DELETE("/contacts/:id", handler.handleDeleteContact)
	api.GET("/holidays", handler.handleListHolidays)
	api.POST("/holidays", handler.handleCreateHoliday)
	api.PUT("/holidays/:id", handler.handleUpdateHoliday)
	api.DELETE("/holidays/:id", handler.handleDeleteHoliday)

	api.POST("/wage-history/archive", handler.handleArchiveMonth)
	api.GET("/wage-history", handler.handleWageHistory)
	api.GET("/queries/options", handler.handleQueryOptions)
	api.GET("/queries/wages", handler.handleQueryWages)
	api.GET("/queries/compare", handler.handleCompareMonths)
	api.GET("/queries/trend", handler.handleSalaryTrend)
	api.GET("/queries/attendance", handler.handleAttendanceStats)

	api.GET("/stats", handler.handleStats)
	api.GET("/export", handler.handleExport)
	api.GET("/export/contacts", handler.handleExportContacts)
	api.GET("/export/xlsx", handler.handleExportWorkbook)
	api.POST("/import", handler.handleImport)
	api.DELETE("/data", handler.handleWipe)

	api.GET("/theme", handler.handleGetTheme)
	api.PUT("/theme", handler.handleSetTheme)
	api.GET("/events", handler.handleEvents)

	return router, nil
}

type httpHandler struct {
	service   *tracker.Service
	theme     *theme.Manager
	bus       *events.Bus
	logger    *zap.Logger
	heartbeat time.Duration
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Accept", "Last-Event-ID"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowOriginFunc = isLoopbackOrigin
	} else {
		config.AllowOrigins = origins
	}
	return cors.New(config)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
}

// writeError maps domain and storage errors to HTTP statuses with a JSON {"error": code} body.
func (h *httpHandler) writeError(c *gin.Context, err error) {
	status, code := h.errorResponse(c, err)
	c.AbortWithStatusJSON(status, gin.H{"error": code})
}

func (h *httpHandler) errorResponse(c *gin.Context, err error) (int, string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tracker.ErrInvalidInput), errors.Is(err, theme.ErrUnknownTheme), errors.Is(err, store.ErrInvalidRecord):
		status = http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrAlreadyArchived):
		status = http.StatusConflict
	case errors.Is(err, store.ErrStorageUnavailable), errors.Is(err, store.ErrCollectionUnavailable):
		status = http.StatusServiceUnavailable
	}

	code := "internal_error"
	var serviceErr *tracker.ServiceError
	if errors.As(err, &serviceErr) {
		code = serviceErr.Code()
	} else if status == http.StatusBadRequest {
		code = "invalid_request"
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.String("code", code), zap.Error(err))
	}
	return status, code
}

func invalidRequest(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": code})
}
