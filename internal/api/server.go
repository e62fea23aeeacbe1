package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brieflyai/brieflyai/internal/ai"
	"github.com/brieflyai/brieflyai/internal/briefing"
	"github.com/brieflyai/brieflyai/internal/models"
	"github.com/brieflyai/brieflyai/internal/store"
)

// Server is the JSON presentation surface in front of the pipeline: report
// retrieval, manual sync, settings, and the assistant follow-up panel.
type Server struct {
	Log     *zap.Logger
	Service *briefing.Service
	AI      *ai.Client
	State   *store.Store
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/report", s.getReport)
	api.POST("/sync", s.sync)
	api.GET("/trending", s.getTrending)
	api.GET("/preferences", s.getPreferences)
	api.PUT("/preferences", s.putPreferences)
	api.GET("/categories", s.getCategories)
	api.PUT("/categories", s.putCategories)
	api.GET("/theme", s.getTheme)
	api.PUT("/theme", s.putTheme)
	api.POST("/assistant", s.assistant)
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"state":     s.Service.Status(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) getReport(c *gin.Context) {
	report, ok := s.Service.CachedReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "暂无有效简报，请先同步"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   report,
		"trending": models.GroupTrendingByPlatform(report.Trending),
	})
}

func (s *Server) sync(c *gin.Context) {
	report, err := s.Service.Sync(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, briefing.ErrSyncInFlight) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) getTrending(c *gin.Context) {
	items, err := s.AI.GenerateTrending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trending": items,
		"grouped":  models.GroupTrendingByPlatform(items),
	})
}

func (s *Server) getPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, s.State.Preferences())
}

func (s *Server) putPreferences(c *gin.Context) {
	var prefs models.UserPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.State.SavePreferences(prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (s *Server) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.State.Categories()})
}

func (s *Server) putCategories(c *gin.Context) {
	var body struct {
		Categories []models.CategoryConfig `json:"categories" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.State.SaveCategories(body.Categories); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": body.Categories})
}

func (s *Server) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": s.State.Theme()})
}

func (s *Server) putTheme(c *gin.Context) {
	var body struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.State.SaveTheme(body.Theme); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": body.Theme})
}

// assistant answers one follow-up question against the current report. The
// session is seeded per request; history travels with the client.
func (s *Server) assistant(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, _ := s.Service.CachedReport()
	session := s.AI.NewAssistantChat(report)

	reply, err := session.Send(c.Request.Context(), body.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply, "messages": session.Messages()})
}
