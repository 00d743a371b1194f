package registry

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mhodnik/seqnet/internal/observability"
	"github.com/mhodnik/seqnet/internal/protocol"
)

type ServerConfig struct {
	ID          string
	Addr        string
	CorsOrigins []string
}

// Server is the directory daemon: it accepts node registrations and
// answers ownership lookups.
type Server struct {
	cfg      ServerConfig
	store    *Store
	router   *gin.Engine
	appeared time.Time
}

func NewServer(cfg ServerConfig) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.ID))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		cfg:      cfg,
		store:    NewStore(),
		router:   r,
		appeared: time.Now(),
	}
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.cfg.ID,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/project", func(c *gin.Context) {
		var rec protocol.NodeRecord
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid node record body"})
			return
		}
		if err := s.store.Register(rec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Info().
			Str("node", rec.Name).
			Str("addr", rec.Addr()).
			Strs("sequences", rec.Sequences).
			Msg("node registered")
		c.Status(http.StatusNoContent)
	})

	s.router.GET("/project", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.store.All())
	})

	s.router.GET("/project/owners/:sequence", func(c *gin.Context) {
		name := c.Param("sequence")
		c.JSON(http.StatusOK, protocol.OwnersResponse{Addresses: s.store.Owners(name)})
	})
}

// Serve registers routes and blocks on the listener.
func (s *Server) Serve() error {
	s.RegisterRoutes()
	log.Info().Str("addr", s.cfg.Addr).Msg("registry listening")
	return s.router.Run(s.cfg.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
