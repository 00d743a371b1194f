// Package node owns the sequence node runtime.
//
// Ownership boundary:
// - the node HTTP surface (ping, catalog listing, sequence queries)
// - local-versus-forwarded query dispatch
// - peer forwarding with randomized candidate order
//
// The node does not own directory state; it only registers itself and
// asks the registry who else serves a name.
package node

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/mhodnik/seqnet/internal/catalog"
	"github.com/mhodnik/seqnet/internal/observability"
	"github.com/mhodnik/seqnet/internal/protocol"
	"github.com/mhodnik/seqnet/internal/registry"
	"github.com/mhodnik/seqnet/internal/sequence"
)

const (
	registerAttempts = 10
	registerDelay    = 400 * time.Millisecond
)

type ServerConfig struct {
	Record       protocol.NodeRecord
	Listen       string
	RegistryAddr string
	CorsOrigins  []string
}

// remoteResolver is the forwarding boundary, split out so handler tests
// can stub peer resolution.
type remoteResolver interface {
	ResolveRemote(ctx context.Context, name string, req protocol.QueryRequest) ([]float64, error)
}

// Server is one sequence node: a local catalog in front of the engine,
// with forwarding for everything else.
type Server struct {
	cfg      ServerConfig
	catalog  *catalog.Catalog
	registry *registry.Client
	forward  remoteResolver
	router   *gin.Engine
	appeared time.Time
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.Record.Validate(); err != nil {
		return nil, err
	}
	cat, err := catalog.New(cfg.Record.Sequences)
	if err != nil {
		return nil, err
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Record.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	client := registry.NewClient(cfg.RegistryAddr)
	return &Server{
		cfg:      cfg,
		catalog:  cat,
		registry: client,
		forward:  NewForwarder(client, cfg.Record.Name, cfg.Record.Addr()),
		router:   r,
		appeared: time.Now(),
	}, nil
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.cfg.Record.Name,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.cfg.Record)
	})

	s.router.GET("/sequence", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.catalog.Infos())
	})

	s.router.POST("/sequence/:name", s.handleQuery)
}

func (s *Server) handleQuery(c *gin.Context) {
	name := c.Param("name")

	var req protocol.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query body"})
		return
	}
	if err := req.Range.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.catalog.Owns(name) {
		values, err := s.catalog.Resolve(name, req.Parameters, req.Sequences, req.Range)
		if err != nil {
			log.Warn().Str("sequence", name).Err(err).Msg("local evaluation rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, protocol.QueryResponse{Values: values})
		return
	}

	// A name outside the generator table can never be served by a peer;
	// only locally-missing but valid names are forwardable.
	if _, ok := sequence.Lookup(name); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sequence " + name})
		return
	}

	values, err := s.forward.ResolveRemote(c.Request.Context(), name, req)
	if err != nil {
		if errors.Is(err, ErrNobodyHasSequence) {
			log.Warn().Str("sequence", name).Msg("nobody has sequence")
			c.JSON(http.StatusOK, protocol.QueryResponse{Values: []float64{}, Missing: name})
			return
		}
		log.Error().Str("sequence", name).Err(err).Msg("forwarding failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, protocol.QueryResponse{Values: values})
}

// Run registers the node with the registry and blocks on the listener.
// Registration runs alongside the listener so the node can accept
// forwarded traffic as soon as it is listed.
func (s *Server) Run() error {
	s.RegisterRoutes()

	go func() {
		err := s.registry.RegisterWithRetry(context.Background(), s.cfg.Record, registerAttempts, registerDelay)
		if err != nil {
			log.Error().Err(err).Msg("registration failed; node is not discoverable")
		}
	}()

	log.Info().
		Str("listen", s.cfg.Listen).
		Str("public", s.cfg.Record.Addr()).
		Strs("sequences", s.catalog.Names()).
		Msg("node listening")
	return s.router.Run(s.cfg.Listen)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
