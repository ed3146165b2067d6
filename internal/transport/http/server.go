package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirerelay-server/internal/config"
	"github.com/vovakirdan/wirerelay-server/internal/core"
)

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Endpoints int64  `json:"endpoints"`
	Rooms     int64  `json:"rooms"`
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
}

// NewServer builds an HTTP server with the relay routes. A nil logger disables logging.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg))

	router.GET("/health", healthHandler)
	router.GET("/stats", statsHandler(hub))

	// The upgrade must bypass gin: its writer refuses to hijack once headers are flushed.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

func statsHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(stdhttp.StatusOK, StatsResponse{
			Endpoints: stats.Endpoints,
			Rooms:     stats.Rooms,
			Delivered: stats.Delivered,
			Dropped:   stats.Dropped,
		})
	}
}
