package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"slot-machine-service/internal/config"
	"slot-machine-service/internal/game"
)

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds everything the router wires into handlers.
type Dependencies struct {
	Sessions     SessionResolver
	Ledger       Ledger
	Games        *game.Registry
	Health       Pinger
	Session      config.SessionConfig
	HistoryLimit int
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps *Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(RecoveryMiddleware(), LoggingMiddleware())

	r.GET("/healthz", healthHandler(deps.Health))
	r.GET("/api/games", gamesHandler(deps.Games))

	users := NewUserHandler(deps.Ledger, deps.HistoryLimit)
	spins := NewSpinHandler(deps.Ledger)

	api := r.Group("/api", SessionMiddleware(deps.Sessions, deps.Session))
	{
		api.GET("/user/status", users.Status)
		api.POST("/user/reset", users.Reset)
		api.GET("/user/history", users.History)

		api.POST("/classic/spin", spins.Classic)
		api.POST("/grand/spin", spins.Grand)
	}

	log.Debug().Int("routes", len(r.Routes())).Msg("HTTP routes registered")
	return r
}

func healthHandler(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Ping(c.Request.Context()); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	}
}

func gamesHandler(games *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := games.List()
		infos := make([]GameInfo, 0, len(list))
		for _, g := range list {
			infos = append(infos, GameInfo{
				Command:     g.Command(),
				Name:        g.Name(),
				Description: g.Description(),
			})
		}
		c.JSON(http.StatusOK, GamesResponse{Games: infos})
	}
}
