package http

import (
	"context"
	"os"

	"github.com/dkeye/liveroom/internal/adapters/signal"
	"github.com/dkeye/liveroom/internal/app/orch"
	"github.com/dkeye/liveroom/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName = "LiveRoomSessions"
	tokenKey    = "ct"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware gives every browser a stable token for log
// correlation. It is not an identity.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(tokenKey).(string)
		if token == "" {
			token = genClientToken()
			session.Set(tokenKey, token)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, ctrl *signal.SignalWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Secret
	if secret == "" {
		secret = genClientToken()
		log.Warn().Str("module", "adapters.http").Msg("no session secret configured, using an ephemeral one")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	if _, err := os.Stat(cfg.StaticPath); err == nil {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
		log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("serving static files")
	}

	h := &handlers{orch: o, cfg: cfg}
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	api.GET("/rooms", h.listRooms)
	api.GET("/rooms/:id", h.getRoom)
	api.GET("/ice-servers", h.iceServers)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
