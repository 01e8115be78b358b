package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api/admin/endpoints"
	guideapi "github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/api/guide/endpoints"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/model"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/push"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.ServerConfig,
	ds model.Dataset,
	storageSystem storage.Storage,
	publisher push.Publisher,
	tmpl *template.Template,
) {
	r.SetHTMLTemplate(tmpl)
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Middleware: []gin.HandlerFunc{limiter.Middleware()},
	},
		guideapi.PrayerModule(ds),
	)

	if publisher != nil && cfg.JWTSecret != "" {
		api.MountGroup(r, api.GroupConfig{
			Prefix:     "/api/admin",
			Auth:       true,
			SecretKey:  cfg.JWTSecret,
			Middleware: []gin.HandlerFunc{limiter.Middleware()},
		},
			adminapi.PushModule(publisher),
		)
	} else {
		log.Warn().Msg("push endpoint disabled: needs JWT_SECRET and a configured publisher")
	}

	// shell, manifest, dataset, icons
	api.MountGroup(r, api.GroupConfig{},
		guideapi.ShellModule(ds),
		guideapi.AssetModule(storageSystem),
		guideapi.HealthModule(ds),
	)
}
