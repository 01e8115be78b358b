// Command pushtoken prints a bearer token for POST /api/admin/push, signed with
// the JWT_SECRET the origin server is configured with.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/config"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/logging"
)

func main() {
	operator := flag.String("operator", "", "operator name stored in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, true)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}
	if *operator == "" {
		log.Fatal().Msg("-operator is required")
	}
	if *ttl <= 0 {
		log.Fatal().Dur("ttl", *ttl).Msg("-ttl must be positive")
	}

	token, err := middleware.GenerateJWT(*operator, cfg.JWTSecret, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	log.Info().Str("operator", *operator).Time("expires", time.Now().Add(*ttl)).Msg("token issued")
	fmt.Println(token)
}
