package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/walleta/backend/internal/auth"
	"github.com/walleta/backend/internal/bankdata"
	"github.com/walleta/backend/internal/bankimport"
	"github.com/walleta/backend/internal/checkout"
	"github.com/walleta/backend/internal/config"
	v1 "github.com/walleta/backend/internal/controllers/v1"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/notify"
	"github.com/walleta/backend/internal/router"
	"github.com/walleta/backend/internal/subscription"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Create the directory for the SQLite database
	if !models.IsPostgres(cfg.DatabaseDSN) {
		err = os.MkdirAll(filepath.Dir(cfg.DatabaseDSN), os.ModePerm)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	db, err := models.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	notifier := notify.New(cfg.SMTP)

	co := v1.Controller{
		DB:   db,
		Auth: auth.NewProvider(db, cfg.JWTSecret, cfg.TokenTTL),
		Subscriptions: &subscription.Lifecycle{
			DB:       db,
			Gateway:  checkout.NewStripe(cfg.Stripe, cfg.GatewayTimeout),
			Notifier: notifier,
			Price:    cfg.SubscriptionPrice,
			Currency: cfg.SubscriptionCurrency.String(),
			Period:   cfg.SubscriptionPeriod,
			Now:      time.Now,
		},
		Banking: &bankimport.Importer{
			DB:      db,
			Gateway: bankdata.NewGoCardless(cfg.GoCardless, cfg.GatewayTimeout),
			Now:     time.Now,
		},
		Now:     time.Now,
		Paywall: cfg.PaywallEnabled,
	}

	sweeper := &subscription.Sweeper{DB: db, Notifier: notifier, Now: time.Now}
	expiry, err := sweeper.Start(cfg.ExpirySchedule)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer expiry.Stop()

	r, teardown, err := router.Config(cfg)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer teardown()

	router.AttachRoutes(cfg, co, r.Group("/"))

	if err := r.Run(); err != nil {
		log.Error().Msg(err.Error())
	}
}
