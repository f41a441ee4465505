package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"station/config"
	"station/db"
	"station/http"
	"station/message"
	"station/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	bindAddr   string
	msgRouter  *message.Router
	forwarder  *message.Forwarder
	httpRouter *echo.Echo
}

func New(
	cfg *config.Config,
	logger watermill.LoggerAdapter,
	redisClient *redis.Client,
	dbConn *sqlx.DB,
) (*Service, error) {
	collector := metrics.NewCollector()

	media, err := http.NewMediaStore(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("creating media store: %w", err)
	}

	forwarder, err := message.NewForwarder(dbConn, redisClient, logger)
	if err != nil {
		return nil, fmt.Errorf("creating forwarder: %w", err)
	}

	msgRouter, err := message.NewRouter(message.RouterDeps{
		Logger:      logger,
		RedisClient: redisClient,
		OrderLog:    db.NewOrderLogRepo(dbConn),
		Metrics:     collector,
	})
	if err != nil {
		return nil, fmt.Errorf("creating message router: %w", err)
	}

	httpRouter := http.NewRouter(http.RouterDeps{
		TrainTypes: db.NewTrainTypeRepo(dbConn),
		Trains:     db.NewTrainRepo(dbConn),
		Crews:      db.NewCrewRepo(dbConn),
		Stations:   db.NewStationRepo(dbConn),
		Routes:     db.NewRouteRepo(dbConn),
		Journeys:   db.NewJourneyRepo(dbConn),
		Orders:     db.NewOrderRepo(dbConn, logger),
		Tickets:    db.NewTicketRepo(dbConn),
		Users:      db.NewUserRepo(dbConn),

		Auth:    http.NewAuth(cfg.JWTSecret, cfg.TokenTTL),
		Media:   media,
		Metrics: collector,

		MetricsHandler: collector.Handler(),
		MetricsPath:    cfg.MetricsPath,
	})

	return &Service{
		bindAddr:   cfg.BindAddr,
		msgRouter:  msgRouter,
		forwarder:  forwarder,
		httpRouter: httpRouter,
	}, nil
}

func (s Service) Run(ctx context.Context) error {
	g, runCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.msgRouter.Run(runCtx); err != nil {
			return fmt.Errorf("running message router: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := s.forwarder.Run(runCtx); err != nil {
			return fmt.Errorf("running forwarder: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Wait for message router
		<-s.msgRouter.Running()

		logrus.Info("Starting HTTP server...")
		err := s.httpRouter.Start(s.bindAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("starting http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-runCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logrus.Info("Shutting down HTTP server...")
		if err := s.httpRouter.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("waiting for shutdown: %w", err)
	}
	logrus.Info("Shutdown complete.")

	return nil
}
