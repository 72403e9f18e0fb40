package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/piresc/nebengjek/internal/pkg/config"
	"github.com/piresc/nebengjek/internal/pkg/constants"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/models"
	nrpkg "github.com/piresc/nebengjek/internal/pkg/newrelic"
	"github.com/piresc/nebengjek/internal/pkg/wsclient"
	"github.com/piresc/nebengjek/services/navigator/gateway/directions"
	"github.com/piresc/nebengjek/services/navigator/handler/gps"
	"github.com/piresc/nebengjek/services/navigator/route"
	"github.com/piresc/nebengjek/services/navigator/tracker"
	"github.com/piresc/nebengjek/services/navigator/usecase"
)

// navigator runs a driver device: it keeps a socket to the broker, reports the driver position,
// and when a destination is configured, replays the route as GPS fixes while navigating it.
func main() {
	appName := "driver-navigator"
	configPath := "config/navigator.env"
	configs := config.InitConfig(configPath)
	cfg := configs.Navigator

	nrApp := nrpkg.InitNewRelic(configs.NewRelic)
	zapLogger, err := logger.NewZapLogger(appName, configs.Logger, nrApp)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)
	defer zapLogger.Close()

	if cfg.DriverID == "" {
		zapLogger.Fatal("NAVIGATOR_DRIVER_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var trk *tracker.Tracker
	socket := wsclient.New(wsclient.Config{
		URL:                  cfg.BrokerURL,
		ReconnectDelay:       cfg.ReconnectDelay,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
	}, wsclient.Handlers{
		OnOpen: func() {
			// the broker forgets a driver whose socket closed
			trk.Resync()
		},
		OnMessage: func(env models.Envelope) {
			if env.Type == constants.MsgError {
				logger.Warn("Broker rejected a message", logger.String("message", env.Message))
			}
		},
		OnError: func(err error) {
			logger.Warn("Broker connection error", logger.Err(err))
		},
		OnClose: func(code int, reason string) {
			logger.Info("Broker connection closed", logger.Int("code", code), logger.String("reason", reason))
		},
	})
	trk = tracker.NewTracker(socket, tracker.Config{
		DriverID:      cfg.DriverID,
		DisplayName:   cfg.DisplayName,
		VehicleType:   cfg.VehicleType,
		SendThreshold: cfg.SendThresholdMeters,
	})

	if err := socket.Connect(); err != nil {
		logger.Warn("Initial broker connection failed, retrying in background", logger.Err(err))
	}
	trk.SetActive(true)

	defer func() {
		trk.SetActive(false)
		socket.Disconnect()
		logger.Info("Navigator stopped")
	}()

	if cfg.Origin == "" || cfg.Destination == "" {
		logger.Info("No trip configured, reporting availability only")
		<-ctx.Done()
		return
	}

	origin, err := models.ParseCoordinate(cfg.Origin)
	if err != nil {
		logger.Error("Invalid NAVIGATOR_ORIGIN", logger.Err(err))
		return
	}
	destination, err := models.ParseCoordinate(cfg.Destination)
	if err != nil {
		logger.Error("Invalid NAVIGATOR_DESTINATION", logger.Err(err))
		return
	}

	provider := directions.NewGoogleClient(cfg.DirectionsBaseURL, cfg.DirectionsAPIKey, cfg.DirectionsTimeout)
	engine := route.NewEngine(provider, cfg.RouteCacheTTL)
	navigatorUC := usecase.NewNavigatorUC(engine, trk, cfg)

	r, err := navigatorUC.StartNavigation(ctx, origin, destination, nil)
	if err != nil {
		logger.Error("Failed to calculate route", logger.Err(err))
		return
	}
	if r == nil {
		logger.Warn("No route between origin and destination, reporting availability only")
		<-ctx.Done()
		return
	}

	fixes := usecase.ReplayPolyline(ctx, r.OverviewPolyline, cfg.ReplayInterval, cfg.ReplaySpeed)
	gps.NewFixHandler(navigatorUC).Run(ctx, fixes)
}
