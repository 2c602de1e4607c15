package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/gasroute/gasroute/pkg/http/router"
	"github.com/gasroute/gasroute/pkg/http/router/controllers"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	fuelRouteService controllers.FuelRouteService,
) (*Server, error) {
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_TIMEOUT", "120s")

	config := http_router.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	server := http_router.NewAPI(log)

	g := errgroup.Group{}

	g.Go(func() error {
		return server.Run(
			ctx, config, log,
			useRateLimit, fuelRouteService,
		)
	})

	return s, nil
}

// GracefulShutdown blocks until the process receives SIGINT or SIGTERM.
func GracefulShutdown() os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return <-quit
}
