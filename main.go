package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/fakhrymubarak/weather-station/internal/config"
	"github.com/fakhrymubarak/weather-station/internal/middleware"
	"github.com/fakhrymubarak/weather-station/internal/presenter"
	"github.com/fakhrymubarak/weather-station/internal/redis"
	"github.com/fakhrymubarak/weather-station/internal/repository"
	"github.com/fakhrymubarak/weather-station/internal/service"
	"github.com/fakhrymubarak/weather-station/internal/session"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
	tty bool
}

func main() {
	fd := os.Stdout.Fd()
	std := streams{
		in:  os.Stdin,
		out: colorable.NewColorable(os.Stdout),
		err: os.Stderr,
		tty: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}

	if err := run(context.Background(), os.Args[1:], std); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logger, lerr := config.NewLogger(zapcore.InfoLevel)
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "Error %v\n", err)
			os.Exit(1)
		}
		logger.Fatalw("weather station aborted", "error", err)
	}
}

func run(ctx context.Context, args []string, std streams) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	limiter := middleware.NewLimiter(cfg.RateLimit, cfg.RateBurst)
	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: middleware.LoggingTransport(middleware.RateLimitTransport(http.DefaultTransport, limiter), logger),
	}

	opts := repository.Options{
		APIURL:          cfg.APIURL,
		APIKey:          cfg.APIKey,
		HTTPClient:      httpClient,
		CacheExpiration: cfg.CacheExpiration,
		Logger:          logger,
	}
	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warnw("cache disabled", "error", err)
		} else {
			defer client.Close()
			opts.Cache = client
			logger.Infow("cache enabled", "addr", cfg.RedisAddr, "expiration", cfg.CacheExpiration)
		}
	}

	weatherService := service.NewWeatherService(repository.NewWeatherRepository(opts), logger)
	colorize := cfg.Color && std.tty && os.Getenv("NO_COLOR") == ""

	s := session.New(session.Options{
		Service:   weatherService,
		Presenter: presenter.New(colorize),
		In:        std.in,
		Out:       std.out,
		Err:       std.err,
		Logger:    logger,
	})
	return s.Run(ctx)
}
