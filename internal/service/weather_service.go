package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-station/internal/model"
	"github.com/fakhrymubarak/weather-station/internal/repository"
)

var ErrWeatherService = errors.New("weather service not configured")

// WeatherServiceInterface is what the session loop needs to run a round.
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error)
}

// WeatherService looks up current conditions through a WeatherRepository.
type WeatherService struct {
	WeatherRepo repository.WeatherRepository
	Logger      *zap.SugaredLogger
}

// NewWeatherService creates a new weather service.
func NewWeatherService(repo repository.WeatherRepository, logger *zap.SugaredLogger) *WeatherService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WeatherService{
		WeatherRepo: repo,
		Logger:      logger,
	}
}

// GetWeather fetches the current weather for query.
func (s *WeatherService) GetWeather(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error) {
	if s.WeatherRepo == nil {
		return nil, ErrWeatherService
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	weather, err := s.WeatherRepo.GetWeather(ctx, query)
	if err != nil {
		logger.Infow("weather lookup failed", "city", query.City, "country", query.Country, "error", err)
		return nil, err
	}
	logger.Infow("weather lookup", "city", query.City, "country", query.Country, "location", weather.Location, "cached", weather.Cached)
	return weather, nil
}
