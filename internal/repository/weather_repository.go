package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-station/internal/model"
)

// Custom error types
var (
	ErrLocationNotFound     = errors.New("location not found")
	ErrAPIKeyMissing        = errors.New("API key missing")
	ErrExternalAPI          = errors.New("external API error")
	ErrMalformedResponse    = errors.New("malformed weather response")
	ErrNoWeatherDescription = errors.New("weather response has no description")
)

// units is fixed: the presenter's labels and temperature bands are Celsius.
const units = "metric"

// LocationNotFoundError carries the message the API sent with a 404.
type LocationNotFoundError struct {
	Message string
}

func (e *LocationNotFoundError) Error() string {
	return e.Message
}

func (e *LocationNotFoundError) Unwrap() error {
	return ErrLocationNotFound
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	GetWeather(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error)
}

// CacheClient is the slice of the redis client the repository uses.
type CacheClient interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// Options configures a weather repository.
type Options struct {
	APIURL     string
	APIKey     string
	HTTPClient *http.Client
	// Cache is optional; a nil cache sends every lookup to the API.
	Cache           CacheClient
	CacheExpiration time.Duration
	Logger          *zap.SugaredLogger
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	apiURL          string
	apiKey          string
	httpClient      *http.Client
	redisClient     CacheClient
	cacheExpiration time.Duration
	logger          *zap.SugaredLogger
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(opts Options) WeatherRepository {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &weatherRepository{
		apiURL:          opts.APIURL,
		apiKey:          opts.APIKey,
		httpClient:      client,
		redisClient:     opts.Cache,
		cacheExpiration: opts.CacheExpiration,
		logger:          logger,
	}
}

// GetWeather retrieves weather data, checking cache first, then external API
func (r *weatherRepository) GetWeather(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error) {
	if r.redisClient != nil {
		if cached, err := r.getFromCache(ctx, query); err == nil {
			r.logger.Debugw("cache hit", "location", query.Location())
			return cached, nil
		} else if !errors.Is(err, redisv9.Nil) {
			r.logger.Warnw("cache read failed", "location", query.Location(), "error", err)
		}
	}

	weather, err := r.fetchFromExternalAPI(ctx, query)
	if err != nil {
		return nil, err
	}

	if r.redisClient != nil {
		r.cacheWeather(ctx, query, weather)
	}
	return weather, nil
}

func cacheKey(query model.WeatherQuery) string {
	return "weather:" + query.Location()
}

// getFromCache retrieves weather data from Redis cache
func (r *weatherRepository) getFromCache(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error) {
	val, err := r.redisClient.Get(ctx, cacheKey(query)).Result()
	if err != nil {
		return nil, err
	}

	var weather model.WeatherResponse
	if err := json.Unmarshal([]byte(val), &weather); err != nil {
		return nil, err
	}

	weather.Cached = true
	return &weather, nil
}

// requestURL builds the lookup URL with every query parameter percent-encoded.
func (r *weatherRepository) requestURL(query model.WeatherQuery) (string, error) {
	u, err := url.Parse(r.apiURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid API URL: %v", ErrExternalAPI, err)
	}
	values := u.Query()
	values.Set("q", query.Location())
	values.Set("units", units)
	values.Set("appid", r.apiKey)
	u.RawQuery = values.Encode()
	return u.String(), nil
}

// fetchFromExternalAPI retrieves weather data from OpenWeatherMap API
func (r *weatherRepository) fetchFromExternalAPI(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error) {
	if r.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	target, err := r.requestURL(query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, api key included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := readAPIError(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return nil, &LocationNotFoundError{Message: apiErr.String()}
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrExternalAPI, resp.StatusCode, apiErr)
	}

	var data model.OpenWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return toWeatherResponse(data)
}

func readAPIError(body io.Reader) model.APIErrorResponse {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	var apiErr model.APIErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(raw)
	}
	return apiErr
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing field %q", ErrMalformedResponse, name)
}

func toWeatherResponse(data model.OpenWeatherMapResponse) (*model.WeatherResponse, error) {
	switch {
	case data.Name == nil:
		return nil, missingField("name")
	case data.Main == nil:
		return nil, missingField("main")
	case data.Main.Temp == nil:
		return nil, missingField("main.temp")
	case data.Main.Humidity == nil:
		return nil, missingField("main.humidity")
	case data.Main.Pressure == nil:
		return nil, missingField("main.pressure")
	case data.Wind == nil:
		return nil, missingField("wind")
	case data.Wind.Speed == nil:
		return nil, missingField("wind.speed")
	case len(data.Weather) == 0:
		return nil, ErrNoWeatherDescription
	case data.Weather[0].Description == nil:
		return nil, missingField("weather[0].description")
	}

	return &model.WeatherResponse{
		Location:    *data.Name,
		Description: *data.Weather[0].Description,
		Temperature: *data.Main.Temp,
		Humidity:    *data.Main.Humidity,
		Pressure:    *data.Main.Pressure,
		WindSpeed:   *data.Wind.Speed,
		Cached:      false,
	}, nil
}

// cacheWeather stores weather data in Redis cache
func (r *weatherRepository) cacheWeather(ctx context.Context, query model.WeatherQuery, weather *model.WeatherResponse) {
	b, err := json.Marshal(weather)
	if err != nil {
		return
	}
	if err := r.redisClient.Set(ctx, cacheKey(query), b, r.cacheExpiration).Err(); err != nil {
		r.logger.Warnw("cache write failed", "location", query.Location(), "error", err)
	}
}
