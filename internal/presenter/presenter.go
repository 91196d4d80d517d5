package presenter

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/fakhrymubarak/weather-station/internal/model"
)

// Category groups weather descriptions that share a display color.
type Category int

const (
	CategoryOther Category = iota
	CategoryClear
	CategoryLightClouds
	CategoryObscured
	CategoryPrecipitation
)

func (c Category) String() string {
	switch c {
	case CategoryClear:
		return "clear"
	case CategoryLightClouds:
		return "light clouds"
	case CategoryObscured:
		return "obscured"
	case CategoryPrecipitation:
		return "precipitation"
	default:
		return "other"
	}
}

// categories maps the API's English descriptions, matched exactly.
var categories = map[string]Category{
	"clear sky": CategoryClear,

	"few clouds":       CategoryLightClouds,
	"scattered clouds": CategoryLightClouds,
	"broken clouds":    CategoryLightClouds,

	"overcast clouds": CategoryObscured,
	"mist":            CategoryObscured,
	"haze":            CategoryObscured,
	"smoke":           CategoryObscured,
	"sand":            CategoryObscured,
	"dust":            CategoryObscured,
	"fog":             CategoryObscured,
	"squalls":         CategoryObscured,

	"shower rain":  CategoryPrecipitation,
	"rain":         CategoryPrecipitation,
	"thunderstorm": CategoryPrecipitation,
	"snow":         CategoryPrecipitation,
}

var categoryAttributes = map[Category][]color.Attribute{
	CategoryClear:         {color.FgHiYellow},
	CategoryLightClouds:   {color.FgHiBlue},
	CategoryObscured:      {color.Faint},
	CategoryPrecipitation: {color.FgHiCyan},
}

// Classify returns the display category of a weather description.
func Classify(description string) Category {
	return categories[description]
}

type temperatureBand struct {
	below float64
	emoji string
}

// temperatureBands is evaluated in order; the first band whose upper bound
// exceeds the temperature wins. Anything left over is hot.
var temperatureBands = []temperatureBand{
	{below: 0, emoji: "❄️"},
	{below: 10, emoji: "☁️"},
	{below: 20, emoji: "⛅"},
	{below: 30, emoji: "🌤️"},
}

const hotEmoji = "☀️"

// TemperatureEmoji picks the symbol for a temperature in Celsius.
func TemperatureEmoji(celsius float64) string {
	for _, band := range temperatureBands {
		if celsius < band.below {
			return band.emoji
		}
	}
	return hotEmoji
}

// Presenter renders weather summaries, colored or plain.
type Presenter struct {
	colorize bool
}

func New(colorize bool) *Presenter {
	return &Presenter{colorize: colorize}
}

func (p *Presenter) paint(text string, attrs ...color.Attribute) string {
	if len(attrs) == 0 {
		return text
	}
	c := color.New(attrs...)
	if p.colorize {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// Format renders the multi-line summary for weather, colored by its category.
func (p *Presenter) Format(weather *model.WeatherResponse) string {
	header := fmt.Sprintf("Weather in %s: %s %s", weather.Location, weather.Description, TemperatureEmoji(weather.Temperature))
	text := fmt.Sprintf(`%s
    > Temperature: %.1f°C,
    > Humidity: %.1f%%,
    > Pressure: %.1f hPa,
    > Wind Speed: %.1f m/s`,
		header,
		weather.Temperature,
		weather.Humidity,
		weather.Pressure,
		weather.WindSpeed,
	)
	return p.paint(text, categoryAttributes[Classify(weather.Description)]...)
}

// Render writes the formatted summary followed by a newline.
func (p *Presenter) Render(w io.Writer, weather *model.WeatherResponse) error {
	_, err := fmt.Fprintln(w, p.Format(weather))
	return err
}

// Banner is the welcome line in bright yellow.
func (p *Presenter) Banner(text string) string {
	return p.paint(text, color.FgHiYellow)
}

// Prompt is a question to the user in bright green.
func (p *Presenter) Prompt(text string) string {
	return p.paint(text, color.FgHiGreen)
}
