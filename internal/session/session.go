package session

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-station/internal/model"
	"github.com/fakhrymubarak/weather-station/internal/presenter"
	"github.com/fakhrymubarak/weather-station/internal/prompt"
	"github.com/fakhrymubarak/weather-station/internal/service"
)

const (
	WelcomeMessage  = "Welcome to Weather Station!"
	CountryPrompt   = "Please enter the name of the country:"
	CityPrompt      = "Please enter the name of the city:"
	ContinuePrompt  = "Do you want to search for weather in another city? (yes/no):"
	FarewellMessage = "Thank you for using Weather Station!"
)

// State is the lifecycle of a Session.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Options wires a Session to its collaborators and streams.
type Options struct {
	Service   service.WeatherServiceInterface
	Presenter *presenter.Presenter
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Logger    *zap.SugaredLogger
}

// Session runs rounds of prompt, fetch and display until the user stops.
type Session struct {
	service   service.WeatherServiceInterface
	presenter *presenter.Presenter
	prompt    *prompt.Reader
	out       io.Writer
	errOut    io.Writer
	logger    *zap.SugaredLogger
	state     State
	rounds    int
}

// New returns a Running session. A nil Presenter renders plain text.
func New(opts Options) *Session {
	p := opts.Presenter
	if p == nil {
		p = presenter.New(false)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{
		service:   opts.Service,
		presenter: p,
		prompt:    prompt.New(opts.In, opts.Out, p.Prompt),
		out:       opts.Out,
		errOut:    opts.Err,
		logger:    logger,
		state:     Running,
	}
}

// State reports whether the session is still running.
func (s *Session) State() State {
	return s.state
}

// Rounds is the number of rounds started so far.
func (s *Session) Rounds() int {
	return s.rounds
}

// ShouldContinue reports whether a continue answer keeps the session running.
func ShouldContinue(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}

// Run prints the banner and loops until the user declines another round.
// Only input failures are returned; a failed lookup ends just its round.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, s.presenter.Banner(WelcomeMessage))

	for s.state == Running {
		if err := s.round(ctx); err != nil {
			return err
		}

		answer, err := s.prompt.ReadLine(ContinuePrompt)
		if err != nil {
			return err
		}
		if !ShouldContinue(answer) {
			s.state = Stopped
		}
	}

	s.logger.Debugw("session stopped", "rounds", s.rounds)
	fmt.Fprintln(s.out, FarewellMessage)
	return nil
}

func (s *Session) round(ctx context.Context) error {
	s.rounds++

	country, err := s.prompt.ReadLine(CountryPrompt)
	if err != nil {
		return err
	}
	city, err := s.prompt.ReadLine(CityPrompt)
	if err != nil {
		return err
	}

	query := model.WeatherQuery{Country: country, City: city}
	weather, err := s.service.GetWeather(ctx, query)
	if err != nil {
		fmt.Fprintf(s.errOut, "Error %v\n", err)
		return nil
	}
	return s.presenter.Render(s.out, weather)
}
