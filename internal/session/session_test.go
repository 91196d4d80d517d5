package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-station/internal/model"
	"github.com/fakhrymubarak/weather-station/internal/presenter"
	"github.com/fakhrymubarak/weather-station/internal/prompt"
	"github.com/fakhrymubarak/weather-station/internal/repository"
)

type mockWeatherService struct {
	queries []model.WeatherQuery
	results []*model.WeatherResponse
	errs    []error
}

func (m *mockWeatherService) GetWeather(ctx context.Context, query model.WeatherQuery) (*model.WeatherResponse, error) {
	i := len(m.queries)
	m.queries = append(m.queries, query)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.results) {
		return m.results[i], nil
	}
	return nil, errors.New("unexpected call")
}

func seattle() *model.WeatherResponse {
	return &model.WeatherResponse{
		Location:    "Seattle",
		Description: "few clouds",
		Temperature: 15.0,
		Humidity:    80,
		Pressure:    1012,
		WindSpeed:   3.5,
	}
}

func newTestSession(input string, svc *mockWeatherService, colorize bool) (*Session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	s := New(Options{
		Service:   svc,
		Presenter: presenter.New(colorize),
		In:        strings.NewReader(input),
		Out:       &out,
		Err:       &errOut,
	})
	return s, &out, &errOut
}

func TestShouldContinue(t *testing.T) {
	for _, answer := range []string{"yes", "y", "YES", "Y", "Yes", "  y  ", "yEs\n"} {
		assert.True(t, ShouldContinue(answer), "answer %q", answer)
	}
	for _, answer := range []string{"", "No", "n", "maybe", "yess", "ye", "y e s", "sí"} {
		assert.False(t, ShouldContinue(answer), "answer %q", answer)
	}
}

func TestRun_SeattleScenario(t *testing.T) {
	svc := &mockWeatherService{results: []*model.WeatherResponse{seattle()}}
	s, out, errOut := newTestSession("US\nSeattle\nno\n", svc, true)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []model.WeatherQuery{{Country: "US", City: "Seattle"}}, svc.queries)
	assert.Equal(t, Stopped, s.State())
	assert.Empty(t, errOut.String())

	got := out.String()
	assert.Contains(t, got, "\x1b[94mWeather in Seattle: few clouds ⛅")
	for _, want := range []string{"15.0", "80.0", "1012.0", "3.5"} {
		assert.Contains(t, got, want)
	}
	assert.Contains(t, got, WelcomeMessage)
	assert.True(t, strings.HasSuffix(got, FarewellMessage+"\n"))
}

func TestRun_PromptOrder(t *testing.T) {
	svc := &mockWeatherService{results: []*model.WeatherResponse{seattle()}}
	s, out, _ := newTestSession("US\nSeattle\nn\n", svc, false)

	require.NoError(t, s.Run(context.Background()))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, WelcomeMessage, lines[0])
	assert.Equal(t, CountryPrompt, lines[1])
	assert.Equal(t, CityPrompt, lines[2])
	assert.Equal(t, "Weather in Seattle: few clouds ⛅", lines[3])
	assert.Equal(t, ContinuePrompt, lines[len(lines)-2])
	assert.Equal(t, FarewellMessage, lines[len(lines)-1])
}

func TestRun_MultipleRounds(t *testing.T) {
	london := &model.WeatherResponse{Location: "London", Description: "rain", Temperature: 8}
	svc := &mockWeatherService{results: []*model.WeatherResponse{seattle(), london}}
	s, out, _ := newTestSession("US\nSeattle\nY\nGB\nLondon\nbye\n", svc, false)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 2, s.Rounds())
	assert.Equal(t, []model.WeatherQuery{{Country: "US", City: "Seattle"}, {Country: "GB", City: "London"}}, svc.queries)
	assert.Contains(t, out.String(), "Weather in London: rain ☁️")
	assert.Equal(t, 1, strings.Count(out.String(), FarewellMessage))
}

func TestRun_FetchErrorContinues(t *testing.T) {
	svc := &mockWeatherService{
		errs:    []error{repository.ErrExternalAPI},
		results: []*model.WeatherResponse{nil, seattle()},
	}
	s, out, errOut := newTestSession("US\nSeattle\nyes\nUS\nSeattle\n\n", svc, false)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, "Error external API error\n", errOut.String())
	assert.Equal(t, 2, s.Rounds())
	assert.Equal(t, 2, strings.Count(out.String(), ContinuePrompt), "continue is asked after a failed round too")
	assert.Contains(t, out.String(), "Weather in Seattle")
}

func TestRun_FetchErrorThenStop(t *testing.T) {
	svc := &mockWeatherService{errs: []error{&repository.LocationNotFoundError{Message: "city not found"}}}
	s, out, errOut := newTestSession("ZZ\nNowhere\nno\n", svc, false)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, "Error city not found\n", errOut.String())
	assert.NotContains(t, out.String(), "Weather in")
	assert.Contains(t, out.String(), FarewellMessage)
}

func TestRun_InputClosed(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCalls int
	}{
		{name: "before country", input: "", wantCalls: 0},
		{name: "before city", input: "US\n", wantCalls: 0},
		{name: "before continue answer", input: "US\nSeattle\n", wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWeatherService{results: []*model.WeatherResponse{seattle()}}
			s, out, _ := newTestSession(tt.input, svc, false)

			err := s.Run(context.Background())
			assert.ErrorIs(t, err, prompt.ErrInputClosed)
			assert.Len(t, svc.queries, tt.wantCalls)
			assert.NotContains(t, out.String(), FarewellMessage)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopped", Stopped.String())
}
