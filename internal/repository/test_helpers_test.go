package repository

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) *http.Response

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newMockHTTPClient(fn func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{
		Transport: RoundTripperFunc(fn),
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

const seattleBody = `{
	"coord": {"lon": -122.33, "lat": 47.61},
	"weather": [{"id": 801, "main": "Clouds", "description": "few clouds", "icon": "02d"}],
	"main": {"temp": 15.0, "feels_like": 14.2, "humidity": 80, "pressure": 1012},
	"wind": {"speed": 3.5, "deg": 200},
	"name": "Seattle",
	"cod": 200
}`
