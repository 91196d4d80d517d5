package model

import "fmt"

// APIErrorResponse is the body OpenWeatherMap returns with non-2xx statuses.
// Cod is a string for some errors and a number for others.
type APIErrorResponse struct {
	Cod     interface{} `json:"cod"`
	Message string      `json:"message"`
}

func (r APIErrorResponse) String() string {
	if r.Message == "" {
		return fmt.Sprintf("code %v", r.Cod)
	}
	return r.Message
}
