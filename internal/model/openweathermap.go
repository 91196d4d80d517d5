package model

// OpenWeatherMapResponse is the subset of the current weather payload the station reads.
// Every field is a pointer so a missing one can be told apart from a zero value.
type OpenWeatherMapResponse struct {
	Name    *string `json:"name"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}
