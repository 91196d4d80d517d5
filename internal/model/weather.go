package model

// WeatherQuery is the location a user asked for in one round.
type WeatherQuery struct {
	Country string
	City    string
}

// Location renders the query the way the API's q parameter expects it.
func (q WeatherQuery) Location() string {
	return q.City + "," + q.Country
}

// WeatherResponse is the decoded current conditions for one location.
type WeatherResponse struct {
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Cached      bool    `json:"cached"`
}
