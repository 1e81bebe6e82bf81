package weather

import "time"

// Observation is a point-in-time weather reading for a location.
type Observation struct {
	Location     string    `json:"location"`
	Condition    string    `json:"condition"`
	TemperatureC float64   `json:"temperatureC"`
	Humidity     int       `json:"humidity"`
	ObservedAt   time.Time `json:"observedAt"`
}
