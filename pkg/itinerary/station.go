package itinerary

// Station is a single station as assigned by the upstream booking service.
// Immutable once loaded.
type Station struct {
	ID   int    `groups:"basic"`
	Name string `groups:"basic"`

	CityID     int `groups:"detailed" json:",omitempty"`
	DistrictID int `groups:"detailed" json:",omitempty"`

	Latitude  float64 `groups:"detailed" json:",omitempty"`
	Longitude float64 `groups:"detailed" json:",omitempty"`
}
