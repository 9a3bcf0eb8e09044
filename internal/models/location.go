package models

import (
	"fmt"
	"strconv"
)

// Coordinate is a point in decimal degrees as read from a photo's GPS metadata.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Key renders the coordinate as "<lat>_<lon>" using the shortest decimal form of each value.
func (c Coordinate) Key() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "_" + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		strconv.FormatFloat(c.Longitude, 'f', -1, 64))
}

// Address holds the reverse-geocoded address components a folder name is built from.
// Any field may be empty.
type Address struct {
	Road   string `json:"road"`
	City   string `json:"city"`
	State  string `json:"state"`
	Suburb string `json:"suburb"`
	Town   string `json:"town"`
	County string `json:"county"`
}

// Locality is the city, or the state when the geocoder reported no city.
func (a Address) Locality() string {
	if a.City != "" {
		return a.City
	}
	return a.State
}

// District is the first non-empty of suburb, town and county.
func (a Address) District() string {
	switch {
	case a.Suburb != "":
		return a.Suburb
	case a.Town != "":
		return a.Town
	default:
		return a.County
	}
}
