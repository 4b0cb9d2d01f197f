// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"
	"math"
)

const earthRadius = 6371e3 // meters

// PointType is the GeoJSON geometry kind used for single coordinates.
const PointType = "Point"

// GeoPoint is a GeoJSON geometry as stored in MongoDB: a geometry kind and a
// [longitude, latitude] coordinate pair. Values are treated as immutable.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewPoint builds a GeoJSON point. Note the GeoJSON axis order: longitude
// comes first.
func NewPoint(lng, lat float64) GeoPoint {
	return GeoPoint{
		Type:        PointType,
		Coordinates: []float64{lng, lat},
	}
}

// Lng returns the longitude (first coordinate).
func (p GeoPoint) Lng() float64 {
	return p.Coordinates[0]
}

// Lat returns the latitude (second coordinate).
func (p GeoPoint) Lat() float64 {
	return p.Coordinates[1]
}

// String returns a string representation of the GeoPoint.
func (p GeoPoint) String() string {
	if len(p.Coordinates) != 2 {
		return fmt.Sprintf("%s%v", p.Type, p.Coordinates)
	}

	return fmt.Sprintf("%s(%f %f)", p.Type, p.Coordinates[0], p.Coordinates[1])
}

// Validate checks the structural shape required by the geospatial operators:
// a non-empty geometry kind and exactly two finite coordinates.
func (p GeoPoint) Validate() error {
	if p.Type == "" {
		return errors.New("spatial: geometry type must not be empty")
	}

	if len(p.Coordinates) != 2 {
		return fmt.Errorf("spatial: expected [longitude, latitude], got %d coordinates", len(p.Coordinates))
	}

	for i, c := range p.Coordinates {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("spatial: coordinate %d is not finite", i)
		}
	}

	return nil
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p GeoPoint) HaversineDistance(other GeoPoint) float64 {
	lat1 := p.Lat() * math.Pi / 180
	lat2 := other.Lat() * math.Pi / 180
	dLat := (other.Lat() - p.Lat()) * math.Pi / 180
	dLng := (other.Lng() - p.Lng()) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
