// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sitiosgeo/sitios/spatial"
)

// GeometryField is the document field holding the GeoJSON geometry. The
// collection must carry a geospatial index over it for the near operators to
// work; the engine rejects the query otherwise.
const GeometryField = "geometry"

// NearOperator selects the index-filter operator variant.
type NearOperator string

const (
	// OpNear resolves distance according to the index type (planar for 2d
	// indexes, spherical for 2dsphere).
	OpNear NearOperator = "$near"
	// OpNearSphere always resolves distance on a sphere.
	OpNearSphere NearOperator = "$nearSphere"
)

func (op NearOperator) valid() bool {
	return op == OpNear || op == OpNearSphere
}

// validateNearInputs applies the structural checks shared by both query
// strategies.
func validateNearInputs(ref spatial.GeoPoint, radius float64) error {
	if err := ref.Validate(); err != nil {
		return &StoreError{Kind: KindInput, Message: "invalid reference point", Err: err}
	}

	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return NewInputError("radius must be finite")
	}

	if radius < 0 {
		return NewInputError("radius must not be negative, got %v", radius)
	}

	return nil
}

// FindNear runs the index-filter proximity strategy: documents whose geometry
// lies within radius meters of ref, matched with the given near operator.
// Row order follows whatever the engine returns; no ordering is guaranteed.
// An empty match is a valid zero-row table, not an error.
func FindNear(ctx context.Context, q Querier, ref spatial.GeoPoint, radius float64, op NearOperator) (*ResultTable, error) {
	if q == nil {
		return nil, NewInputError("collection handle must not be nil")
	}

	if !op.valid() {
		return nil, NewInputError("unknown near operator %q", string(op))
	}

	if err := validateNearInputs(ref, radius); err != nil {
		return nil, err
	}

	filter := bson.D{{Key: GeometryField, Value: bson.D{{Key: string(op), Value: bson.D{
		{Key: "$geometry", Value: ref},
		{Key: "$maxDistance", Value: radius},
	}}}}}

	docs, err := q.Find(ctx, filter)
	if err != nil {
		return nil, classifyQueryError(err, "near query")
	}

	return Tabulate(docs), nil
}

// GeoNear runs the aggregation proximity strategy: a single $geoNear stage
// that computes the spherical distance from ref for every document within
// radius meters and attaches it under distanceField. Rows come back in
// ascending distance order; that is the engine's contract and the one
// ordering guarantee of this package. distanceField should not collide with
// an existing document field, the result of a collision is engine-defined.
func GeoNear(ctx context.Context, q Querier, ref spatial.GeoPoint, distanceField string, radius float64) (*ResultTable, error) {
	if q == nil {
		return nil, NewInputError("collection handle must not be nil")
	}

	if distanceField == "" {
		return nil, NewInputError("distance field name must not be empty")
	}

	if err := validateNearInputs(ref, radius); err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: ref},
			{Key: "distanceField", Value: distanceField},
			{Key: "maxDistance", Value: radius},
			{Key: "spherical", Value: true},
		}}},
	}

	docs, err := q.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classifyQueryError(err, "geoNear aggregation")
	}

	return Tabulate(docs), nil
}
