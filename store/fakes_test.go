// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sitiosgeo/sitios/spatial"
)

// fakeCollection is an in-memory Collection that evaluates the near filter
// and the $geoNear pipeline with Haversine distances, mimicking the engine
// contract: the aggregation form sorts ascending by distance, the filter form
// preserves stored order, and $maxDistance is inclusive.
type fakeCollection struct {
	docs          []bson.M
	findErr       error
	aggErr        error
	insertErr     error
	geoIndexField string
}

func (c *fakeCollection) Find(_ context.Context, filter any) ([]bson.M, error) {
	if c.findErr != nil {
		return nil, c.findErr
	}

	ref, radius, err := parseNearFilter(filter)
	if err != nil {
		return nil, err
	}

	var out []bson.M

	for _, doc := range c.docs {
		point, ok := geometryOf(doc)
		if !ok {
			continue
		}

		if ref.HaversineDistance(point) <= radius {
			out = append(out, doc)
		}
	}

	return out, nil
}

func (c *fakeCollection) Aggregate(_ context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	if c.aggErr != nil {
		return nil, c.aggErr
	}

	ref, distanceField, radius, err := parseGeoNearStage(pipeline)
	if err != nil {
		return nil, err
	}

	var out []bson.M

	for _, doc := range c.docs {
		point, ok := geometryOf(doc)
		if !ok {
			continue
		}

		d := ref.HaversineDistance(point)
		if d > radius {
			continue
		}

		withDistance := make(bson.M, len(doc)+1)
		for k, v := range doc {
			withDistance[k] = v
		}

		withDistance[distanceField] = d
		out = append(out, withDistance)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i][distanceField].(float64) < out[j][distanceField].(float64)
	})

	return out, nil
}

func (c *fakeCollection) InsertOne(_ context.Context, doc bson.M) error {
	if c.insertErr != nil {
		return c.insertErr
	}

	id, ok := doc[idColumn]
	if !ok {
		return fmt.Errorf("document has no %s", idColumn)
	}

	for _, existing := range c.docs {
		if existing[idColumn] == id {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
				Code:    11000,
				Message: fmt.Sprintf("E11000 duplicate key error dup key: { _id: %v }", id),
			}}}
		}
	}

	c.docs = append(c.docs, doc)

	return nil
}

func (c *fakeCollection) CreateGeoIndex(_ context.Context, field string) error {
	c.geoIndexField = field

	return nil
}

func parseNearFilter(filter any) (spatial.GeoPoint, float64, error) {
	d, ok := filter.(bson.D)
	if !ok || len(d) != 1 || d[0].Key != GeometryField {
		return spatial.GeoPoint{}, 0, fmt.Errorf("unexpected filter shape %v", filter)
	}

	opDoc, ok := d[0].Value.(bson.D)
	if !ok || len(opDoc) != 1 || !NearOperator(opDoc[0].Key).valid() {
		return spatial.GeoPoint{}, 0, fmt.Errorf("unexpected operator document %v", d[0].Value)
	}

	args, ok := opDoc[0].Value.(bson.D)
	if !ok {
		return spatial.GeoPoint{}, 0, fmt.Errorf("unexpected operator arguments %v", opDoc[0].Value)
	}

	var ref spatial.GeoPoint

	radius := -1.0

	for _, e := range args {
		switch e.Key {
		case "$geometry":
			ref = e.Value.(spatial.GeoPoint)
		case "$maxDistance":
			radius = e.Value.(float64)
		}
	}

	if radius < 0 {
		return spatial.GeoPoint{}, 0, fmt.Errorf("missing $maxDistance in %v", args)
	}

	return ref, radius, nil
}

func parseGeoNearStage(pipeline mongo.Pipeline) (spatial.GeoPoint, string, float64, error) {
	if len(pipeline) != 1 || len(pipeline[0]) != 1 || pipeline[0][0].Key != "$geoNear" {
		return spatial.GeoPoint{}, "", 0, fmt.Errorf("unexpected pipeline %v", pipeline)
	}

	args, ok := pipeline[0][0].Value.(bson.D)
	if !ok {
		return spatial.GeoPoint{}, "", 0, fmt.Errorf("unexpected $geoNear arguments %v", pipeline[0][0].Value)
	}

	var (
		ref           spatial.GeoPoint
		distanceField string
	)

	radius := -1.0

	for _, e := range args {
		switch e.Key {
		case "near":
			ref = e.Value.(spatial.GeoPoint)
		case "distanceField":
			distanceField = e.Value.(string)
		case "maxDistance":
			radius = e.Value.(float64)
		}
	}

	if distanceField == "" || radius < 0 {
		return spatial.GeoPoint{}, "", 0, fmt.Errorf("incomplete $geoNear stage %v", args)
	}

	return ref, distanceField, radius, nil
}

// fakeDatabase is an in-memory Database. Collection handles are created
// lazily the way MongoDB materializes namespaces on first write.
type fakeDatabase struct {
	collections map[string]*fakeCollection
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{collections: make(map[string]*fakeCollection)}
}

func (d *fakeDatabase) CreateCollection(_ context.Context, name string) error {
	if _, ok := d.collections[name]; ok {
		return mongo.CommandError{
			Code:    namespaceExistsCode,
			Name:    "NamespaceExists",
			Message: fmt.Sprintf("Collection already exists. NS: test.%s", name),
		}
	}

	d.collections[name] = &fakeCollection{}

	return nil
}

func (d *fakeDatabase) ListCollectionNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}

	slices.Sort(names)

	return names, nil
}

func (d *fakeDatabase) Collection(name string) Collection {
	if _, ok := d.collections[name]; !ok {
		d.collections[name] = &fakeCollection{}
	}

	return d.collections[name]
}
