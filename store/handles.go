// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Querier is the read-only surface of a collection handle used by the
// proximity queries. Both methods materialize the full result set; there is
// no cursor-based partial consumption.
type Querier interface {
	// Find runs a filter predicate and returns every matching document.
	Find(ctx context.Context, filter any) ([]bson.M, error)
	// Aggregate runs an aggregation pipeline and returns every resulting document.
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error)
}

// Inserter is the write surface used by the bulk loader.
type Inserter interface {
	// InsertOne inserts a single document.
	InsertOne(ctx context.Context, doc bson.M) error
}

// Collection is an externally-owned collection handle. The store never
// creates or closes the underlying client.
type Collection interface {
	Querier
	Inserter

	// CreateGeoIndex ensures a 2dsphere index over the given field.
	CreateGeoIndex(ctx context.Context, field string) error
}

// Database is an externally-owned database handle used by provisioning and
// bulk loading.
type Database interface {
	// CreateCollection creates a collection, failing if it already exists.
	CreateCollection(ctx context.Context, name string) error
	// ListCollectionNames returns the names of the existing collections.
	ListCollectionNames(ctx context.Context) ([]string, error)
	// Collection returns a handle for the named collection.
	Collection(name string) Collection
}

type mongoCollection struct {
	coll *mongo.Collection
}

// WrapCollection adapts a driver collection to the store handle interfaces.
func WrapCollection(coll *mongo.Collection) Collection {
	return &mongoCollection{coll: coll}
}

func (c *mongoCollection) Find(ctx context.Context, filter any) ([]bson.M, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func (c *mongoCollection) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc bson.M) error {
	_, err := c.coll.InsertOne(ctx, doc)

	return err
}

func (c *mongoCollection) CreateGeoIndex(ctx context.Context, field string) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: "2dsphere"}},
	})

	return err
}

type mongoDatabase struct {
	db *mongo.Database
}

// WrapDatabase adapts a driver database to the store Database interface.
func WrapDatabase(db *mongo.Database) Database {
	return &mongoDatabase{db: db}
}

func (d *mongoDatabase) CreateCollection(ctx context.Context, name string) error {
	return d.db.CreateCollection(ctx, name)
}

func (d *mongoDatabase) ListCollectionNames(ctx context.Context) ([]string, error) {
	return d.db.ListCollectionNames(ctx, bson.D{})
}

func (d *mongoDatabase) Collection(name string) Collection {
	return WrapCollection(d.db.Collection(name))
}
