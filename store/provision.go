// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
)

// ProvisionOptions configuration for EnsureCollections.
type ProvisionOptions struct {
	// GeoIndexField, when non-empty, ensures a 2dsphere index over that field
	// in every provisioned collection. The near operators require it.
	GeoIndexField string
}

// ProvisionReport enumerates what EnsureCollections did per collection.
type ProvisionReport struct {
	Created  []string // collections created by this call
	Existing []string // collections that were already there
}

// resolveDatabase renders the connection-or-database union accepted by
// provisioning: a driver client (paired with a database name), a driver
// database, or a store Database. Anything else is an input error.
func resolveDatabase(conn any, dbName string) (Database, error) {
	switch c := conn.(type) {
	case Database:
		return c, nil
	case *mongo.Database:
		return WrapDatabase(c), nil
	case *mongo.Client:
		if dbName == "" {
			return nil, NewInputError("database name must not be empty when passing a client")
		}

		return WrapDatabase(c.Database(dbName)), nil
	default:
		return nil, NewInputError("unsupported connection handle %T", conn)
	}
}

// EnsureCollections idempotently creates the named collections. A collection
// that already exists is a benign overlap: it is logged, recorded in the
// report, and never an error. A nil opts defaults to a 2dsphere index over
// the geometry field.
func EnsureCollections(ctx context.Context, conn any, dbName string, names []string, opts *ProvisionOptions) (*ProvisionReport, error) {
	db, err := resolveDatabase(conn, dbName)
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &ProvisionOptions{GeoIndexField: GeometryField}
	}

	report := &ProvisionReport{}

	for _, name := range names {
		if name == "" {
			return report, NewInputError("collection name must not be empty")
		}

		switch err := db.CreateCollection(ctx, name); {
		case err == nil:
			report.Created = append(report.Created, name)
		case isNamespaceExists(err):
			log.Printf("collection %s already exists", name)
			report.Existing = append(report.Existing, name)
		default:
			return report, classifyQueryError(err, "creating collection "+name)
		}

		if opts.GeoIndexField != "" {
			if err := db.Collection(name).CreateGeoIndex(ctx, opts.GeoIndexField); err != nil {
				return report, classifyQueryError(err, "creating geo index on "+name)
			}
		}
	}

	return report, nil
}
