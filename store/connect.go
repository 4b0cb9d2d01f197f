// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect bootstraps a client and resolves a collection handle, verifying
// that both the database and the collection actually exist on the server
// (MongoDB would otherwise create them lazily on first write). On failure the
// client is closed before returning; on success the caller owns it and must
// Disconnect when done. No timeout is imposed here, bound the ctx for that.
func Connect(ctx context.Context, uri, dbName, collName string) (*mongo.Client, Collection, error) {
	if uri == "" {
		return nil, nil, NewInputError("connection URI must not be empty")
	}

	if dbName == "" || collName == "" {
		return nil, nil, NewInputError("database and collection names must not be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, &StoreError{Kind: KindUnknown, Message: "connecting to MongoDB", Err: err}
	}

	dbNames, err := client.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		_ = client.Disconnect(ctx)

		return nil, nil, &StoreError{Kind: KindUnknown, Message: "listing databases", Err: err}
	}

	if err := ensureNameExists(dbNames, dbName, "database"); err != nil {
		_ = client.Disconnect(ctx)

		return nil, nil, err
	}

	db := client.Database(dbName)

	collNames, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		_ = client.Disconnect(ctx)

		return nil, nil, &StoreError{Kind: KindUnknown, Message: "listing collections", Err: err}
	}

	if err := ensureNameExists(collNames, collName, "collection"); err != nil {
		_ = client.Disconnect(ctx)

		return nil, nil, err
	}

	return client, WrapCollection(db.Collection(collName)), nil
}

// ensureNameExists reports a NotFound error when name is missing from names.
func ensureNameExists(names []string, name, what string) error {
	if slices.Contains(names, name) {
		return nil
	}

	return NewNotFoundError("%s %q does not exist", what, name)
}
