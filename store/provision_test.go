// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCollectionsCreates(t *testing.T) {
	db := newFakeDatabase()
	names := []string{"restaurante", "museo", "parque"}

	report, err := EnsureCollections(context.Background(), db, "", names, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, names, report.Created)
	assert.Empty(t, report.Existing)

	got, err := db.ListCollectionNames(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, names, got)

	// The default options ensure the geospatial index the near operators need.
	for _, name := range names {
		assert.Equal(t, GeometryField, db.collections[name].geoIndexField, "collection %s", name)
	}
}

func TestEnsureCollectionsIsIdempotent(t *testing.T) {
	db := newFakeDatabase()
	names := []string{"restaurante", "museo"}

	_, err := EnsureCollections(context.Background(), db, "", names, nil)
	require.NoError(t, err)

	report, err := EnsureCollections(context.Background(), db, "", names, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.ElementsMatch(t, names, report.Existing)

	got, err := db.ListCollectionNames(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(names), "no duplicate collections after re-provisioning")
}

func TestEnsureCollectionsPartialOverlap(t *testing.T) {
	db := newFakeDatabase()

	_, err := EnsureCollections(context.Background(), db, "", []string{"museo"}, nil)
	require.NoError(t, err)

	report, err := EnsureCollections(context.Background(), db, "", []string{"museo", "parque"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"parque"}, report.Created)
	assert.Equal(t, []string{"museo"}, report.Existing)
}

func TestEnsureCollectionsSkipsIndexWhenDisabled(t *testing.T) {
	db := newFakeDatabase()

	_, err := EnsureCollections(context.Background(), db, "", []string{"museo"}, &ProvisionOptions{})
	require.NoError(t, err)
	assert.Empty(t, db.collections["museo"].geoIndexField)
}

func TestEnsureCollectionsInputErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		conn   any
		dbName string
		names  []string
	}{
		{name: "nil handle", conn: nil, names: []string{"museo"}},
		{name: "unsupported handle type", conn: 42, names: []string{"museo"}},
		{name: "empty collection name", conn: newFakeDatabase(), names: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EnsureCollections(ctx, tt.conn, tt.dbName, tt.names, nil)
			require.Error(t, err)
			assert.True(t, IsInputError(err), "want input error, got %v", err)
		})
	}
}

func TestResolveDatabaseAcceptsStoreDatabase(t *testing.T) {
	db := newFakeDatabase()

	resolved, err := resolveDatabase(db, "ignored")
	require.NoError(t, err)
	assert.Same(t, db, resolved.(*fakeDatabase))
}
