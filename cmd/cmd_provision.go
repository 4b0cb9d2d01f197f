// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitiosgeo/sitios/store"
)

var provisionOptions = struct {
	GeoIndexField string
}{}

var provisionCmd = &cobra.Command{
	Use:   "provision <collection>...",
	Short: "Crea las colecciones y sus índices geoespaciales de forma idempotente",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(rootOptions.URI))
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %w", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()

		report, err := store.EnsureCollections(ctx, client, rootOptions.Database, args, &store.ProvisionOptions{
			GeoIndexField: provisionOptions.GeoIndexField,
		})
		if err != nil {
			return err
		}

		log.Printf(
			"Provisioning metrics - %d created, %d already existed",
			len(report.Created),
			len(report.Existing),
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	provisionCmd.Flags().StringVar(
		&provisionOptions.GeoIndexField,
		"geo-index-field",
		store.GeometryField,
		"Campo sobre el que crear el índice 2dsphere (vacío para omitirlo)",
	)
}
