// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitiosgeo/sitios/server"
	"github.com/sitiosgeo/sitios/store"
)

var serveOptions = struct {
	Addr string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expone las consultas de proximidad por HTTP (solo local)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(rootOptions.URI))
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %w", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()

		srv := server.New(store.WrapDatabase(client.Database(rootOptions.Database)))

		log.Printf("Serving sitios API on http://%s (db %s)", serveOptions.Addr, rootOptions.Database)

		return srv.Run(serveOptions.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOptions.Addr,
		"addr",
		"localhost:8080",
		"Dirección en la que escuchar",
	)
}
