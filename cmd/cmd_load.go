// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitiosgeo/sitios/store"
)

var loadOptions = struct {
	Categories      []string
	CellResolutions []int
	SkipProvision   bool
}{}

var loadCmd = &cobra.Command{
	Use:   "load <records.json>",
	Short: "Carga registros en colecciones particionadas por categoría",
	Long: `
Lee un archivo JSON con un arreglo de registros (cada uno con los campos
fsq_id, category y opcionalmente geometry), crea las colecciones que falten y
los inserta uno a uno. Las claves duplicadas se omiten sin abortar la carga.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, err := readRecords(args[0])
		if err != nil {
			return err
		}

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(rootOptions.URI))
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %w", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()

		db := store.WrapDatabase(client.Database(rootOptions.Database))

		if !loadOptions.SkipProvision {
			names := collectionNamesOf(records, loadOptions.Categories)

			report, err := store.EnsureCollections(ctx, db, "", names, nil)
			if err != nil {
				return fmt.Errorf("provisioning collections: %w", err)
			}

			log.Printf(
				"Provisioning metrics - %d created, %d already existed",
				len(report.Created),
				len(report.Existing),
			)
		}

		report, err := store.InsertByCategory(ctx, db, records, &store.LoadOptions{
			Categories:      loadOptions.Categories,
			CellResolutions: loadOptions.CellResolutions,
		})
		if err != nil {
			return err
		}

		log.Printf(
			"Load metrics - %d inserted, %d duplicates skipped, %d failed, %d ignored",
			report.Inserted,
			report.SkippedDuplicates,
			report.Failed,
			report.Ignored,
		)

		return nil
	},
}

func readRecords(path string) ([]bson.M, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []bson.M
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return records, nil
}

// collectionNamesOf derives the collection names to provision from the
// categories present in the records, restricted to the requested ones.
func collectionNamesOf(records []bson.M, requested []string) []string {
	categories := requested
	if len(categories) == 0 {
		seen := make(map[string]bool)

		for _, record := range records {
			if category, ok := record[store.CategoryField].(string); ok && category != "" {
				seen[category] = true
			}
		}

		for category := range seen {
			categories = append(categories, category)
		}
	}

	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, store.CollectionName(category))
	}

	slices.Sort(names)

	return slices.Compact(names)
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringSliceVar(
		&loadOptions.Categories,
		"categories",
		nil,
		"Limita la carga a estas categorías (por defecto todas las presentes)",
	)
	loadCmd.Flags().IntSliceVar(
		&loadOptions.CellResolutions,
		"h3-res",
		nil,
		"Resoluciones H3 con las que etiquetar cada registro con geometría",
	)
	loadCmd.Flags().BoolVar(
		&loadOptions.SkipProvision,
		"skip-provision",
		false,
		"No crea las colecciones ni los índices antes de insertar",
	)
}
