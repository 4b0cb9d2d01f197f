// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sitiosgeo/sitios/spatial"
	"github.com/sitiosgeo/sitios/store"
)

var nearOptions = struct {
	Lat           float64
	Lng           float64
	Radius        float64
	Strategy      string
	DistanceField string
	Planar        bool
}{}

var nearCmd = &cobra.Command{
	Use:   "near <collection>",
	Short: "Busca documentos cercanos a un punto de referencia",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, coll, err := store.Connect(ctx, rootOptions.URI, rootOptions.Database, args[0])
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(ctx) }()

		point := spatial.NewPoint(nearOptions.Lng, nearOptions.Lat)

		var table *store.ResultTable

		switch nearOptions.Strategy {
		case "geonear":
			table, err = store.GeoNear(ctx, coll, point, nearOptions.DistanceField, nearOptions.Radius)
		case "filter":
			op := store.OpNearSphere
			if nearOptions.Planar {
				op = store.OpNear
			}

			table, err = store.FindNear(ctx, coll, point, nearOptions.Radius, op)
		default:
			return fmt.Errorf("unknown strategy %q, expected filter or geonear", nearOptions.Strategy)
		}

		if err != nil {
			return err
		}

		printTable(table)
		log.Printf("%d documents within %.0fm of %s", table.Len(), nearOptions.Radius, point)

		return nil
	},
}

func printTable(table *store.ResultTable) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(table.Columns, "\t"))

	cells := make([]string, len(table.Columns))

	for _, row := range table.Rows {
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%v", cell)
		}

		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(nearCmd)
	nearCmd.Flags().Float64Var(&nearOptions.Lat, "lat", 0, "Latitud del punto de referencia")
	nearCmd.Flags().Float64Var(&nearOptions.Lng, "lng", 0, "Longitud del punto de referencia")
	nearCmd.Flags().Float64Var(&nearOptions.Radius, "radius", 500, "Radio máximo de búsqueda en metros")
	nearCmd.Flags().StringVar(
		&nearOptions.Strategy,
		"strategy",
		"geonear",
		"Estrategia de consulta: filter ($near/$nearSphere) o geonear ($geoNear)",
	)
	nearCmd.Flags().StringVar(
		&nearOptions.DistanceField,
		"distance-field",
		"distance",
		"Nombre del campo calculado con la distancia (solo geonear)",
	)
	nearCmd.Flags().BoolVar(
		&nearOptions.Planar,
		"planar",
		false,
		"Usa $near en lugar de $nearSphere (solo filter)",
	)
	_ = nearCmd.MarkFlagRequired("lat")
	_ = nearCmd.MarkFlagRequired("lng")
}
