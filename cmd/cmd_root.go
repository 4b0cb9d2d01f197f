// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

// rootOptions are the connection settings shared by every subcommand.
var rootOptions = struct {
	URI      string
	Database string
}{}

var rootCmd = &cobra.Command{
	Use:   "sitios",
	Short: "consultas de proximidad sobre colecciones geoespaciales de MongoDB",
	Long: `
sitios carga lugares en colecciones de MongoDB particionadas por categoría y
permite consultarlos por cercanía a un punto de referencia, tanto con el
operador de filtro $near/$nearSphere como con la etapa de agregación $geoNear.
`,
}

// Version reported by the version flag; set from the build.
var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootOptions.URI,
		"uri",
		"mongodb://localhost:27017",
		"URI de conexión a MongoDB",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootOptions.Database,
		"db",
		"sitios",
		"Nombre de la base de datos",
	)
}
