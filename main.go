// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/sitiosgeo/sitios/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
