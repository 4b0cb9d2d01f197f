// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// CellTags computes the H3 cell containing p at each requested resolution and
// returns them keyed by the document field name they are stored under
// (h3_res<N>). Loaded documents carry these so coarse spatial grouping does
// not need the geospatial index.
func CellTags(p GeoPoint, resolutions []int) (map[string]int64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tags := make(map[string]int64, len(resolutions))
	latLng := h3.NewLatLng(p.Lat(), p.Lng())

	for _, res := range resolutions {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		tags[fmt.Sprintf("h3_res%d", res)] = int64(cell)
	}

	return tags, nil
}
