// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sitiosgeo/sitios/spatial"
	"github.com/sitiosgeo/sitios/utils/textutils"
)

const (
	// CategoryField partitions records across collections.
	CategoryField = "category"
	// SourceIDField is the source-specific identifier promoted to the
	// primary key on insertion.
	SourceIDField = "fsq_id"
)

// RowOutcome is the per-row result of a bulk load.
type RowOutcome int

const (
	// RowInserted the row was stored.
	RowInserted RowOutcome = iota
	// RowSkippedDuplicate a document with the same primary key already
	// exists; the stored document is left unchanged.
	RowSkippedDuplicate
	// RowFailed the row was malformed or the driver rejected it.
	RowFailed
)

func (o RowOutcome) String() string {
	switch o {
	case RowInserted:
		return "inserted"
	case RowSkippedDuplicate:
		return "skipped-duplicate"
	case RowFailed:
		return "failed"
	default:
		return fmt.Sprintf("RowOutcome(%d)", int(o))
	}
}

// RowResult records what happened to a single record.
type RowResult struct {
	ID       string
	Category string
	Outcome  RowOutcome
	Err      error
}

// LoadReport aggregates the per-row outcomes of a bulk load. Duplicate keys
// and malformed rows never abort the load; they are counted here instead.
type LoadReport struct {
	Inserted          int
	SkippedDuplicates int
	Failed            int
	Ignored           int // rows whose category was outside the requested set
	Rows              []RowResult
}

// LoadOptions configuration for InsertByCategory.
type LoadOptions struct {
	// Categories restricts the load to the given category labels. Empty
	// loads every category found in the records.
	Categories []string

	// CellResolutions are the H3 resolutions each geometry-carrying record
	// is tagged with before insertion.
	CellResolutions []int
}

// CollectionName derives a collection name from a category label: lowercase,
// accents folded, whitespace collapsed to underscores ("Cafetería Bar" →
// "cafeteria_bar").
func CollectionName(category string) string {
	return strings.Join(strings.Fields(textutils.LowerASCIIFolding(category)), "_")
}

// InsertByCategory partitions records by their category field and inserts
// them one by one into the collection named after the category, renaming the
// source identifier to the primary key. A duplicate key is logged and
// skipped; a malformed or rejected row is logged and counted as failed; the
// load keeps going either way. The only hard failures are a bad handle and
// context cancellation.
func InsertByCategory(ctx context.Context, db Database, records []bson.M, opts *LoadOptions) (*LoadReport, error) {
	if db == nil {
		return nil, NewInputError("database handle must not be nil")
	}

	if opts == nil {
		opts = &LoadOptions{}
	}

	allowed := make(map[string]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		allowed[c] = true
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(records),
			progressbar.OptionSetDescription("Loading records"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	report := &LoadReport{}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("load interrupted: %w", err)
		}

		if bar != nil {
			_ = bar.Add(1)
		}

		category, _ := record[CategoryField].(string)
		if len(allowed) > 0 && !allowed[category] {
			report.Ignored++

			continue
		}

		result := insertRecord(ctx, db, record, category, opts.CellResolutions)

		switch result.Outcome {
		case RowInserted:
			report.Inserted++
		case RowSkippedDuplicate:
			report.SkippedDuplicates++
			log.Printf("id %q already exists in %s, skipping", result.ID, result.Category)
		case RowFailed:
			report.Failed++
			log.Printf("failed to insert record %q into %s: %v", result.ID, result.Category, result.Err)
		}

		report.Rows = append(report.Rows, result)
	}

	return report, nil
}

func insertRecord(ctx context.Context, db Database, record bson.M, category string, resolutions []int) RowResult {
	result := RowResult{Category: category}

	if category == "" {
		result.Outcome = RowFailed
		result.Err = NewInputError("record has no category")

		return result
	}

	doc, id, err := keyedDocument(record, resolutions)
	result.ID = id

	if err != nil {
		result.Outcome = RowFailed
		result.Err = err

		return result
	}

	switch err := db.Collection(CollectionName(category)).InsertOne(ctx, doc); {
	case err == nil:
		result.Outcome = RowInserted
	case IsDuplicateKey(err):
		result.Outcome = RowSkippedDuplicate
		result.Err = err
	default:
		result.Outcome = RowFailed
		result.Err = err
	}

	return result
}

// keyedDocument copies the record with its source identifier renamed to _id
// and, when the record carries a geometry, H3 cell tags attached.
func keyedDocument(record bson.M, resolutions []int) (bson.M, string, error) {
	id, ok := record[SourceIDField].(string)
	if !ok || id == "" {
		return nil, "", NewInputError("record has no %s field", SourceIDField)
	}

	doc := make(bson.M, len(record)+len(resolutions))

	for field, value := range record {
		if field == SourceIDField {
			continue
		}

		doc[field] = value
	}

	doc[idColumn] = id

	if len(resolutions) > 0 {
		if point, ok := geometryOf(record); ok {
			tags, err := spatial.CellTags(point, resolutions)
			if err != nil {
				return nil, id, err
			}

			for field, cell := range tags {
				doc[field] = cell
			}
		}
	}

	return doc, id, nil
}

// geometryOf extracts a GeoPoint from the record's geometry field, accepting
// both the typed form and the map forms produced by JSON and BSON decoding.
func geometryOf(record bson.M) (spatial.GeoPoint, bool) {
	raw, ok := record[GeometryField]
	if !ok {
		return spatial.GeoPoint{}, false
	}

	switch g := raw.(type) {
	case spatial.GeoPoint:
		return g, g.Validate() == nil
	case bson.M:
		return geometryFromMap(g)
	case map[string]any:
		return geometryFromMap(g)
	default:
		return spatial.GeoPoint{}, false
	}
}

func geometryFromMap(m map[string]any) (spatial.GeoPoint, bool) {
	kind, _ := m["type"].(string)

	coords, ok := coordinatesOf(m["coordinates"])
	if !ok {
		return spatial.GeoPoint{}, false
	}

	point := spatial.GeoPoint{Type: kind, Coordinates: coords}

	return point, point.Validate() == nil
}

func coordinatesOf(raw any) ([]float64, bool) {
	switch c := raw.(type) {
	case []float64:
		return c, true
	case bson.A:
		return floatSlice(c)
	case []any:
		return floatSlice(c)
	default:
		return nil, false
	}
}

func floatSlice(values []any) ([]float64, bool) {
	out := make([]float64, len(values))

	for i, v := range values {
		switch n := v.(type) {
		case float64:
			out[i] = n
		case float32:
			out[i] = float64(n)
		case int:
			out[i] = float64(n)
		case int32:
			out[i] = float64(n)
		case int64:
			out[i] = float64(n)
		default:
			return nil, false
		}
	}

	return out, true
}
