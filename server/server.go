// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sitiosgeo/sitios/spatial"
	"github.com/sitiosgeo/sitios/store"
)

// Server exposes the proximity queries over HTTP.
type Server struct {
	db store.Database
}

// New creates a Server over an externally-owned database handle.
func New(db store.Database) *Server {
	return &Server{db: db}
}

// Router builds the gin engine with the API routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/collections", s.listCollections)
	r.GET("/api/near", s.near)

	return r
}

// Run serves the API on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) listCollections(ctx *gin.Context) {
	names, err := s.db.ListCollectionNames(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"collections": names})
}

// nearQuery are the /api/near parameters.
type nearQuery struct {
	Collection    string  `form:"collection" binding:"required"`
	Lat           float64 `form:"lat"`
	Lng           float64 `form:"lng"`
	Radius        float64 `form:"radius"`
	Strategy      string  `form:"strategy"`
	DistanceField string  `form:"distance_field"`
	Spherical     bool    `form:"spherical"`
}

func (s *Server) near(ctx *gin.Context) {
	query := nearQuery{Strategy: "geonear", DistanceField: "distance", Spherical: true}
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	// lat and lng are required but zero is a legal coordinate, so check
	// presence explicitly instead of using binding:"required".
	for _, param := range []string{"lat", "lng", "radius"} {
		if _, ok := ctx.GetQuery(param); !ok {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": param + " query parameter is required"})

			return
		}
	}

	point := spatial.NewPoint(query.Lng, query.Lat)
	coll := s.db.Collection(query.Collection)

	var (
		table *store.ResultTable
		err   error
	)

	switch query.Strategy {
	case "geonear":
		table, err = store.GeoNear(ctx.Request.Context(), coll, point, query.DistanceField, query.Radius)
	case "filter":
		op := store.OpNear
		if query.Spherical {
			op = store.OpNearSphere
		}

		table, err = store.FindNear(ctx.Request.Context(), coll, point, query.Radius, op)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "strategy must be one of: filter, geonear, got " + strconv.Quote(query.Strategy)})

		return
	}

	if err != nil {
		status := http.StatusInternalServerError
		if store.IsInputError(err) {
			status = http.StatusBadRequest
		}

		ctx.JSON(status, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, table)
}
