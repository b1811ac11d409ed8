// Package httpapi exposes the tile core over HTTP: a slippy-map tile
// endpoint and a TileJSON metadata document, built on labstack/echo/v5.
package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"roadtiles/internal/geo"
	"roadtiles/internal/graph"
	"roadtiles/internal/tileassembler"
)

// TileJSON represents a TileJSON 3.0.0 document.
type TileJSON struct {
	TileJSON     string        `json:"tilejson"`
	Name         string        `json:"name,omitempty"`
	Description  string        `json:"description,omitempty"`
	Scheme       string        `json:"scheme"`
	Tiles        []string      `json:"tiles"`
	MinZoom      int           `json:"minzoom"`
	MaxZoom      int           `json:"maxzoom"`
	VectorLayers []VectorLayer `json:"vector_layers"`
}

// VectorLayer represents a single vector layer in a TileJSON document.
type VectorLayer struct {
	ID      string            `json:"id"`
	MinZoom int               `json:"minzoom,omitempty"`
	MaxZoom int               `json:"maxzoom,omitempty"`
	Fields  map[string]string `json:"fields"`
}

// Handler wires the tile core to HTTP requests.
type Handler struct {
	facade  graph.Facade
	minZoom int
	maxZoom int
}

// NewHandler builds a Handler serving tiles from facade, valid for the
// zoom range [minZoom, maxZoom].
func NewHandler(facade graph.Facade, minZoom, maxZoom int) *Handler {
	return &Handler{facade: facade, minZoom: minZoom, maxZoom: maxZoom}
}

// Register mounts the handler's routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.Use(h.corsMiddleware)
	e.GET("/tiles/:z/:x/:y", h.handleTile)
	e.GET("/tiles.json", h.handleTileJSON)
}

func (h *Handler) corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusNoContent)
		}
		return next(c)
	}
}

func (h *Handler) handleTile(c echo.Context) error {
	start := time.Now()
	requestID := uuid.New().String()

	yParam := strings.TrimSuffix(strings.TrimSuffix(c.Param("y"), ".mvt"), ".pbf")

	z, err1 := strconv.Atoi(c.Param("z"))
	x, err2 := strconv.Atoi(c.Param("x"))
	y, err3 := strconv.Atoi(yParam)
	if err1 != nil || err2 != nil || err3 != nil {
		return c.String(http.StatusBadRequest, "invalid tile coordinates")
	}

	params := geo.TileParams{Z: uint8(z), X: uint32(x), Y: uint32(y)}
	if !params.Valid() || z < h.minZoom || z > h.maxZoom {
		return c.String(http.StatusBadRequest, "tile coordinates out of range")
	}

	tile, err := tileassembler.Render(params, h.facade)
	if err != nil {
		log.Printf("request_id=%s z=%d x=%d y=%d error=%q", requestID, z, x, y, err)
		return c.String(http.StatusInternalServerError, "internal error")
	}

	log.Printf("request_id=%s z=%d x=%d y=%d duration=%s size=%s",
		requestID, z, x, y, time.Since(start), humanize.Bytes(uint64(len(tile))))

	return c.Blob(http.StatusOK, "application/vnd.mapbox-vector-tile", tile)
}

func (h *Handler) handleTileJSON(c echo.Context) error {
	scheme := "http"
	if c.Request().TLS != nil {
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, c.Request().Host)

	doc := TileJSON{
		TileJSON:    "3.0.0",
		Name:        "roadtiles",
		Description: "Road routing graph speeds and turn penalties",
		Scheme:      "xyz",
		Tiles:       []string{baseURL + "/tiles/{z}/{x}/{y}.mvt"},
		MinZoom:     h.minZoom,
		MaxZoom:     h.maxZoom,
		VectorLayers: []VectorLayer{
			{
				ID:      "speeds",
				MinZoom: h.minZoom,
				MaxZoom: h.maxZoom,
				Fields: map[string]string{
					"speed":      "Clamped travel speed, km/h (0-127)",
					"is_small":   "Whether the edge belongs to a tiny connected component",
					"datasource": "Name of the data source for this segment",
					"duration":   "Segment travel time, seconds",
				},
			},
			{
				ID:      "turns",
				MinZoom: h.minZoom,
				MaxZoom: h.maxZoom,
				Fields: map[string]string{
					"bearing_in":  "Inbound bearing at the intersection, degrees",
					"bearing_out": "Outbound bearing at the intersection, degrees",
					"weight":      "Turn penalty weight, deciseconds",
				},
			},
		},
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return c.String(http.StatusInternalServerError, "internal error")
	}
	return c.Blob(http.StatusOK, "application/json", body)
}
