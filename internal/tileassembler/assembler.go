// Package tileassembler drives the two-pass walk over a tile's edges
// that produces the final MVT bytes: pass one populates the attribute
// intern tables and resolves turn penalties, pass two serializes the
// speeds and turns layers.
package tileassembler

import (
	"fmt"
	"math"

	"roadtiles/internal/geo"
	"roadtiles/internal/graph"
	"roadtiles/internal/intern"
	"roadtiles/internal/mvt"
	"roadtiles/internal/turns"
)

const (
	layerSpeeds = "speeds"
	layerTurns  = "turns"
)

var lineKeys = []string{"speed", "is_small", "datasource", "duration"}
var pointKeys = []string{"bearing_in", "bearing_out", "weight"}

// direction caches the per-edge values pass 1 already computed so pass
// 2 doesn't need to re-query the facade, per spec §9.
type direction struct {
	present    bool
	weight     graph.EdgeWeight
	datasource uint8
}

type perEdge struct {
	fwd, rev direction
	turns    []turns.Turn
}

// Render computes the WGS84/mercator bbox for params, queries the
// facade for the edges in that box, and returns a complete MVT tile
// with the speeds and turns layers.
func Render(params geo.TileParams, f graph.Facade) ([]byte, error) {
	if !params.Valid() {
		return nil, fmt.Errorf("tileassembler: invalid tile params %+v", params)
	}

	wgs := geo.XYZToWGS84(params.Z, params.X, params.Y)
	sw := geo.GeoCoord{LonMicro: int32(wgs.MinLon * 1e6), LatMicro: int32(wgs.MinLat * 1e6)}
	ne := geo.GeoCoord{LonMicro: int32(wgs.MaxLon * 1e6), LatMicro: int32(wgs.MaxLat * 1e6)}

	edges, err := f.EdgesInBox(sw, ne)
	if err != nil {
		return nil, fmt.Errorf("tileassembler: edges in box: %w", err)
	}

	lineInts := intern.NewInt32Table()
	pointInts := intern.NewUint64Table()
	perEdgeData := make([]perEdge, len(edges))
	maxDatasourceID := uint8(0)

	// Pass 1: tally intern tables and resolve turn data.
	for i, e := range edges {
		pe := &perEdgeData[i]

		if e.HasForward() {
			w, ds, err := readSegment(f, e.ForwardPackedGeometryID, e.FwdSegmentPosition)
			if err != nil {
				return nil, fmt.Errorf("tileassembler: pass1 forward edge %d: %w", i, err)
			}
			pe.fwd = direction{present: true, weight: w, datasource: ds}
			lineInts.Intern(int32(w))
			if ds > maxDatasourceID {
				maxDatasourceID = ds
			}

			fwdLen, err := geometryLength(f, e.ForwardPackedGeometryID)
			if err != nil {
				return nil, fmt.Errorf("tileassembler: pass1 forward geometry %d: %w", i, err)
			}
			if e.FwdSegmentPosition == fwdLen-1 {
				tds, err := turns.Extract(f, e)
				if err != nil {
					return nil, fmt.Errorf("tileassembler: pass1 turn extract edge %d: %w", i, err)
				}
				pe.turns = tds
				for _, td := range tds {
					pointInts.Intern(td.BearingIn)
					pointInts.Intern(td.BearingOut)
					// The weight is an arbitrary i32, including negatives;
					// it is interned and later written as a uint64, which
					// reinterprets the bits as an enormous unsigned value.
					// This is intentional, per spec §9.
					pointInts.Intern(uint64(uint32(td.Weight)))
				}
			}
		}

		if e.HasReverse() {
			revLen, err := geometryLength(f, e.ReversePackedGeometryID)
			if err != nil {
				return nil, fmt.Errorf("tileassembler: pass1 reverse geometry length %d: %w", i, err)
			}
			revPos := revLen - e.FwdSegmentPosition - 1
			w, ds, err := readSegment(f, e.ReversePackedGeometryID, revPos)
			if err != nil {
				return nil, fmt.Errorf("tileassembler: pass1 reverse edge %d: %w", i, err)
			}
			pe.rev = direction{present: true, weight: w, datasource: ds}
			lineInts.Intern(int32(w))
			if ds > maxDatasourceID {
				maxDatasourceID = ds
			}
		}
	}

	merc := geo.XYZToMercator(params.Z, params.X, params.Y)

	speedsLayer, err := renderSpeedsLayer(f, edges, perEdgeData, merc, lineInts, maxDatasourceID)
	if err != nil {
		return nil, fmt.Errorf("tileassembler: speeds layer: %w", err)
	}
	turnsLayer, err := renderTurnsLayer(f, edges, perEdgeData, merc, pointInts)
	if err != nil {
		return nil, fmt.Errorf("tileassembler: turns layer: %w", err)
	}

	return mvt.EncodeTile([][]byte{speedsLayer, turnsLayer}), nil
}

func geometryLength(f graph.Facade, id graph.PackedGeomID) (int, error) {
	nodes, err := f.UncompressedGeometry(id)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// readSegment returns the weight and datasource id for packed geometry
// id at position pos.
func readSegment(f graph.Facade, id graph.PackedGeomID, pos int) (graph.EdgeWeight, uint8, error) {
	weights, err := f.UncompressedWeights(id)
	if err != nil {
		return 0, 0, err
	}
	datasources, err := f.UncompressedDatasources(id)
	if err != nil {
		return 0, 0, err
	}
	if pos < 0 || pos >= len(weights) || pos >= len(datasources) {
		return 0, 0, fmt.Errorf("segment position %d out of range (weights=%d, datasources=%d)", pos, len(weights), len(datasources))
	}
	return weights[pos], datasources[pos], nil
}

// renderSpeedsLayer emits pass 2a: the "speeds" line layer.
func renderSpeedsLayer(f graph.Facade, edges []graph.Edge, perEdgeData []perEdge, merc geo.MercBBox, lineInts *intern.Int32Table, maxDatasourceID uint8) ([]byte, error) {
	var features [][]byte
	var nextID uint64 = 1

	for i, e := range edges {
		pe := perEdgeData[i]

		if pe.fwd.present && pe.fwd.weight != 0 && e.ForwardSegmentID.Enabled {
			feat, err := buildLineFeature(f, e.U, e.V, pe.fwd, merc, lineInts, maxDatasourceID, e.ComponentIsTiny, &nextID)
			if err != nil {
				return nil, err
			}
			if feat != nil {
				features = append(features, feat)
			}
		}
		if pe.rev.present && pe.rev.weight != 0 && e.ReverseSegmentID.Enabled {
			feat, err := buildLineFeature(f, e.V, e.U, pe.rev, merc, lineInts, maxDatasourceID, e.ComponentIsTiny, &nextID)
			if err != nil {
				return nil, err
			}
			if feat != nil {
				features = append(features, feat)
			}
		}
	}

	values := buildLineValueTable(f, lineInts, maxDatasourceID)
	return mvt.EncodeLayer(layerSpeeds, features, lineKeys, values), nil
}

// buildLineFeature projects and clips one directed segment (from->to)
// and, if it survives clipping, returns its encoded Feature submessage.
// A nil, nil result means the feature was clipped away entirely.
func buildLineFeature(f graph.Facade, from, to graph.NodeID, d direction, merc geo.MercBBox, lineInts *intern.Int32Table, maxDatasourceID uint8, isTiny bool, nextID *uint64) ([]byte, error) {
	fromCoord, err := f.CoordOfNode(from)
	if err != nil {
		return nil, fmt.Errorf("coord of %d: %w", from, err)
	}
	toCoord, err := f.CoordOfNode(to)
	if err != nil {
		return nil, fmt.Errorf("coord of %d: %w", to, err)
	}

	p0 := geo.WGS84ToTile(fromCoord, merc)
	p1 := geo.WGS84ToTile(toCoord, merc)
	line := geo.ClipLine(p0, p1)
	if len(line) == 0 {
		return nil, nil
	}

	lengthM := turns.HaversineMeters(fromCoord, toCoord)
	speedKmh := int64(math.Round(lengthM / float64(d.weight) * 10 * 3.6))
	if speedKmh < 0 {
		speedKmh = 0
	} else if speedKmh > 127 {
		speedKmh = 127
	}

	isTinyOffset := 129
	if isTiny {
		isTinyOffset = 128
	}

	durationOffset := lineInts.Intern(int32(d.weight))

	tags := []uint32{
		0, uint32(speedKmh),
		1, uint32(isTinyOffset),
		2, uint32(130 + int(d.datasource)),
		3, uint32(130 + int(maxDatasourceID) + 1 + durationOffset),
	}

	id := *nextID
	*nextID++
	return mvt.EncodeLineFeature(id, tags, line), nil
}

// buildLineValueTable lays out the speeds-layer value table exactly as
// spec §4.4 requires: 0..127 uint speeds, then true/false, then one
// datasource name per id, then one double (weight/10) per line_ints
// entry in insertion order.
func buildLineValueTable(f graph.Facade, lineInts *intern.Int32Table, maxDatasourceID uint8) []mvt.Value {
	values := make([]mvt.Value, 0, 130+int(maxDatasourceID)+1+len(lineInts.Values()))

	for v := 0; v < 128; v++ {
		values = append(values, mvt.EncodeUintValue(uint64(v)))
	}
	values = append(values, mvt.EncodeBoolValue(true))
	values = append(values, mvt.EncodeBoolValue(false))

	for id := uint8(0); ; id++ {
		name, _ := f.DatasourceName(id)
		values = append(values, mvt.EncodeStringValue(name))
		if id == maxDatasourceID {
			break
		}
	}

	for _, v := range lineInts.Values() {
		values = append(values, mvt.EncodeDoubleValue(float64(v)/10.0))
	}

	return values
}

// renderTurnsLayer emits pass 2b: the "turns" point layer.
func renderTurnsLayer(f graph.Facade, edges []graph.Edge, perEdgeData []perEdge, merc geo.MercBBox, pointInts *intern.Uint64Table) ([]byte, error) {
	var features [][]byte
	var nextID uint64 = 1

	for i, e := range edges {
		pe := perEdgeData[i]
		if len(pe.turns) == 0 {
			continue
		}

		vCoord, err := f.CoordOfNode(e.V)
		if err != nil {
			return nil, fmt.Errorf("coord of %d: %w", e.V, err)
		}
		tp := geo.WGS84ToTile(vCoord, merc)
		if !geo.PointInClipBox(tp) {
			continue
		}

		for _, td := range pe.turns {
			inOff := pointInts.Intern(td.BearingIn)
			outOff := pointInts.Intern(td.BearingOut)
			weightOff := pointInts.Intern(uint64(uint32(td.Weight)))

			tags := []uint32{0, uint32(inOff), 1, uint32(outOff), 2, uint32(weightOff)}
			id := nextID
			nextID++
			features = append(features, mvt.EncodePointFeature(id, tags, tp))
		}
	}

	values := make([]mvt.Value, 0, len(pointInts.Values()))
	for _, v := range pointInts.Values() {
		values = append(values, mvt.EncodeUintValue(v))
	}

	return mvt.EncodeLayer(layerTurns, features, pointKeys, values), nil
}
