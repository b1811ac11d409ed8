// Package turns implements turn-penalty reconstruction (spec §4.5): for
// an edge whose forward segment terminates at an intersection, it
// enumerates the intersection's outgoing shortcuts, unpacks each one
// level, and derives a turn weight from the shortcut/path weight delta.
package turns

import (
	"fmt"
	"math"

	"roadtiles/internal/geo"
	"roadtiles/internal/graph"
)

// Turn is one reconstructed turn: the outgoing node it leads to, its
// bearing pair, and its weight, all still in raw (uninterned) form.
type Turn struct {
	CNode     graph.NodeID
	BearingIn  uint64
	BearingOut uint64
	Weight     int32
}

// Extract computes the turns available at the intersection where
// edge's forward segment terminates. Call this only when
// edge.HasForward() && edge.FwdSegmentPosition == len(forwardGeometry)-1.
func Extract(f graph.Facade, edge graph.Edge) ([]Turn, error) {
	fwdNodes, err := f.UncompressedGeometry(edge.ForwardPackedGeometryID)
	if err != nil {
		return nil, fmt.Errorf("turns: geometry for %d: %w", edge.ForwardPackedGeometryID, err)
	}
	fwdWeights, err := f.UncompressedWeights(edge.ForwardPackedGeometryID)
	if err != nil {
		return nil, fmt.Errorf("turns: weights for %d: %w", edge.ForwardPackedGeometryID, err)
	}

	var sumNodeWeight int32
	for _, w := range fwdWeights {
		sumNodeWeight += int32(w)
	}

	vCoord, err := f.CoordOfNode(edge.V)
	if err != nil {
		return nil, fmt.Errorf("turns: coord of v=%d: %w", edge.V, err)
	}

	var aNode graph.NodeID
	if len(fwdNodes) == 1 {
		aNode = edge.U
	} else {
		aNode = fwdNodes[len(fwdNodes)-2]
	}
	aCoord, err := f.CoordOfNode(aNode)
	if err != nil {
		return nil, fmt.Errorf("turns: coord of predecessor=%d: %w", aNode, err)
	}

	bearingIn := uint64(bearing(aCoord, vCoord))

	shortcuts, err := f.AdjacentEdgeRange(edge.ForwardSegmentID.ID)
	if err != nil {
		return nil, fmt.Errorf("turns: adjacent edges for %d: %w", edge.ForwardSegmentID.ID, err)
	}

	// Last write wins on duplicate successor nodes, matching spec §9.
	cNodeWeight := make(map[graph.NodeID]int32)
	order := make([]graph.NodeID, 0, len(shortcuts))

	for _, s := range shortcuts {
		data, err := f.EdgeData(s)
		if err != nil {
			return nil, fmt.Errorf("turns: edge data for shortcut %d: %w", s, err)
		}
		if !data.Forward {
			continue
		}

		target, err := f.Target(s)
		if err != nil {
			return nil, fmt.Errorf("turns: target of shortcut %d: %w", s, err)
		}

		unpacked, err := f.UnpackEdgeToEdges(edge.ForwardSegmentID.ID, target)
		if err != nil {
			return nil, fmt.Errorf("turns: unpack shortcut %d: %w", s, err)
		}
		if len(unpacked) < 2 {
			// Degenerate: only represents the edge we arrived on.
			continue
		}

		succGeomID, err := f.GeometryIndexForEdge(unpacked[1].ID)
		if err != nil {
			return nil, fmt.Errorf("turns: geometry index for %d: %w", unpacked[1].ID, err)
		}
		succNodes, err := f.UncompressedGeometry(succGeomID)
		if err != nil {
			return nil, fmt.Errorf("turns: successor geometry %d: %w", succGeomID, err)
		}
		if len(succNodes) == 0 {
			return nil, fmt.Errorf("turns: successor geometry %d is empty", succGeomID)
		}
		cNode := succNodes[0]

		turnWeight := int32(unpacked[0].Distance) - sumNodeWeight

		if _, seen := cNodeWeight[cNode]; !seen {
			order = append(order, cNode)
		}
		cNodeWeight[cNode] = turnWeight
	}

	if len(order) == 0 {
		return nil, nil
	}

	out := make([]Turn, 0, len(order))
	for _, cNode := range order {
		cCoord, err := f.CoordOfNode(cNode)
		if err != nil {
			return nil, fmt.Errorf("turns: coord of successor=%d: %w", cNode, err)
		}
		out = append(out, Turn{
			CNode:      cNode,
			BearingIn:  bearingIn,
			BearingOut: uint64(bearing(vCoord, cCoord)),
			Weight:     cNodeWeight[cNode],
		})
	}
	return out, nil
}

// bearing computes the geodesic azimuth in degrees, [0, 360), from a to b.
func bearing(a, b geo.GeoCoord) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(theta+360, 360)
}

// HaversineMeters returns the great-circle distance between a and b in
// meters, used by the assembler to derive per-segment speed.
func HaversineMeters(a, b geo.GeoCoord) float64 {
	const earthRadiusM = 6371000.0
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusM * math.Asin(math.Sqrt(h))
}
