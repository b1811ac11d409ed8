package tileassembler

import (
	"fmt"

	"roadtiles/internal/geo"
	"roadtiles/internal/graph"
)

// testFacade is a small, fully in-memory graph.Facade used by the
// assembler's end-to-end scenario tests (spec §8, S1-S6). It has no
// relation to internal/graphstore's sqlite-backed facade; these tests
// are deliberately free of a database dependency.
type testFacade struct {
	coords      map[graph.NodeID]geo.GeoCoord
	edges       []graph.Edge
	weights     map[graph.PackedGeomID][]graph.EdgeWeight
	datasources map[graph.PackedGeomID][]uint8
	geometries  map[graph.PackedGeomID][]graph.NodeID
	dsNames     map[uint8]string

	adjacency map[graph.EdgeBasedEdgeID][]graph.ShortcutID
	edgeData  map[graph.ShortcutID]graph.EdgeData
	targets   map[graph.ShortcutID]graph.EdgeBasedEdgeID
	unpacked  map[graph.ShortcutID][]graph.UnpackedEdge
	geomFor   map[graph.EdgeBasedEdgeID]graph.PackedGeomID
}

func newTestFacade() *testFacade {
	return &testFacade{
		coords:      map[graph.NodeID]geo.GeoCoord{},
		weights:     map[graph.PackedGeomID][]graph.EdgeWeight{},
		datasources: map[graph.PackedGeomID][]uint8{},
		geometries:  map[graph.PackedGeomID][]graph.NodeID{},
		dsNames:     map[uint8]string{0: "osm"},
		adjacency:   map[graph.EdgeBasedEdgeID][]graph.ShortcutID{},
		edgeData:    map[graph.ShortcutID]graph.EdgeData{},
		targets:     map[graph.ShortcutID]graph.EdgeBasedEdgeID{},
		unpacked:    map[graph.ShortcutID][]graph.UnpackedEdge{},
		geomFor:     map[graph.EdgeBasedEdgeID]graph.PackedGeomID{},
	}
}

func (f *testFacade) EdgesInBox(sw, ne geo.GeoCoord) ([]graph.Edge, error) { return f.edges, nil }

func (f *testFacade) CoordOfNode(id graph.NodeID) (geo.GeoCoord, error) {
	c, ok := f.coords[id]
	if !ok {
		return geo.GeoCoord{}, fmt.Errorf("no coord for node %d", id)
	}
	return c, nil
}

func (f *testFacade) UncompressedWeights(id graph.PackedGeomID) ([]graph.EdgeWeight, error) {
	return f.weights[id], nil
}
func (f *testFacade) UncompressedDatasources(id graph.PackedGeomID) ([]uint8, error) {
	return f.datasources[id], nil
}
func (f *testFacade) UncompressedGeometry(id graph.PackedGeomID) ([]graph.NodeID, error) {
	return f.geometries[id], nil
}
func (f *testFacade) AdjacentEdgeRange(id graph.EdgeBasedEdgeID) ([]graph.ShortcutID, error) {
	return f.adjacency[id], nil
}
func (f *testFacade) EdgeData(id graph.ShortcutID) (graph.EdgeData, error) {
	return f.edgeData[id], nil
}
func (f *testFacade) Target(id graph.ShortcutID) (graph.EdgeBasedEdgeID, error) {
	return f.targets[id], nil
}
func (f *testFacade) UnpackEdgeToEdges(source, target graph.EdgeBasedEdgeID) ([]graph.UnpackedEdge, error) {
	for sid, tgt := range f.targets {
		if tgt == target {
			return f.unpacked[sid], nil
		}
	}
	return nil, nil
}
func (f *testFacade) GeometryIndexForEdge(id graph.EdgeBasedEdgeID) (graph.PackedGeomID, error) {
	return f.geomFor[id], nil
}
func (f *testFacade) DatasourceName(id uint8) (string, error) {
	name, ok := f.dsNames[id]
	if !ok {
		return "", fmt.Errorf("no datasource name for id %d", id)
	}
	return name, nil
}
