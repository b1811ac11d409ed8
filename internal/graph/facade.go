// Package graph defines the read-only Facade the tile core consumes:
// node coordinates, packed/compressed geometry, and the contraction
// hierarchy's edge-based shortcut index. Loading the graph from disk,
// the spatial index, and the compressed geometry store itself are all
// outer collaborators — the core only ever calls through this
// interface.
package graph

import "roadtiles/internal/geo"

// NodeID identifies a routing-graph node (an intersection or a point
// along a road).
type NodeID uint32

// PackedGeomID is an opaque handle into the compressed per-edge
// geometry store. NoGeometry marks a disabled direction.
type PackedGeomID uint32

// NoGeometry is the sentinel PackedGeomID meaning "this direction is
// disabled".
const NoGeometry PackedGeomID = ^PackedGeomID(0)

// EdgeBasedEdgeID identifies an edge of the edge-based graph (a
// maneuver from one directed road segment to the next).
type EdgeBasedEdgeID uint32

// ShortcutID identifies a synthetic contraction-hierarchy edge
// summarizing a path of underlying edge-based edges.
type ShortcutID uint32

// DirectedSegment is one direction's (id, enabled) pair on an Edge.
type DirectedSegment struct {
	ID      EdgeBasedEdgeID
	Enabled bool
}

// Edge is one directed road segment returned by a bbox query, carrying
// both directions' handles so the assembler can process forward and
// reverse travel in one pass.
type Edge struct {
	U, V NodeID

	ForwardPackedGeometryID PackedGeomID
	ReversePackedGeometryID PackedGeomID
	FwdSegmentPosition      int

	ForwardSegmentID DirectedSegment
	ReverseSegmentID DirectedSegment

	ComponentIsTiny bool
}

// HasForward reports whether this edge carries a usable forward
// geometry handle.
func (e Edge) HasForward() bool { return e.ForwardPackedGeometryID != NoGeometry }

// HasReverse reports whether this edge carries a usable reverse
// geometry handle.
func (e Edge) HasReverse() bool { return e.ReversePackedGeometryID != NoGeometry }

// EdgeWeight is a segment travel time in deciseconds (0.1s units).
type EdgeWeight int32

// EdgeData carries the subset of a shortcut's properties the turn
// extractor needs.
type EdgeData struct {
	Forward  bool
	Backward bool
}

// UnpackedEdge is one constituent edge-based edge of an unpacked
// shortcut, with its cumulative distance along the shortcut.
type UnpackedEdge struct {
	ID       EdgeBasedEdgeID
	Distance EdgeWeight
}

// Facade is the read-only view of the routing graph the tile core
// requires. All methods are expected to succeed for valid inputs;
// failures are treated as programming errors (see spec §7).
type Facade interface {
	// EdgesInBox returns every directed road segment whose geometry
	// intersects the box [sw, ne], in a stable iteration order (the
	// order feature ids follow).
	EdgesInBox(sw, ne geo.GeoCoord) ([]Edge, error)

	CoordOfNode(id NodeID) (geo.GeoCoord, error)

	UncompressedWeights(id PackedGeomID) ([]EdgeWeight, error)
	UncompressedDatasources(id PackedGeomID) ([]uint8, error)
	UncompressedGeometry(id PackedGeomID) ([]NodeID, error)

	AdjacentEdgeRange(id EdgeBasedEdgeID) ([]ShortcutID, error)
	EdgeData(id ShortcutID) (EdgeData, error)
	Target(id ShortcutID) (EdgeBasedEdgeID, error)

	// UnpackEdgeToEdges expands the shortcut path from source to
	// target into its constituent edge-based edges.
	UnpackEdgeToEdges(source, target EdgeBasedEdgeID) ([]UnpackedEdge, error)

	GeometryIndexForEdge(id EdgeBasedEdgeID) (PackedGeomID, error)
	DatasourceName(id uint8) (string, error)
}
