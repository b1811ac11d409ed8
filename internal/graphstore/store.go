// Package graphstore implements graph.Facade over a modernc.org/sqlite
// database (spec §3's storage model, §4.7): nodes, directed edges,
// packed geometry, and the flattened edge-based shortcut index, with an
// in-memory LRU in front of the node/geometry reads the tile core
// re-issues once per pass.
package graphstore

import (
	"database/sql"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"roadtiles/internal/geo"
	"roadtiles/internal/graph"
)

const cacheSize = 4096

// Store is a graph.Facade backed by a SQLite database.
type Store struct {
	db *sql.DB

	nodeCache *lru.Cache[graph.NodeID, geo.GeoCoord]
	geomCache *lru.Cache[graph.PackedGeomID, packedGeometry]
}

type packedGeometry struct {
	nodes       []graph.NodeID
	weights     []graph.EdgeWeight
	datasources []uint8
}

// Open opens (creating if absent) a SQLite database at path and
// prepares the tables graphstore expects.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("graphstore: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("graphstore: ping %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("graphstore: apply schema: %w", err)
	}

	nodeCache, err := lru.New[graph.NodeID, geo.GeoCoord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("graphstore: node cache: %w", err)
	}
	geomCache, err := lru.New[graph.PackedGeomID, packedGeometry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("graphstore: geometry cache: %w", err)
	}

	return &Store{db: db, nodeCache: nodeCache, geomCache: geomCache}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EdgesInBox implements graph.Facade. It is a linear scan over the edges
// table's precomputed bbox columns, adequate for the demo/test scale
// this repo targets; a production deployment would swap this for a real
// spatial index without the Facade interface changing.
func (s *Store) EdgesInBox(sw, ne geo.GeoCoord) ([]graph.Edge, error) {
	const q = `
		SELECT u, v, forward_geom_id, reverse_geom_id, fwd_segment_position,
		       forward_segment_id, forward_enabled,
		       reverse_segment_id, reverse_enabled, is_tiny
		FROM edges
		WHERE NOT (max_lon < ? OR min_lon > ? OR max_lat < ? OR min_lat > ?)
		ORDER BY id`

	rows, err := s.db.Query(q, sw.LonMicro, ne.LonMicro, sw.LatMicro, ne.LatMicro)
	if err != nil {
		return nil, fmt.Errorf("graphstore: edges in box: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		var fwdGeom, revGeom sql.NullInt64
		var fwdSegID, revSegID sql.NullInt64
		var fwdEnabled, revEnabled, isTiny int

		if err := rows.Scan(&e.U, &e.V, &fwdGeom, &revGeom, &e.FwdSegmentPosition,
			&fwdSegID, &fwdEnabled, &revSegID, &revEnabled, &isTiny); err != nil {
			return nil, fmt.Errorf("graphstore: scan edge row: %w", err)
		}

		e.ForwardPackedGeometryID = nullGeomID(fwdGeom)
		e.ReversePackedGeometryID = nullGeomID(revGeom)
		e.ForwardSegmentID = graph.DirectedSegment{ID: graph.EdgeBasedEdgeID(fwdSegID.Int64), Enabled: fwdEnabled != 0}
		e.ReverseSegmentID = graph.DirectedSegment{ID: graph.EdgeBasedEdgeID(revSegID.Int64), Enabled: revEnabled != 0}
		e.ComponentIsTiny = isTiny != 0

		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("graphstore: edges in box: %w", err)
	}
	return edges, nil
}

func nullGeomID(v sql.NullInt64) graph.PackedGeomID {
	if !v.Valid {
		return graph.NoGeometry
	}
	return graph.PackedGeomID(v.Int64)
}

// CoordOfNode implements graph.Facade, reading through nodeCache.
func (s *Store) CoordOfNode(id graph.NodeID) (geo.GeoCoord, error) {
	if c, ok := s.nodeCache.Get(id); ok {
		return c, nil
	}
	var lon, lat int32
	err := s.db.QueryRow(`SELECT lon, lat FROM nodes WHERE id = ?`, id).Scan(&lon, &lat)
	if err != nil {
		return geo.GeoCoord{}, fmt.Errorf("graphstore: coord of node %d: %w", id, err)
	}
	c := geo.GeoCoord{LonMicro: lon, LatMicro: lat}
	s.nodeCache.Add(id, c)
	return c, nil
}

func (s *Store) loadGeometry(id graph.PackedGeomID) (packedGeometry, error) {
	if g, ok := s.geomCache.Get(id); ok {
		return g, nil
	}

	rows, err := s.db.Query(
		`SELECT node_id, weight_ds, datasource FROM geometries WHERE packed_id = ? ORDER BY position`, id)
	if err != nil {
		return packedGeometry{}, fmt.Errorf("graphstore: geometry %d: %w", id, err)
	}
	defer rows.Close()

	var g packedGeometry
	for rows.Next() {
		var nodeID graph.NodeID
		var weight int32
		var ds uint8
		if err := rows.Scan(&nodeID, &weight, &ds); err != nil {
			return packedGeometry{}, fmt.Errorf("graphstore: scan geometry row %d: %w", id, err)
		}
		g.nodes = append(g.nodes, nodeID)
		g.weights = append(g.weights, graph.EdgeWeight(weight))
		g.datasources = append(g.datasources, ds)
	}
	if err := rows.Err(); err != nil {
		return packedGeometry{}, fmt.Errorf("graphstore: geometry %d: %w", id, err)
	}

	s.geomCache.Add(id, g)
	return g, nil
}

// UncompressedWeights implements graph.Facade.
func (s *Store) UncompressedWeights(id graph.PackedGeomID) ([]graph.EdgeWeight, error) {
	g, err := s.loadGeometry(id)
	if err != nil {
		return nil, err
	}
	return g.weights, nil
}

// UncompressedDatasources implements graph.Facade.
func (s *Store) UncompressedDatasources(id graph.PackedGeomID) ([]uint8, error) {
	g, err := s.loadGeometry(id)
	if err != nil {
		return nil, err
	}
	return g.datasources, nil
}

// UncompressedGeometry implements graph.Facade.
func (s *Store) UncompressedGeometry(id graph.PackedGeomID) ([]graph.NodeID, error) {
	g, err := s.loadGeometry(id)
	if err != nil {
		return nil, err
	}
	return g.nodes, nil
}

// AdjacentEdgeRange implements graph.Facade.
func (s *Store) AdjacentEdgeRange(id graph.EdgeBasedEdgeID) ([]graph.ShortcutID, error) {
	rows, err := s.db.Query(`SELECT id FROM shortcuts WHERE edge_based_edge_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("graphstore: adjacent edges for %d: %w", id, err)
	}
	defer rows.Close()

	var out []graph.ShortcutID
	for rows.Next() {
		var sid graph.ShortcutID
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("graphstore: scan shortcut id for %d: %w", id, err)
		}
		out = append(out, sid)
	}
	return out, rows.Err()
}

// EdgeData implements graph.Facade.
func (s *Store) EdgeData(id graph.ShortcutID) (graph.EdgeData, error) {
	var fwd, bwd int
	err := s.db.QueryRow(`SELECT forward, backward FROM shortcuts WHERE id = ?`, id).Scan(&fwd, &bwd)
	if err != nil {
		return graph.EdgeData{}, fmt.Errorf("graphstore: edge data for shortcut %d: %w", id, err)
	}
	return graph.EdgeData{Forward: fwd != 0, Backward: bwd != 0}, nil
}

// Target implements graph.Facade.
func (s *Store) Target(id graph.ShortcutID) (graph.EdgeBasedEdgeID, error) {
	var target graph.EdgeBasedEdgeID
	err := s.db.QueryRow(`SELECT target_edge_based_edge_id FROM shortcuts WHERE id = ?`, id).Scan(&target)
	if err != nil {
		return 0, fmt.Errorf("graphstore: target of shortcut %d: %w", id, err)
	}
	return target, nil
}

// UnpackEdgeToEdges implements graph.Facade by looking up the shortcut
// whose (source, target) pair matches and reading its pre-flattened
// constituent edges from shortcut_edges.
func (s *Store) UnpackEdgeToEdges(source, target graph.EdgeBasedEdgeID) ([]graph.UnpackedEdge, error) {
	var shortcutID graph.ShortcutID
	err := s.db.QueryRow(
		`SELECT id FROM shortcuts WHERE edge_based_edge_id = ? AND target_edge_based_edge_id = ?`,
		source, target).Scan(&shortcutID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("graphstore: find shortcut %d->%d: %w", source, target, err)
	}

	rows, err := s.db.Query(
		`SELECT edge_based_edge_id, cumulative_distance_ds FROM shortcut_edges WHERE shortcut_id = ? ORDER BY position`,
		shortcutID)
	if err != nil {
		return nil, fmt.Errorf("graphstore: unpack shortcut %d: %w", shortcutID, err)
	}
	defer rows.Close()

	var out []graph.UnpackedEdge
	for rows.Next() {
		var u graph.UnpackedEdge
		if err := rows.Scan(&u.ID, &u.Distance); err != nil {
			return nil, fmt.Errorf("graphstore: scan unpacked edge for shortcut %d: %w", shortcutID, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// GeometryIndexForEdge implements graph.Facade by finding the edges row
// whose forward or reverse segment carries id.
func (s *Store) GeometryIndexForEdge(id graph.EdgeBasedEdgeID) (graph.PackedGeomID, error) {
	var geomID sql.NullInt64
	err := s.db.QueryRow(
		`SELECT forward_geom_id FROM edges WHERE forward_segment_id = ?
		 UNION ALL
		 SELECT reverse_geom_id FROM edges WHERE reverse_segment_id = ?
		 LIMIT 1`, id, id).Scan(&geomID)
	if err != nil {
		return 0, fmt.Errorf("graphstore: geometry index for edge %d: %w", id, err)
	}
	return nullGeomID(geomID), nil
}

// DatasourceName implements graph.Facade.
func (s *Store) DatasourceName(id uint8) (string, error) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM datasources WHERE id = ?`, id).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("graphstore: datasource name for %d: %w", id, err)
	}
	return name, nil
}

var _ graph.Facade = (*Store)(nil)
