package graphstore

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id  INTEGER PRIMARY KEY,
	lon INTEGER NOT NULL,
	lat INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	u                    INTEGER NOT NULL,
	v                    INTEGER NOT NULL,
	forward_geom_id      INTEGER,
	reverse_geom_id      INTEGER,
	fwd_segment_position INTEGER NOT NULL,
	forward_segment_id   INTEGER,
	forward_enabled      INTEGER NOT NULL,
	reverse_segment_id   INTEGER,
	reverse_enabled      INTEGER NOT NULL,
	is_tiny              INTEGER NOT NULL,
	min_lon              INTEGER NOT NULL,
	min_lat              INTEGER NOT NULL,
	max_lon              INTEGER NOT NULL,
	max_lat              INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_bbox ON edges (min_lon, max_lon, min_lat, max_lat);

CREATE TABLE IF NOT EXISTS geometries (
	packed_id  INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	node_id    INTEGER NOT NULL,
	weight_ds  INTEGER NOT NULL,
	datasource INTEGER NOT NULL,
	PRIMARY KEY (packed_id, position)
);

CREATE TABLE IF NOT EXISTS shortcuts (
	id                      INTEGER PRIMARY KEY AUTOINCREMENT,
	edge_based_edge_id      INTEGER NOT NULL,
	target_edge_based_edge_id INTEGER NOT NULL,
	forward                 INTEGER NOT NULL,
	backward                INTEGER NOT NULL,
	distance_ds             INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shortcuts_source ON shortcuts (edge_based_edge_id);

-- shortcut_edges flattens the unpacked constituent edge-based edges of
-- each shortcut. A real multi-level CH would unpack shortcuts
-- recursively via a contracted "via" node; this demo facade stores the
-- already-flattened path directly, since recursive unpacking is an
-- implementation detail of the facade, not the core.
CREATE TABLE IF NOT EXISTS shortcut_edges (
	shortcut_id            INTEGER NOT NULL,
	position               INTEGER NOT NULL,
	edge_based_edge_id     INTEGER NOT NULL,
	cumulative_distance_ds INTEGER NOT NULL,
	PRIMARY KEY (shortcut_id, position)
);

CREATE TABLE IF NOT EXISTS datasources (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
`
