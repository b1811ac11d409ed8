// Package geo implements the coordinate transforms and clipping the tile
// assembler needs: WGS84/Web-Mercator projection and tile-local clipping.
package geo

const (
	// Extent is the resolution of the tile grid, in tile-local units.
	Extent = 4096
	// Buffer is the overdraw margin, in tile-local units, used when
	// clipping so features spanning tile borders render without seams.
	Buffer = 128

	// ClipMin and ClipMax bound the buffered tile box on both axes.
	ClipMin = -Buffer
	ClipMax = Extent + Buffer
)

// GeoCoord is a WGS84 longitude/latitude pair held as fixed-point
// microdegree integers, matching the routing engine's native scale.
type GeoCoord struct {
	LonMicro int32
	LatMicro int32
}

// Lon returns the longitude in IEEE-754 double degrees.
func (g GeoCoord) Lon() float64 { return float64(g.LonMicro) / 1e6 }

// Lat returns the latitude in IEEE-754 double degrees.
func (g GeoCoord) Lat() float64 { return float64(g.LatMicro) / 1e6 }

// MercCoord is a point in Web-Mercator meters (well, "pixel-meters" —
// the same px-scaled unit used by XYZToMercator).
type MercCoord struct {
	X, Y float64
}

// TilePoint is a point in tile grid units, roughly bounded by
// [-Buffer, Extent+Buffer] on each axis once clipped.
type TilePoint struct {
	X, Y int32
}

// TileLine is an ordered sequence of TilePoint. After clipping its
// length is 0 or >= 2; ClipLine discards a clip that collapses to a
// single point.
type TileLine []TilePoint

// WGS84BBox is a geographic bounding box in double degrees.
type WGS84BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// MercBBox is a bounding box in the same Web-Mercator pixel-meter units
// as MercCoord.
type MercBBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width and Height are the bbox extents, used by WGS84ToTile.
func (b MercBBox) Width() float64  { return b.MaxX - b.MinX }
func (b MercBBox) Height() float64 { return b.MaxY - b.MinY }

// TileParams identifies a single slippy-map tile.
type TileParams struct {
	Z uint8
	X uint32
	Y uint32
}

// Valid reports whether the tile coordinates are in range.
func (p TileParams) Valid() bool {
	if p.Z > 22 {
		return false
	}
	n := uint32(1) << p.Z
	return p.X < n && p.Y < n
}
