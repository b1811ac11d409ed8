package geo

import "math"

// TileSize is the conventional pixel size of one tile at zoom 0; it
// fixes the scale of XYZToMercator and degreeToPx below.
const TileSize = 256.0

// degreeToPx converts a degree of longitude to Web-Mercator pixel-meters
// at zoom 0 (TileSize spans 360 degrees of longitude).
const degreeToPx = TileSize / 360.0

// XYZToWGS84 computes the geographic bounding box of tile (z,x,y) using
// the standard slippy-map formulas.
func XYZToWGS84(z uint8, x, y uint32) WGS84BBox {
	n := math.Exp2(float64(z))

	minLon := float64(x)/n*360.0 - 180.0
	maxLon := float64(x+1)/n*360.0 - 180.0

	minLat := tileYToLat(float64(y+1), n)
	maxLat := tileYToLat(float64(y), n)

	return WGS84BBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

func tileYToLat(y, n float64) float64 {
	rad := math.Atan(math.Sinh(math.Pi * (1 - 2*y/n)))
	return rad * 180.0 / math.Pi
}

// XYZToMercator returns the bbox of tile (z,x,y) in Web-Mercator
// pixel-meter units, the same units WGS84ToTile's bbox argument expects.
// It reprojects the tile's WGS84 corners with the identical
// degreeToPx/latToMercY formulas WGS84ToTile uses on individual points,
// so the two stay on a consistent scale regardless of zoom: a tile's
// mercator width is TileSize/2^z pixels, matching spec.
func XYZToMercator(z uint8, x, y uint32) MercBBox {
	wgs := XYZToWGS84(z, x, y)

	minX := wgs.MinLon * degreeToPx
	maxX := wgs.MaxLon * degreeToPx

	// Y grows downward in tile space and upward in mercator space, so
	// the tile's north edge (MaxLat) maps to the larger mercator Y.
	minY := latToMercY(wgs.MinLat) * degreeToPx
	maxY := latToMercY(wgs.MaxLat) * degreeToPx

	return MercBBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// latToMercY projects a latitude in degrees to the Web-Mercator Y axis
// in the same degree-scaled units XYZToMercator uses, clamped at high
// latitudes by the underlying math.Log/Tan domain.
func latToMercY(lat float64) float64 {
	return math.Log(math.Tan(math.Pi/4+lat*math.Pi/360)) * 180.0 / math.Pi
}

// WGS84ToTile projects a geographic point to tile-local grid units,
// rounding to the nearest integer before any clipping occurs so that
// output is bit-identical across re-projections of the same point.
func WGS84ToTile(p GeoCoord, bbox MercBBox) TilePoint {
	pxMerc := p.Lon() * degreeToPx
	pyMerc := latToMercY(p.Lat()) * degreeToPx

	tx := round((pxMerc - bbox.MinX) / bbox.Width() * Extent)
	ty := round((bbox.MaxY - pyMerc) / bbox.Height() * Extent)

	return TilePoint{X: int32(tx), Y: int32(ty)}
}

func round(v float64) float64 {
	return math.Round(v)
}
