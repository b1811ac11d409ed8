package mvt

import "roadtiles/internal/geo"

// GeomType mirrors the MVT Feature.type enum values this core emits.
type GeomType int

const (
	GeomPoint GeomType = 1
	GeomLine  GeomType = 2
)

const (
	featureFieldID       = 1
	featureFieldTags     = 2
	featureFieldType     = 3
	featureFieldGeometry = 4
)

// EncodeLineFeature builds a complete Feature submessage for a LINE
// geometry. tags is the flattened (key_index, value_index) pair
// sequence described in spec.md §4.4.
func EncodeLineFeature(id uint64, tags []uint32, line geo.TileLine) []byte {
	var buf []byte
	buf = appendVarintField(buf, featureFieldID, id)
	buf = appendPackedUint32Field(buf, featureFieldTags, tags)
	buf = appendVarintField(buf, featureFieldType, uint64(GeomLine))
	buf = appendPackedUint32Field(buf, featureFieldGeometry, encodeLineString(line))
	return buf
}

// EncodePointFeature builds a complete Feature submessage for a POINT
// geometry.
func EncodePointFeature(id uint64, tags []uint32, p geo.TilePoint) []byte {
	var buf []byte
	buf = appendVarintField(buf, featureFieldID, id)
	buf = appendPackedUint32Field(buf, featureFieldTags, tags)
	buf = appendVarintField(buf, featureFieldType, uint64(GeomPoint))
	buf = appendPackedUint32Field(buf, featureFieldGeometry, encodePoint(p))
	return buf
}
