package mvt

import "roadtiles/internal/geo"

const (
	layerFieldName    = 1
	layerFieldFeature = 2
	layerFieldKey     = 3
	layerFieldValue   = 4
	layerFieldExtent  = 5
	layerFieldVersion = 15

	layerVersion = 2
)

// Value is a pre-encoded Value submessage, produced by one of the
// EncodeXValue helpers.
type Value = []byte

// EncodeLayer frames a complete Layer submessage: version, name, one
// entry per feature (already-encoded Feature submessages, in id order),
// the layer's keys (in index order), the layer's values (in index
// order), and the fixed extent.
func EncodeLayer(name string, features [][]byte, keys []string, values []Value) []byte {
	var buf []byte
	buf = appendVarintField(buf, layerFieldVersion, layerVersion)
	buf = appendLenDelim(buf, layerFieldName, []byte(name))

	for _, f := range features {
		buf = appendLenDelim(buf, layerFieldFeature, f)
	}
	for _, k := range keys {
		buf = appendLenDelim(buf, layerFieldKey, []byte(k))
	}
	for _, v := range values {
		buf = appendLenDelim(buf, layerFieldValue, v)
	}

	buf = appendVarintField(buf, layerFieldExtent, uint64(geo.Extent))
	return buf
}
