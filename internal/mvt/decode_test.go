package mvt

import (
	"testing"

	"roadtiles/internal/geo"
)

// decodedField is a minimal (field number, wire type, payload) tuple
// used only by these structural tests.
type decodedField struct {
	num  int
	wire int
	raw  []byte // wireVarint: varint value as bytes; wireLenDelim: payload; wireFixed64: 8 raw bytes
}

func decodeFields(buf []byte) []decodedField {
	var out []decodedField
	for len(buf) > 0 {
		tag, rest := decodeVarint(buf)
		num := int(tag >> 3)
		wire := int(tag & 0x7)
		buf = rest
		switch wire {
		case wireVarint:
			_, rest := decodeVarint(buf)
			consumed := len(buf) - len(rest)
			out = append(out, decodedField{num, wire, buf[:consumed]})
			buf = rest
		case wireLenDelim:
			n, rest := decodeVarint(buf)
			payload := rest[:n]
			out = append(out, decodedField{num, wire, payload})
			buf = rest[n:]
		case wireFixed64:
			out = append(out, decodedField{num, wire, buf[:8]})
			buf = buf[8:]
		default:
			panic("unsupported wire type in test decoder")
		}
	}
	return out
}

func TestEncodeTile_StructurallyValid(t *testing.T) {
	line := geo.TileLine{{X: 10, Y: 20}, {X: 30, Y: 40}, {X: 50, Y: 10}}
	feat := EncodeLineFeature(1, []uint32{0, 1}, line)

	keys := []string{"speed", "is_small"}
	values := []Value{EncodeUintValue(42), EncodeBoolValue(true)}
	layer := EncodeLayer("speeds", [][]byte{feat}, keys, values)
	tile := EncodeTile([][]byte{layer})

	tileFields := decodeFields(tile)
	if len(tileFields) != 1 || tileFields[0].num != tileFieldLayer {
		t.Fatalf("expected exactly one layer field, got %+v", tileFields)
	}

	layerFields := decodeFields(tileFields[0].raw)
	var gotName string
	var gotExtent uint64
	var nFeatures, nKeys, nValues int
	for _, f := range layerFields {
		switch f.num {
		case layerFieldName:
			gotName = string(f.raw)
		case layerFieldExtent:
			gotExtent, _ = decodeVarint(f.raw)
		case layerFieldFeature:
			nFeatures++
			validateFeature(t, f.raw, len(keys), len(values))
		case layerFieldKey:
			nKeys++
		case layerFieldValue:
			nValues++
		}
	}

	if gotName != "speeds" {
		t.Errorf("layer name = %q, want speeds", gotName)
	}
	if gotExtent != geo.Extent {
		t.Errorf("layer extent = %d, want %d", gotExtent, geo.Extent)
	}
	if nFeatures != 1 {
		t.Errorf("nFeatures = %d, want 1", nFeatures)
	}
	if nKeys != len(keys) {
		t.Errorf("nKeys = %d, want %d", nKeys, len(keys))
	}
	if nValues != len(values) {
		t.Errorf("nValues = %d, want %d", nValues, len(values))
	}
}

func validateFeature(t *testing.T, raw []byte, numKeys, numValues int) {
	t.Helper()
	fields := decodeFields(raw)
	var geomType uint64
	var tags []uint32
	var geomCmds []uint32
	for _, f := range fields {
		switch f.num {
		case featureFieldType:
			geomType, _ = decodeVarint(f.raw)
		case featureFieldTags:
			tags = decodePackedUint32(f.raw)
		case featureFieldGeometry:
			geomCmds = decodePackedUint32(f.raw)
		}
	}

	if len(tags)%2 != 0 {
		t.Fatalf("tags must come in pairs, got %d entries", len(tags))
	}
	for i := 0; i < len(tags); i += 2 {
		if int(tags[i]) >= numKeys {
			t.Errorf("tag key index %d out of range (numKeys=%d)", tags[i], numKeys)
		}
		if int(tags[i+1]) >= numValues {
			t.Errorf("tag value index %d out of range (numValues=%d)", tags[i+1], numValues)
		}
	}

	if geomType != uint64(GeomLine) && geomType != uint64(GeomPoint) {
		t.Fatalf("unexpected geometry type %d", geomType)
	}
	if len(geomCmds) == 0 {
		t.Fatalf("expected non-empty geometry commands")
	}
}

func decodePackedUint32(buf []byte) []uint32 {
	var out []uint32
	for len(buf) > 0 {
		v, rest := decodeVarint(buf)
		out = append(out, uint32(v))
		buf = rest
	}
	return out
}
