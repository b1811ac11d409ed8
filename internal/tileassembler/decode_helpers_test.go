package tileassembler

import "math"

// Minimal protobuf-shaped decoder for the assembler's end-to-end tests.
// Mirrors internal/mvt's own test decoder; duplicated here (rather than
// exported from mvt) to keep mvt's public surface limited to encoding.

type tlvField struct {
	num  int
	wire int
	raw  []byte
}

func decodeVarintBuf(buf []byte) (uint64, []byte) {
	var v uint64
	var shift uint
	for i, b := range buf {
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, buf[i+1:]
		}
		shift += 7
	}
	return v, nil
}

func decodeFieldsBuf(buf []byte) []tlvField {
	var out []tlvField
	for len(buf) > 0 {
		tag, rest := decodeVarintBuf(buf)
		num := int(tag >> 3)
		wire := int(tag & 0x7)
		buf = rest
		switch wire {
		case 0: // varint
			_, rest := decodeVarintBuf(buf)
			consumed := len(buf) - len(rest)
			out = append(out, tlvField{num, wire, buf[:consumed]})
			buf = rest
		case 2: // length-delimited
			n, rest := decodeVarintBuf(buf)
			payload := rest[:n]
			out = append(out, tlvField{num, wire, payload})
			buf = rest[n:]
		case 1: // fixed64
			out = append(out, tlvField{num, wire, buf[:8]})
			buf = buf[8:]
		default:
			panic("unsupported wire type in test decoder")
		}
	}
	return out
}

func decodePackedUint32Buf(buf []byte) []uint32 {
	var out []uint32
	for len(buf) > 0 {
		v, rest := decodeVarintBuf(buf)
		out = append(out, uint32(v))
		buf = rest
	}
	return out
}

type decodedLayer struct {
	name     string
	extent   uint64
	features []decodedFeature
	keys     []string
	values   [][]byte
}

type decodedFeature struct {
	id       uint64
	tags     []uint32
	geomType uint64
	geom     []uint32
}

func decodeTile(tile []byte) []decodedLayer {
	var layers []decodedLayer
	for _, f := range decodeFieldsBuf(tile) {
		if f.num != 3 { // Tile.layer
			continue
		}
		layers = append(layers, decodeLayer(f.raw))
	}
	return layers
}

func decodeLayer(raw []byte) decodedLayer {
	var l decodedLayer
	for _, f := range decodeFieldsBuf(raw) {
		switch f.num {
		case 1:
			l.name = string(f.raw)
		case 2:
			l.features = append(l.features, decodeFeature(f.raw))
		case 3:
			l.keys = append(l.keys, string(f.raw))
		case 4:
			l.values = append(l.values, f.raw)
		case 5:
			l.extent, _ = decodeVarintBuf(f.raw)
		}
	}
	return l
}

func decodeFeature(raw []byte) decodedFeature {
	var ft decodedFeature
	for _, f := range decodeFieldsBuf(raw) {
		switch f.num {
		case 1:
			ft.id, _ = decodeVarintBuf(f.raw)
		case 2:
			ft.tags = decodePackedUint32Buf(f.raw)
		case 3:
			ft.geomType, _ = decodeVarintBuf(f.raw)
		case 4:
			ft.geom = decodePackedUint32Buf(f.raw)
		}
	}
	return ft
}

func unzigzag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

func decodeValueDouble(raw []byte) (float64, bool) {
	for _, f := range decodeFieldsBuf(raw) {
		if f.num == 3 && f.wire == 1 {
			var bits uint64
			for i := 7; i >= 0; i-- {
				bits = bits<<8 | uint64(f.raw[i])
			}
			return math.Float64frombits(bits), true
		}
	}
	return 0, false
}

func decodeValueUint(raw []byte) (uint64, bool) {
	for _, f := range decodeFieldsBuf(raw) {
		if f.num == 5 && f.wire == 0 {
			v, _ := decodeVarintBuf(f.raw)
			return v, true
		}
	}
	return 0, false
}

func decodeValueBool(raw []byte) (bool, bool) {
	for _, f := range decodeFieldsBuf(raw) {
		if f.num == 7 && f.wire == 0 {
			v, _ := decodeVarintBuf(f.raw)
			return v != 0, true
		}
	}
	return false, false
}

func decodeValueString(raw []byte) (string, bool) {
	for _, f := range decodeFieldsBuf(raw) {
		if f.num == 1 && f.wire == 2 {
			return string(f.raw), true
		}
	}
	return "", false
}
