package mvt

const tileFieldLayer = 3

// EncodeTile frames a complete Tile message from its already-encoded
// Layer submessages, in the order they should appear on the wire.
func EncodeTile(layers [][]byte) []byte {
	var buf []byte
	for _, l := range layers {
		buf = appendLenDelim(buf, tileFieldLayer, l)
	}
	return buf
}
