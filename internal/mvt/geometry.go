package mvt

import "roadtiles/internal/geo"

const (
	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

func commandInteger(cmd, count int) uint32 {
	return uint32(count<<3 | cmd)
}

// encodeLineString packs a TileLine into MVT geometry commands: a single
// MoveTo(1) to the absolute first point, then one LineTo(n-1) followed
// by n-1 zigzag-encoded deltas relative to a cursor starting at (0,0).
func encodeLineString(line geo.TileLine) []uint32 {
	if len(line) < 2 {
		return nil
	}

	cmds := make([]uint32, 0, 3+2*(len(line)-1))
	var cx, cy int32

	cmds = append(cmds, commandInteger(cmdMoveTo, 1))
	dx, dy := line[0].X-cx, line[0].Y-cy
	cmds = append(cmds, zigzag32(dx), zigzag32(dy))
	cx, cy = line[0].X, line[0].Y

	cmds = append(cmds, commandInteger(cmdLineTo, len(line)-1))
	for _, p := range line[1:] {
		dx, dy = p.X-cx, p.Y-cy
		cmds = append(cmds, zigzag32(dx), zigzag32(dy))
		cx, cy = p.X, p.Y
	}

	return cmds
}

// encodePoint packs a single TilePoint as a MoveTo(1) with absolute
// coordinates (cursor starts at (0,0), so the delta equals the point).
func encodePoint(p geo.TilePoint) []uint32 {
	return []uint32{
		commandInteger(cmdMoveTo, 1),
		zigzag32(p.X),
		zigzag32(p.Y),
	}
}

// appendPackedUint32Field appends a packed-varint repeated uint32 field
// (used for both "geometry" and "tags" feature fields).
func appendPackedUint32Field(buf []byte, fieldNumber int, values []uint32) []byte {
	payload := make([]byte, 0, len(values)*2)
	for _, v := range values {
		payload = appendVarint(payload, uint64(v))
	}
	return appendLenDelim(buf, fieldNumber, payload)
}
