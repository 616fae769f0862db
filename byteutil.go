package dscore

import (
	"fmt"
	"hash/crc32"
)

// FloatToSignedByte quantizes x, clamped to [-max, max], for the joystick
// axis encoding on the wire. The source describes the conceptual axis range
// as -127..128 (the robot firmware remaps it back to a -1..1 double); since
// a signed byte cannot represent +128, this clamps the encoded value to
// int8's actual range, -127..127, rather than wrapping 128 to -128.
func FloatToSignedByte(x, max float64) int8 {
	if max == 0 {
		return 0
	}
	if x > max {
		x = max
	} else if x < -max {
		x = -max
	}
	v := int32(x / max * 127)
	if v > 127 {
		v = 127
	}
	if v < -127 {
		v = -127
	}
	return int8(v)
}

// StaticIP formats a.TE.AM.d for the given team number, e.g. team 3794,
// d=2 -> "10.37.94.2".
func StaticIP(a byte, team uint16, d byte) string {
	te := team / 100
	am := team % 100
	return fmt.Sprintf("%d.%d.%d.%d", a, te, am, d)
}

// CRC32 runs the standard CRC-32 (IEEE) over data, seeded with seed. Pass 0
// for a fresh checksum. This does not reproduce the source's "sizeof over a
// pointer" bug (see DESIGN.md open question a) — callers that need bit-exact
// legacy compatibility should pass a truncated/garbage-length slice
// themselves; CRC32 always honors the real length of data.
func CRC32(seed uint32, data []byte) uint32 {
	return crc32.Update(seed, crc32.IEEETable, data)
}

// AppendByte grows buf by one byte, b, and returns the new slice. A thin
// wrapper so call sites building packets byte-at-a-time read the same way
// regardless of whether the destination slice has spare capacity.
func AppendByte(buf []byte, b byte) []byte {
	return append(buf, b)
}
