package fortlog

import (
	"encoding/binary"
	"math"
)

// Encode lays rec out as a wire frame. Timestamps are written modulo 2^32, which is the raw counter value the device
// would have sent.
func Encode(rec Record) []byte {
	return AppendFrame(nil, rec)
}

// AppendFrame appends the wire frame of rec to dst.
func AppendFrame(dst []byte, rec Record) []byte {
	le := binary.LittleEndian
	dst = append(dst, byte(rec.Kind()), 0)
	dst = le.AppendUint32(dst, uint32(rec.Timestamp()))
	switch r := rec.(type) {
	case DsLinAcc:
		dst = le.AppendUint32(dst, math.Float32bits(r.X))
		dst = le.AppendUint32(dst, math.Float32bits(r.Y))
		dst = le.AppendUint32(dst, math.Float32bits(r.Z))
	case Pressure:
		dst = le.AppendUint32(dst, math.Float32bits(r.HPa))
	case StepInfo:
		dst = le.AppendUint16(dst, r.StepNum)
		dst = le.AppendUint32(dst, math.Float32bits(r.Heading))
		dst = le.AppendUint16(dst, r.Conf)
		dst = le.AppendUint32(dst, math.Float32bits(r.StepLength))
	case Temperature:
		dst = le.AppendUint32(dst, math.Float32bits(r.Degrees))
	case TimestampFull:
		dst = le.AppendUint32(dst, uint32(r.Upper))
	}
	return dst
}
