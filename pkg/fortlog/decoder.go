package fortlog

import (
	"encoding/binary"
	"fortsync/pkg/unwrap"
	"math"
)

const tsOffset = 2

// Decoder turns frames of one device stream into records. Every timestamp field goes through the decoder's own
// Unwrapper, so a Decoder must never be shared between devices and frames must be decoded in arrival order.
type Decoder struct {
	ts        unwrap.Unwrapper
	onUnknown func(Kind)
}

type Option func(*Decoder)

// WithUnknownHandler sets the observer called with the id of every unrecognized frame. The default logs it.
func WithUnknownHandler(f func(Kind)) Option {
	return func(d *Decoder) {
		d.onUnknown = f
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		onUnknown: func(k Kind) {
			Logf("unhandled log id: %d", uint8(k))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the record held in frame, or nil when the frame is empty, has the wrong length for its kind or
// carries an unrecognized id. A nil result leaves the unwrap state untouched.
func (d *Decoder) Decode(frame []byte) Record {
	if len(frame) == 0 {
		return nil
	}

	kind := Kind(frame[0])
	size, ok := frameSize[kind]
	if !ok {
		if d.onUnknown != nil {
			d.onUnknown(kind)
		}
		return nil
	}
	if len(frame) != size {
		return nil
	}

	ts := d.ts.Process(binary.LittleEndian.Uint32(frame[tsOffset:]))
	switch kind {
	case KindDomDsLinAcc:
		return DsLinAcc{
			Ts: ts,
			X:  float32At(frame, 6),
			Y:  float32At(frame, 10),
			Z:  float32At(frame, 14),
		}
	case KindPressure:
		return Pressure{
			Ts:  ts,
			HPa: float32At(frame, 6),
		}
	case KindDomStepInfo:
		return StepInfo{
			Ts:         ts,
			StepNum:    binary.LittleEndian.Uint16(frame[6:]),
			Heading:    float32At(frame, 8),
			Conf:       binary.LittleEndian.Uint16(frame[12:]),
			StepLength: float32At(frame, 14),
		}
	case KindTemperature:
		return Temperature{
			Ts:      ts,
			Degrees: float32At(frame, 6),
		}
	case KindTimestampFull:
		return TimestampFull{
			Ts:    ts,
			Upper: d.ts.Process(binary.LittleEndian.Uint32(frame[6:])),
		}
	}
	return nil
}

// Reset drops the unwrap history. Call it when the stream restarts, e.g. after a reconnect.
func (d *Decoder) Reset() {
	d.ts.Reset()
}

func float32At(frame []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(frame[offset:]))
}
