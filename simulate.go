package main

import (
	"fortsync/pkg/fortlog"
	"math"
	"time"
)

// device produces the frames a walking wearer's device would notify, driven by a free running 32-bit microsecond
// counter that starts at start.
type device struct {
	start   uint32
	tick    int
	stepNum uint16
}

func newDevice(start uint32) *device {
	return &device{start: start}
}

// frames returns the notifications due elapsed after the simulation started. Encoding keeps the low 32 bits of the
// counter, so it wraps like the real one.
func (d *device) frames(elapsed time.Duration) [][]byte {
	ts := int64(d.start) + elapsed.Microseconds()
	phase := elapsed.Seconds() * 2 * math.Pi * 1.8 // cadence of about 1.8 steps per second
	d.tick++

	out := [][]byte{fortlog.Encode(fortlog.DsLinAcc{
		Ts: ts,
		X:  float32(0.3 * math.Sin(phase)),
		Y:  float32(0.1 * math.Cos(phase)),
		Z:  float32(1.2 * math.Sin(2*phase)),
	})}
	if d.tick%10 == 0 {
		out = append(out, fortlog.Encode(fortlog.Pressure{Ts: ts, HPa: float32(1013.25 - 0.01*elapsed.Minutes())}))
	}
	if d.tick%20 == 0 {
		d.stepNum++
		out = append(out, fortlog.Encode(fortlog.StepInfo{
			Ts:         ts,
			StepNum:    d.stepNum,
			Heading:    float32(math.Mod(elapsed.Seconds()*0.05, 2*math.Pi)),
			Conf:       3,
			StepLength: 0.72,
		}))
	}
	if d.tick%50 == 0 {
		out = append(out, fortlog.Encode(fortlog.Temperature{Ts: ts, Degrees: 31.5}))
	}
	if d.tick%100 == 0 {
		// the upper field is a second reading of the same counter
		out = append(out, fortlog.Encode(fortlog.TimestampFull{Ts: ts, Upper: ts}))
		// a log the decoder does not handle, as newer firmware sends them
		out = append(out, []byte{byte(fortlog.KindGyroRaw), 0, 1, 2, 3, 4})
	}
	return out
}
