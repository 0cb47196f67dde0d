// Package fusion shapes decoded records into the per-user channel messages consumed by the fusion backend.
package fusion

import "fortsync/pkg/fortlog"

const (
	ChannelDs          = "DS"
	ChannelPressure    = "PRESSURE"
	ChannelTemperature = "TEMPERATURE"
	ChannelDom         = "DOM"
)

// Channel returns the per-user channel name.
func Channel(name, user string) string {
	return name + "_" + user
}

// Timestamps are unwrapped device time in seconds.

type Ds struct {
	Ts float64 `json:"ts"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
	Z  float32 `json:"z"`
}

type Pressure struct {
	Ts    float64 `json:"ts"`
	Value float32 `json:"value"`
}

type Temperature struct {
	Value float32 `json:"value"`
}

type Dom struct {
	Ts      float64 `json:"ts"`
	Heading float32 `json:"heading"`
	Temp    float32 `json:"temp"`
	StepNum uint16  `json:"stepNum"`
	Length  float32 `json:"length"`
	Conf    uint16  `json:"conf"`
}

// Shaper converts the records of one user's stream. It remembers the last temperature to stamp step messages with.
type Shaper struct {
	user string
	temp float32
}

func NewShaper(user string) *Shaper {
	return &Shaper{user: user}
}

// Message returns the channel and message for rec. ok is false for records that are not forwarded.
func (s *Shaper) Message(rec fortlog.Record) (channel string, msg any, ok bool) {
	ts := Seconds(rec.Timestamp())
	switch r := rec.(type) {
	case fortlog.DsLinAcc:
		return Channel(ChannelDs, s.user), Ds{Ts: ts, X: r.X, Y: r.Y, Z: r.Z}, true
	case fortlog.Pressure:
		return Channel(ChannelPressure, s.user), Pressure{Ts: ts, Value: r.HPa}, true
	case fortlog.Temperature:
		s.temp = r.Degrees
		return Channel(ChannelTemperature, s.user), Temperature{Value: r.Degrees}, true
	case fortlog.StepInfo:
		return Channel(ChannelDom, s.user), Dom{
			Ts:      ts,
			Heading: r.Heading,
			Temp:    s.temp,
			StepNum: r.StepNum,
			Length:  r.StepLength,
			Conf:    r.Conf,
		}, true
	}
	return "", nil, false
}

// Seconds converts unwrapped device microseconds to seconds.
func Seconds(us int64) float64 {
	return float64(us) * 1e-6
}
