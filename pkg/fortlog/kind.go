package fortlog

import (
	"strconv"

	"github.com/google/uuid"
)

// BLE identifiers of the device's log service.
const (
	CompanyID = 0x04A1

	// DefaultSampleRate in Hz leaves room for the full 30 Hz DsLinAcc stream.
	DefaultSampleRate = 35
)

var (
	ServiceUUID = uuid.MustParse("00000000-0001-11ea-8d71-362b9e155667")
	NotifyUUID  = uuid.MustParse("00000001-0001-11ea-8d71-362b9e155667")
)

// Kind is the log id carried in the first byte of every frame.
type Kind uint8

const (
	KindMagRaw        Kind = 1
	KindHprQma        Kind = 5
	KindTemperature   Kind = 7
	KindAccelRaw      Kind = 15
	KindGyroRaw       Kind = 62
	KindQma           Kind = 77
	KindHpr9Axis      Kind = 85
	KindMagAutocal    Kind = 93
	KindAccelAutocal  Kind = 99
	KindGyroAutocal   Kind = 108
	KindTimestampFull Kind = 111
	KindDomStepInfo   Kind = 201
	KindLinearAccel   Kind = 202
	KindQ9Axis        Kind = 204
	KindDomDsLinAcc   Kind = 230
	KindDomDsMcal     Kind = 231
	KindDomDsQ        Kind = 232
	KindPressure      Kind = 233
)

// frameSize is the exact frame length of every kind the decoder understands.
var frameSize = map[Kind]int{
	KindDomDsLinAcc:   18,
	KindPressure:      10,
	KindDomStepInfo:   18,
	KindTemperature:   10,
	KindTimestampFull: 10,
}

// Decoded reports whether frames of this kind are turned into records.
func (k Kind) Decoded() bool {
	_, ok := frameSize[k]
	return ok
}

// FrameSize returns the exact frame length for a decoded kind, 0 otherwise.
func (k Kind) FrameSize() int {
	return frameSize[k]
}

func (k Kind) String() string {
	switch k {
	case KindDomDsLinAcc:
		return "DsLinAcc"
	case KindPressure:
		return "Pressure"
	case KindDomStepInfo:
		return "DomStepInfo"
	case KindTemperature:
		return "Temperature"
	case KindTimestampFull:
		return "TimestampFull"
	default:
		return strconv.Itoa(int(k))
	}
}
