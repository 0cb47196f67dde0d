package packet

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

type (
	Timestamp int64 // unix time in nanoseconds - differences can be cast directly to time.Duration
)

// Millis returns the timestamp as fractional milliseconds since the unix epoch.
func (ts Timestamp) Millis() float64 {
	return float64(ts) * 1e-6
}

func (ts Timestamp) Time() time.Time {
	return time.Unix(0, int64(ts))
}

var (
	ErrTimestampNotFound            = errors.New("no timestamp found in control data")
	ErrScmTimestampingNotEnoughData = errors.New("not enough data received for ScmTimestamping")
)

const (
	ctlBufSize = 256 // 64 bytes are enough for a single ScmTimestamping structure plus Cmsghdr (on x86_64)

	// MaxFrameSize bounds a single notification frame; BLE notifications never exceed this.
	MaxFrameSize = 512
)

// EnableTimestamping asks the kernel for software RX and TX timestamps on fd.
func EnableTimestamping(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_TIMESTAMPING,
		unix.SOF_TIMESTAMPING_RX_SOFTWARE|
			unix.SOF_TIMESTAMPING_TX_SOFTWARE|
			unix.SOF_TIMESTAMPING_SOFTWARE|
			unix.SOF_TIMESTAMPING_OPT_TSONLY,
	); err != nil {
		return fmt.Errorf("setsockopt: %w", err)
	}
	return nil
}

func decodeTimestamp(buf []byte) (Timestamp, error) {
	for len(buf) > 0 {
		hdr, data, remainder, err := unix.ParseOneSocketControlMessage(buf)
		if err != nil {
			return 0, fmt.Errorf("unix.ParseOneSocketControlMessage: %w", err)
		}

		if hdr.Level == unix.SOL_SOCKET && hdr.Type == unix.SCM_TIMESTAMPING {
			if uintptr(len(data)) < unsafe.Sizeof(unix.ScmTimestamping{}) {
				return 0, ErrScmTimestampingNotEnoughData
			}
			scmTs := (*unix.ScmTimestamping)(unsafe.Pointer(unsafe.SliceData(data)))
			return Timestamp(scmTs.Ts[0].Nano()), nil
		}

		buf = remainder
	}
	return 0, ErrTimestampNotFound
}
