package packet

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	ethtoolSuggestion = " - use 'ethtool -T <INTERFACE>' to check if your network interface supports TX software timestamping"
)

var (
	ErrNoTimestamp = errors.New("ppoll timed out: no timestamp read from kernel" + ethtoolSuggestion)
)

// NewSender returns a function sending one frame to the given address (nil on a connected socket) and returning the
// kernel TX timestamp. With usePoll the function waits for the timestamp to show up on the error queue.
//
//go:noinline
func NewSender(fd int, usePoll bool) func([]byte, unix.Sockaddr) (Timestamp, error) {
	var poll func() error

	if usePoll {
		poll = func() error {
		again:
			// POLLERR is always reported, no need to request it
			n, err := unix.Ppoll([]unix.PollFd{{Fd: int32(fd)}}, &unix.Timespec{Nsec: 100 * 1e6}, nil)
			if err != nil {
				if err == unix.EINTR {
					goto again
				}
				return fmt.Errorf("ppoll: %w", err)
			}
			if n < 1 {
				return ErrNoTimestamp
			}
			return nil
		}
	}

	ctlBuf := make([]byte, ctlBufSize)
	var succededOnce bool

	return func(frame []byte, to unix.Sockaddr) (Timestamp, error) {
		if len(frame) > MaxFrameSize {
			return 0, fmt.Errorf("frame of %d bytes exceeds %d", len(frame), MaxFrameSize)
		}

		if err := unix.Sendto(fd, frame, 0, to); err != nil {
			return 0, fmt.Errorf("sendto: %w", err)
		}

		if poll != nil {
			if err := poll(); err != nil {
				return 0, err
			}
		}

		// NOTE: no allocations are done for this dummy slice, which avoids an extra call to GetsockoptInt
		_, ctlN, _, _, err := unix.Recvmsg(fd, make([]byte, 1), ctlBuf, unix.MSG_ERRQUEUE)
		if err != nil {
			format := "recvmsg errqueue: %w"
			if !usePoll && (err == unix.EAGAIN || err == unix.EWOULDBLOCK) {
				if succededOnce {
					format += " - try calling with -wait-tx-timestamps"
				} else {
					format += ethtoolSuggestion + "; if it does, try calling with -wait-tx-timestamps"
				}
			}
			return 0, fmt.Errorf(format, err)
		}

		ts, err := decodeTimestamp(ctlBuf[:ctlN])
		if err != nil {
			return 0, err
		}
		succededOnce = true

		return ts, nil
	}
}
