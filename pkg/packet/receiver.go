package packet

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Frame is one datagram as delivered by the relay: a single device notification and the kernel time it arrived.
type Frame struct {
	Payload []byte
	Ts      Timestamp
	From    unix.Sockaddr
	Error   error
}

// NewReceiver returns a blocking function reading one frame per call from fd. Each returned payload is a fresh slice
// owned by the caller.
func NewReceiver(fd int) func() Frame {
	buf := make([]byte, MaxFrameSize)
	ctlBuf := make([]byte, ctlBufSize)

	return func() Frame {
		n, ctlN, flags, from, err := unix.Recvmsg(fd, buf, ctlBuf, 0)
		if err != nil {
			return Frame{Error: fmt.Errorf("recvmsg: %w", err)}
		}
		if flags&unix.MSG_TRUNC != 0 {
			return Frame{From: from, Error: fmt.Errorf("frame from %v exceeds %d bytes", from, MaxFrameSize)}
		}

		ts, err := decodeTimestamp(ctlBuf[:ctlN])
		if err != nil {
			return Frame{From: from, Error: err}
		}

		return Frame{
			Payload: append([]byte(nil), buf[:n]...),
			Ts:      ts,
			From:    from,
		}
	}
}

// NewAsyncReceiver runs a receiver in its own goroutine and delivers frames, errors included, on the returned channel.
func NewAsyncReceiver(fd, chDepth int) <-chan Frame {
	ch := make(chan Frame, chDepth)
	go func() {
		recv := NewReceiver(fd)
		for {
			ch <- recv()
		}
	}()
	return ch
}
