package main

import (
	"fmt"
	"fortsync/pkg/packet"
	"fortsync/pkg/socket"
	"log"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// Client simulates a device relay: it sends the frames of a synthetic device to the server at the configured rate.
func Client(conf Config) error {
	addr, err := net.ResolveUDPAddr(conf.network, conf.ep)
	if err != nil {
		return fmt.Errorf("resolve addr: %w", err)
	}

	fd, err := socket.Open(addr)
	if err != nil {
		return err
	}

	remoteAddr := socket.Addr(addr)
	if err = unix.Connect(fd, remoteAddr); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err = packet.EnableTimestamping(fd); err != nil {
		return err
	}

	send := packet.NewSender(fd, conf.usePoll)
	if _, err = send(resetMarker, nil); err != nil {
		return err
	}

	dev := newDevice(uint32(conf.start))
	tick := time.NewTicker(time.Duration(conf.rate * float64(time.Millisecond))).C
	report := time.NewTicker(10 * time.Second).C
	start := time.Now()

	var (
		sent    int
		firstTs packet.Timestamp
		lastTs  packet.Timestamp
	)

	for {
		select {
		case <-report:
			log.Printf("sent %d frames in %v", sent, time.Duration(lastTs-firstTs))
		case now := <-tick:
			for _, frame := range dev.frames(now.Sub(start)) {
				ts, err := send(frame, nil)
				if err != nil {
					return err
				}
				if firstTs == 0 {
					firstTs = ts
				}
				lastTs = ts
				sent++
				if conf.mode == "raw" {
					fmt.Printf("%20d tx %3d id %x\n", ts, frame[0], frame)
				}
			}
		}
	}
}
