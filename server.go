package main

import (
	"fmt"
	"fortsync/pkg/packet"
	"fortsync/pkg/socket"
	"iter"
	"log"
	"net"
	"os"
	"time"

	"github.com/ddirect/container/ttlmap"
	"golang.org/x/sys/unix"
)

func Server(conf Config) error {
	addr, err := net.ResolveUDPAddr(conf.network, conf.ep)
	if err != nil {
		return fmt.Errorf("net.ResolveUDPAddr: %w", err)
	}

	fd, err := socket.Open(addr)
	if err != nil {
		return err
	}

	localAddr := socket.Addr(addr)
	if err = unix.Bind(fd, localAddr); err != nil {
		return fmt.Errorf("bind: %w", err)
	}

	if err = packet.EnableTimestamping(fd); err != nil {
		return err
	}

	log.Printf("listening on %s", socket.AddrToString(localAddr))

	sampleCh := make(chan Sample, 64)
	defer close(sampleCh)

	go Process(sampleCh, os.Stdout, conf)

	sessions, expired := ttlmap.New[string, *session](conf.streamTTL, conf.streamTTL/10)
	recvCh := packet.NewAsyncReceiver(fd, 64)

	for {
		select {
		case streams := <-expired:
			expire(sessions, streams, packet.Timestamp(time.Now().UnixNano()), conf.streamTTL, func(s *session) {
				log.Printf("device stream %s expired (session %s, %d invalid, %d unknown)", s.source, s.id, s.invalid, s.unknown)
				sampleCh <- Sample{Session: s.id, Source: s.source, Closed: true}
			})

		case frame := <-recvCh:
			if frame.Error != nil {
				log.Print(frame.Error)
				continue
			}

			source := socket.AddrToString(frame.From)
			entry, found := sessions.GetOrCreate(source)
			if !found {
				entry.Value = newSession(source)
				log.Printf("new device stream %s (session %s)", source, entry.Value.id)
			}

			if sample, ok := entry.Value.ingest(frame); ok {
				sampleCh <- sample
			}
		}
	}
}

// expire hands every idle session among streams to closed. The map only refreshes an item's lifetime when it moves
// by more than the accuracy, so a stream can expire shortly before ttl of silence has passed; those sessions are
// put back once the iteration has removed them.
func expire(sessions *ttlmap.Map[string, *session], streams iter.Seq[ttlmap.Item[string, *session]], now packet.Timestamp, ttl time.Duration, closed func(*session)) {
	var live []*session
	for stream := range streams {
		if s := stream.Value; s.idle(now, ttl) {
			closed(s)
		} else {
			live = append(live, s)
		}
	}
	for _, s := range live {
		sessions.Set(s.source, s)
	}
}
