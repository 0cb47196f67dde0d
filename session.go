package main

import (
	"bytes"
	"fortsync/pkg/clocksync"
	"fortsync/pkg/fortlog"
	"fortsync/pkg/packet"
	"log"
	"time"

	"github.com/google/uuid"
)

// session owns everything tied to one device stream: its decoder, and with it the unwrap state, and its clock
// filter. Sessions are only touched by the receiver loop.
type session struct {
	id       uuid.UUID
	source   string
	decoder  *fortlog.Decoder
	clock    clocksync.ClockSync
	lastSeen packet.Timestamp

	invalid  int
	unknown  int
	reported map[fortlog.Kind]bool
}

func newSession(source string) *session {
	s := &session{
		id:       uuid.New(),
		source:   source,
		reported: make(map[fortlog.Kind]bool),
	}
	s.decoder = fortlog.NewDecoder(fortlog.WithUnknownHandler(s.unhandled))
	return s
}

func (s *session) unhandled(k fortlog.Kind) {
	s.unknown++
	if !s.reported[k] {
		s.reported[k] = true
		log.Printf("session %s: unhandled log id %d", s.id, uint8(k))
	}
}

// reset restarts unwrapping and clock correlation while keeping the session and its counters.
func (s *session) reset() {
	s.decoder.Reset()
	s.clock.Reset()
}

// ingest decodes one frame. ok is false when the frame carried no record.
func (s *session) ingest(f packet.Frame) (sample Sample, ok bool) {
	s.lastSeen = f.Ts

	if bytes.Equal(f.Payload, resetMarker) {
		log.Printf("session %s: stream reset by relay", s.id)
		s.reset()
		return Sample{}, false
	}

	rec := s.decoder.Decode(f.Payload)
	if rec == nil {
		if len(f.Payload) == 0 || fortlog.Kind(f.Payload[0]).Decoded() {
			s.invalid++
		}
		return Sample{}, false
	}

	hostMs := f.Ts.Millis()
	_, _, synced := s.clock.Anchor()
	sample = Sample{
		Session:      s.id,
		Source:       s.source,
		Record:       rec,
		HostTs:       f.Ts,
		Synced:       synced,
		InvalidCount: s.invalid,
		UnknownCount: s.unknown,
	}
	if synced {
		sample.Estimate = s.clock.DeviceTimeAt(hostMs)
		sample.Residual = time.Duration(rec.Timestamp()-sample.Estimate) * time.Microsecond
	}

	sample.Outcome = s.clock.Update(hostMs, rec.Timestamp())
	sample.AnchorHostMs, sample.AnchorDeviceUs, _ = s.clock.Anchor()
	return sample, true
}

// idle reports whether nothing arrived during the ttl before now.
func (s *session) idle(now packet.Timestamp, ttl time.Duration) bool {
	return time.Duration(now-s.lastSeen) >= ttl
}
