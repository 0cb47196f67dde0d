package main

import (
	"fortsync/pkg/fortlog"
	"fortsync/pkg/packet"
	"testing"
	"time"

	"github.com/ddirect/container/ttlmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpire(t *testing.T) {
	const ttl = 50 * time.Millisecond
	sessions, expired := ttlmap.New[string, *session](ttl, 10*time.Millisecond)

	quiet := newSession("10.0.0.2:4000")
	active := newSession("10.0.0.3:4000")
	sessions.Set(quiet.source, quiet)
	sessions.Set(active.source, active)

	_, ok := active.ingest(packet.Frame{Payload: fortlog.Encode(fortlog.DsLinAcc{Ts: 0xFFFFFFF0})})
	require.True(t, ok)

	select {
	case items := <-expired:
		now := packet.Timestamp(time.Now().UnixNano())
		quiet.lastSeen = now - packet.Timestamp(2*ttl)
		active.lastSeen = now

		var closed []*session
		expire(sessions, items, now, ttl, func(s *session) {
			closed = append(closed, s)
		})

		assert.Equal(t, []*session{quiet}, closed)
		assert.Equal(t, 1, sessions.Len())
		item := sessions.Get(active.source)
		require.True(t, item.Present(), "session with recent frames was dropped")
		assert.Same(t, active, item.Value)
		assert.False(t, sessions.Get(quiet.source).Present())

	case <-time.After(5 * time.Second):
		t.Fatal("no expired streams")
	}

	// the kept session carries on unwrapping past the wrap point
	sample, ok := active.ingest(packet.Frame{Payload: fortlog.Encode(fortlog.DsLinAcc{Ts: 0x10})})
	require.True(t, ok)
	assert.Equal(t, int64(1)<<32+0x10, sample.Record.Timestamp())
}
