package main

import (
	"fortsync/pkg/clocksync"
	"fortsync/pkg/fortlog"
	"fortsync/pkg/packet"
	"time"

	"github.com/google/uuid"
)

// Sample is what the receiver hands to Process for every decoded record, plus one final Sample with Closed set when
// the stream of a session ends.
type Sample struct {
	Session uuid.UUID
	Source  string
	Closed  bool

	Record fortlog.Record
	HostTs packet.Timestamp

	// Estimate is the device time predicted for HostTs before the record was fed to the clock filter; Residual is
	// the record's timestamp minus Estimate. Both are meaningful only when Synced is set.
	Synced   bool
	Estimate int64
	Residual time.Duration
	Outcome  clocksync.Outcome

	AnchorHostMs   float64
	AnchorDeviceUs int64

	InvalidCount int
	UnknownCount int
}

// resetMarker is sent by a relay in place of a frame when the device link was re-established.
var resetMarker = []byte{0x00}
