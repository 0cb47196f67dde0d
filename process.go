package main

import (
	"encoding/json"
	"fmt"
	"fortsync/pkg/clocksync"
	"fortsync/pkg/fusion"
	"fortsync/pkg/stats"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

func b2s(b bool) string {
	if b {
		return "*"
	}
	return "-"
}

type streamStats struct {
	residual *stats.Window[time.Duration]
	shaper   *fusion.Shaper
}

type fusionLine struct {
	Channel string `json:"channel"`
	Msg     any    `json:"msg"`
}

// Process prints every sample according to conf.mode and keeps the residual statistics of each session until the
// session is closed.
func Process(ch <-chan Sample, w io.Writer, conf Config) {
	streams := make(map[uuid.UUID]*streamStats)
	enc := json.NewEncoder(w)

	for s := range ch {
		st := streams[s.Session]
		if s.Closed {
			delete(streams, s.Session)
			continue
		}
		if st == nil {
			st = &streamStats{
				residual: stats.NewWindow[time.Duration](conf.maxSamples, conf.maxSpread),
				shaper:   fusion.NewShaper(conf.user),
			}
			streams[s.Session] = st
		}

		valid := s.Synced && st.residual.Add(s.Residual)
		rec := s.Record

		switch conf.mode {
		case "raw":
			fmt.Fprintf(w, "%s %-13s %v\n", s.Source, rec.Kind(), rec.Values())
		case "sync":
			fmt.Fprintf(w, "%s %-9s %20d host %16d ts %20.3f anchorHost %16d anchorTs\n",
				s.Source, s.Outcome, s.HostTs, rec.Timestamp(), s.AnchorHostMs, s.AnchorDeviceUs)
		case "fusion":
			channel, msg, ok := st.shaper.Message(rec)
			if !ok {
				continue
			}
			if err := enc.Encode(fusionLine{Channel: channel, Msg: msg}); err != nil {
				log.Print(err)
			}
		default:
			fmt.Fprintf(w, "%s%s %s %-13s %16d ts %5d inva %5d unkn %12v res %12v resM %12v resSD\n",
				b2s(valid),
				b2s(s.Outcome == clocksync.Accepted),
				s.Session.String()[:8],
				rec.Kind(),
				rec.Timestamp(),
				s.InvalidCount,
				s.UnknownCount,
				s.Residual,
				st.residual.Mean(),
				st.residual.StdDev(),
			)
		}
	}
}
