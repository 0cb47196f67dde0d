// Package clocksync maps unwrapped device timestamps onto host wall-clock time.
//
// The mapping is anchored on the last accepted sample and follows the observed host time through a first order
// exponential filter. Samples whose host and device deltas disagree by more than OutlierThreshold only move the
// comparison baseline, so a single late delivery does not disturb the anchor while a lasting change of cadence is
// accepted once two consecutive samples agree.
package clocksync

import "math"

const (
	// Alpha is the gain applied to the offset between projected and observed host time.
	Alpha = 0.05
	// OutlierThreshold is the largest tolerated disagreement, in seconds, between host and device deltas.
	OutlierThreshold = 0.15
)

type Outcome int

const (
	Anchored  Outcome = iota // first sample, taken as the anchor
	Accepted                 // filtered into the anchor
	Discarded                // device time did not advance
	Outlier                  // deltas disagree; only the baseline moved
)

func (o Outcome) String() string {
	switch o {
	case Anchored:
		return "anchored"
	case Accepted:
		return "accepted"
	case Discarded:
		return "discarded"
	case Outlier:
		return "outlier"
	default:
		return "unknown"
	}
}

// ClockSync is the estimator of one device session. It is not safe for concurrent use.
type ClockSync struct {
	hasSample bool

	predictedHostMs   float64 // filtered host time of the anchor
	predictedDeviceUs int64   // device time of the anchor

	prevHostMs   float64 // last accepted raw sample, used by the outlier gate
	prevDeviceUs int64
}

// Update feeds one (host time, device time) pair. Samples must come in non-decreasing device time order.
func (c *ClockSync) Update(hostMs float64, deviceUs int64) Outcome {
	outcome := Anchored
	if !c.hasSample {
		c.hasSample = true
		c.predictedHostMs = hostMs
	} else {
		deltaDeviceS := float64(deviceUs-c.prevDeviceUs) * 1e-6
		if deltaDeviceS == 0 {
			return Discarded
		}
		deltaHostS := (hostMs - c.prevHostMs) * 1e-3
		if math.Abs(deltaHostS-deltaDeviceS) > OutlierThreshold {
			c.prevHostMs = hostMs
			c.prevDeviceUs = deviceUs
			return Outlier
		}

		candidateMs := c.predictedHostMs + float64(deviceUs-c.predictedDeviceUs)*1e-3
		offsetS := (candidateMs - hostMs) * 1e-3
		c.predictedHostMs = candidateMs - Alpha*offsetS*1e3
		outcome = Accepted
	}

	c.predictedDeviceUs = deviceUs
	c.prevHostMs = hostMs
	c.prevDeviceUs = deviceUs
	return outcome
}

// DeviceTimeAt projects hostMs onto the device timeline in microseconds. Results before the start of the stream are
// floored at 0, as is every result before the first Update.
func (c *ClockSync) DeviceTimeAt(hostMs float64) int64 {
	if !c.hasSample {
		return 0
	}
	us := math.Round(float64(c.predictedDeviceUs) + (hostMs-c.predictedHostMs)*1e3)
	if us < 0 {
		return 0
	}
	return int64(us)
}

// HostTimeAt projects a device timestamp onto host time in milliseconds. It returns 0 before the first Update.
func (c *ClockSync) HostTimeAt(deviceUs int64) float64 {
	if !c.hasSample {
		return 0
	}
	return c.predictedHostMs + float64(deviceUs-c.predictedDeviceUs)*1e-3
}

// Anchor returns the filtered host time and the device time it belongs to. ok is false before the first Update.
func (c *ClockSync) Anchor() (hostMs float64, deviceUs int64, ok bool) {
	return c.predictedHostMs, c.predictedDeviceUs, c.hasSample
}

// Baseline returns the last raw sample the outlier gate compares against.
func (c *ClockSync) Baseline() (hostMs float64, deviceUs int64) {
	return c.prevHostMs, c.prevDeviceUs
}

func (c *ClockSync) Reset() {
	*c = ClockSync{}
}
