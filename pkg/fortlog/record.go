package fortlog

// Record is one decoded frame. The concrete type is one of DsLinAcc, Pressure, StepInfo, Temperature or
// TimestampFull; consumers switch on it.
type Record interface {
	Kind() Kind
	// Timestamp is the unwrapped device time in microseconds.
	Timestamp() int64
	// Values flattens the record into its numeric fields, timestamp first.
	Values() []float64

	record()
}

// DsLinAcc is the double-stage filtered 3-axis linear acceleration.
type DsLinAcc struct {
	Ts      int64
	X, Y, Z float32
}

type Pressure struct {
	Ts  int64
	HPa float32
}

// StepInfo is a detected step. Heading is passed through in device units.
type StepInfo struct {
	Ts         int64
	StepNum    uint16
	Heading    float32
	Conf       uint16
	StepLength float32
}

type Temperature struct {
	Ts      int64
	Degrees float32
}

// TimestampFull carries the upper counter bits alongside the regular timestamp. Upper is unwrapped through the same
// state as Ts.
type TimestampFull struct {
	Ts    int64
	Upper int64
}

func (DsLinAcc) Kind() Kind      { return KindDomDsLinAcc }
func (Pressure) Kind() Kind      { return KindPressure }
func (StepInfo) Kind() Kind      { return KindDomStepInfo }
func (Temperature) Kind() Kind   { return KindTemperature }
func (TimestampFull) Kind() Kind { return KindTimestampFull }

func (r DsLinAcc) Timestamp() int64      { return r.Ts }
func (r Pressure) Timestamp() int64      { return r.Ts }
func (r StepInfo) Timestamp() int64      { return r.Ts }
func (r Temperature) Timestamp() int64   { return r.Ts }
func (r TimestampFull) Timestamp() int64 { return r.Ts }

func (r DsLinAcc) Values() []float64 {
	return []float64{float64(r.Ts), float64(r.X), float64(r.Y), float64(r.Z)}
}

func (r Pressure) Values() []float64 {
	return []float64{float64(r.Ts), float64(r.HPa)}
}

func (r StepInfo) Values() []float64 {
	return []float64{float64(r.Ts), float64(r.StepNum), float64(r.Heading), float64(r.Conf), float64(r.StepLength)}
}

func (r Temperature) Values() []float64 {
	return []float64{float64(r.Ts), float64(r.Degrees)}
}

func (r TimestampFull) Values() []float64 {
	return []float64{float64(r.Ts), float64(r.Upper)}
}

func (DsLinAcc) record()      {}
func (Pressure) record()      {}
func (StepInfo) record()      {}
func (Temperature) record()   {}
func (TimestampFull) record() {}
