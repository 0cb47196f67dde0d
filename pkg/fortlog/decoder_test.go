package fortlog_test

import (
	"encoding/binary"
	"fmt"
	"fortsync/pkg/fortlog"
	"log"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linAccFrame(raw uint32, x, y, z float32) []byte {
	buf := make([]byte, 18)
	buf[0] = byte(fortlog.KindDomDsLinAcc)
	binary.LittleEndian.PutUint32(buf[2:], raw)
	binary.LittleEndian.PutUint32(buf[6:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[10:], math.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[14:], math.Float32bits(z))
	return buf
}

func TestDecode_LinAcc(t *testing.T) {
	d := fortlog.NewDecoder()
	rec := d.Decode(linAccFrame(100, 1.5, -2.25, 0))
	require.NotNil(t, rec)

	want := fortlog.DsLinAcc{Ts: 100, X: 1.5, Y: -2.25, Z: 0}
	if diff := cmp.Diff(fortlog.Record(want), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, fortlog.KindDomDsLinAcc, rec.Kind())
	assert.Equal(t, []float64{100, 1.5, -2.25, 0}, rec.Values())
}

func TestDecode_ExactLength(t *testing.T) {
	tests := []struct {
		kind fortlog.Kind
		at   func(ts int64) fortlog.Record
	}{
		{fortlog.KindDomDsLinAcc, func(ts int64) fortlog.Record { return fortlog.DsLinAcc{Ts: ts, X: 1, Y: 2, Z: 3} }},
		{fortlog.KindPressure, func(ts int64) fortlog.Record { return fortlog.Pressure{Ts: ts, HPa: 1000} }},
		{fortlog.KindDomStepInfo, func(ts int64) fortlog.Record { return fortlog.StepInfo{Ts: ts, StepNum: 1, Conf: 2} }},
		{fortlog.KindTemperature, func(ts int64) fortlog.Record { return fortlog.Temperature{Ts: ts, Degrees: 20} }},
		{fortlog.KindTimestampFull, func(ts int64) fortlog.Record { return fortlog.TimestampFull{Ts: ts, Upper: ts} }},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			frame := fortlog.Encode(test.at(0xFFFFFFF0))
			require.Len(t, frame, test.kind.FrameSize())

			d := fortlog.NewDecoder()
			assert.Nil(t, d.Decode(frame[:len(frame)-1]))
			assert.Nil(t, d.Decode(append(append([]byte(nil), frame...), 0)))

			// rejected frames must not have touched the unwrap state: this is still the first sample
			rec := d.Decode(fortlog.Encode(test.at(0x10)))
			require.NotNil(t, rec)
			assert.Equal(t, int64(0x10), rec.Timestamp())
		})
	}
}

func TestDecode_Kinds(t *testing.T) {
	step := make([]byte, 18)
	step[0] = 201
	binary.LittleEndian.PutUint32(step[2:], 7000)
	binary.LittleEndian.PutUint16(step[6:], 42)
	binary.LittleEndian.PutUint32(step[8:], math.Float32bits(1.25))
	binary.LittleEndian.PutUint16(step[12:], 3)
	binary.LittleEndian.PutUint32(step[14:], math.Float32bits(0.75))

	tests := []struct {
		name   string
		frame  []byte
		want   fortlog.Record
		values []float64
	}{
		{
			name:   "pressure",
			frame:  fortlog.Encode(fortlog.Pressure{Ts: 5000, HPa: 1013.25}),
			want:   fortlog.Pressure{Ts: 5000, HPa: 1013.25},
			values: []float64{5000, 1013.25},
		},
		{
			name:   "step",
			frame:  step,
			want:   fortlog.StepInfo{Ts: 7000, StepNum: 42, Heading: 1.25, Conf: 3, StepLength: 0.75},
			values: []float64{7000, 42, 1.25, 3, 0.75},
		},
		{
			name:   "temperature",
			frame:  fortlog.Encode(fortlog.Temperature{Ts: 9000, Degrees: 21.5}),
			want:   fortlog.Temperature{Ts: 9000, Degrees: 21.5},
			values: []float64{9000, 21.5},
		},
		{
			name:   "timestamp full",
			frame:  fortlog.Encode(fortlog.TimestampFull{Ts: 300, Upper: 400}),
			want:   fortlog.TimestampFull{Ts: 300, Upper: 400},
			values: []float64{300, 400},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Len(t, test.frame, test.want.Kind().FrameSize())
			rec := fortlog.NewDecoder().Decode(test.frame)
			if diff := cmp.Diff(test.want, rec); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, test.values, rec.Values())
		})
	}
}

func TestDecode_Unknown(t *testing.T) {
	var seen []fortlog.Kind
	d := fortlog.NewDecoder(fortlog.WithUnknownHandler(func(k fortlog.Kind) {
		seen = append(seen, k)
	}))

	assert.Nil(t, d.Decode(nil))
	assert.Nil(t, d.Decode([]byte{}))
	assert.Empty(t, seen)

	var unknown int
	for id := 0; id < 256; id++ {
		kind := fortlog.Kind(id)
		if kind.Decoded() {
			continue
		}
		unknown++
		frame := make([]byte, 18)
		frame[0] = byte(id)
		assert.Nil(t, d.Decode(frame), "id %d", id)
	}
	assert.Equal(t, 251, unknown)
	require.Len(t, seen, unknown)
	assert.Contains(t, seen, fortlog.KindLinearAccel)
	assert.NotContains(t, seen, fortlog.KindPressure)
}

func TestDecode_Wrap(t *testing.T) {
	d := fortlog.NewDecoder()
	require.Equal(t, int64(0xFFFFFFF6), d.Decode(linAccFrame(0xFFFFFFF6, 0, 0, 0)).Timestamp())
	require.Equal(t, int64(1)<<32+5, d.Decode(fortlog.Encode(fortlog.Pressure{Ts: 5})).Timestamp())
	require.Equal(t, int64(1)<<32+9, d.Decode(linAccFrame(9, 0, 0, 0)).Timestamp())

	d.Reset()
	assert.Equal(t, int64(11), d.Decode(linAccFrame(11, 0, 0, 0)).Timestamp())
}

func TestDecode_TimestampFullSharesUnwrap(t *testing.T) {
	d := fortlog.NewDecoder()
	rec := d.Decode(fortlog.Encode(fortlog.TimestampFull{Ts: 0xFFFFFFF0, Upper: 0x10}))
	require.NotNil(t, rec)

	// upper is read after ts from the same counter, so it sees the wrap
	assert.Equal(t, fortlog.TimestampFull{Ts: 0xFFFFFFF0, Upper: int64(1)<<32 + 0x10}, rec)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "DsLinAcc", fortlog.KindDomDsLinAcc.String())
	assert.Equal(t, "Pressure", fortlog.KindPressure.String())
	assert.Equal(t, "DomStepInfo", fortlog.KindDomStepInfo.String())
	assert.Equal(t, "Temperature", fortlog.KindTemperature.String())
	assert.Equal(t, "TimestampFull", fortlog.KindTimestampFull.String())
	assert.Equal(t, "202", fortlog.KindLinearAccel.String())

	assert.False(t, fortlog.KindGyroRaw.Decoded())
	assert.Zero(t, fortlog.KindGyroRaw.FrameSize())
	assert.Equal(t, "00000000-0001-11ea-8d71-362b9e155667", fortlog.ServiceUUID.String())
	assert.Equal(t, "00000001-0001-11ea-8d71-362b9e155667", fortlog.NotifyUUID.String())
	assert.Equal(t, uint16(0x04A1), uint16(fortlog.CompanyID))
}

func TestDecode_UnknownLogged(t *testing.T) {
	var lines []string
	fortlog.SetLogger(func(format string, v ...any) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(func() { fortlog.SetLogger(log.Printf) })

	d := fortlog.NewDecoder()
	assert.Nil(t, d.Decode([]byte{byte(fortlog.KindGyroRaw), 0, 1, 2}))
	assert.Equal(t, []string{"unhandled log id: 62"}, lines)

	fortlog.SetLogger(nil)
	assert.Nil(t, d.Decode([]byte{byte(fortlog.KindQma)}))
	assert.Len(t, lines, 1)
}
