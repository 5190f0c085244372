// Package telemetry records per-tick flight samples to CSV and summarizes a
// finished run.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is one simulation tick.
type Sample struct {
	Tick        int     `csv:"tick"`
	DT          float32 `csv:"dt"`
	PosX        float32 `csv:"pos_x"`
	PosY        float32 `csv:"pos_y"`
	PosZ        float32 `csv:"pos_z"`
	VelX        float32 `csv:"vel_x"`
	VelY        float32 `csv:"vel_y"`
	VelZ        float32 `csv:"vel_z"`
	Speed       float32 `csv:"speed"`
	Yaw         float32 `csv:"yaw"`
	Pitch       float32 `csv:"pitch"`
	Stabilizing bool    `csv:"stabilizing"`
}

// Summary aggregates a recorded run.
type Summary struct {
	Samples      int
	Duration     float64
	MeanSpeed    float64
	SpeedStdDev  float64
	PeakSpeed    float64
	Distance     float64
	StabilizedAt float64 // fraction of ticks with the stabilizer armed
}

// Recorder buffers samples and appends them to a CSV file in batches.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	file          *os.File
	flushEvery    int
	pending       []Sample
	headerWritten bool
	writeErr      error

	speeds     []float64
	duration   float64
	distance   float64
	stabilized int
	last       *Sample
}

// NewRecorder creates the output file. Returns nil if path is empty
// (recording disabled).
func NewRecorder(path string, flushEvery int) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if flushEvery < 1 {
		flushEvery = 1
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	return &Recorder{
		file:       f,
		flushEvery: flushEvery,
		pending:    make([]Sample, 0, flushEvery),
	}, nil
}

// Record queues a sample, flushing once FlushEvery samples are pending.
func (r *Recorder) Record(s Sample) error {
	if r == nil {
		return nil
	}

	r.speeds = append(r.speeds, float64(s.Speed))
	r.duration += float64(s.DT)
	if s.Stabilizing {
		r.stabilized++
	}
	if r.last != nil {
		dx := float64(s.PosX - r.last.PosX)
		dy := float64(s.PosY - r.last.PosY)
		dz := float64(s.PosZ - r.last.PosZ)
		r.distance += floats.Norm([]float64{dx, dy, dz}, 2)
	}
	last := s
	r.last = &last

	if r.writeErr != nil {
		return nil
	}
	r.pending = append(r.pending, s)
	if len(r.pending) >= r.flushEvery {
		return r.Flush()
	}
	return nil
}

// Flush writes any pending samples. A failed write may leave a partial
// batch in the file, so the batch is dropped and the recorder stops writing;
// statistics keep accumulating for Summary.
func (r *Recorder) Flush() error {
	if r == nil || r.writeErr != nil || len(r.pending) == 0 {
		return nil
	}

	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(r.pending, r.file)
		r.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(r.pending, r.file)
	}
	r.pending = r.pending[:0]

	if err != nil {
		r.writeErr = fmt.Errorf("writing telemetry: %w", err)
		return r.writeErr
	}
	return nil
}

// Err returns the write error that stopped the recorder, if any.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	return r.writeErr
}

// Summary returns statistics over everything recorded so far.
func (r *Recorder) Summary() Summary {
	if r == nil || len(r.speeds) == 0 {
		return Summary{}
	}

	s := Summary{
		Samples:      len(r.speeds),
		Duration:     r.duration,
		MeanSpeed:    stat.Mean(r.speeds, nil),
		PeakSpeed:    floats.Max(r.speeds),
		Distance:     r.distance,
		StabilizedAt: float64(r.stabilized) / float64(len(r.speeds)),
	}
	if len(r.speeds) > 1 {
		s.SpeedStdDev = stat.StdDev(r.speeds, nil)
	}
	return s
}

// Path returns the output file path.
func (r *Recorder) Path() string {
	if r == nil {
		return ""
	}
	return r.file.Name()
}

// Close flushes pending samples, closes the file and returns the run summary.
// After a failed write nothing is retried.
func (r *Recorder) Close() (Summary, error) {
	if r == nil {
		return Summary{}, nil
	}

	flushErr := r.Flush()
	closeErr := r.file.Close()

	if flushErr != nil {
		return r.Summary(), flushErr
	}
	return r.Summary(), closeErr
}
