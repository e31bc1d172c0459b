package bench

import (
	"context"
	"fmt"
	"time"
)

// Time runs op once and measures its wall-clock duration on the monotonic clock.
// When op fails the duration is zero.
func Time[T any](ctx context.Context, op func(context.Context) (T, error)) (T, time.Duration, error) {
	start := time.Now()
	result, err := op(ctx)
	elapsed := time.Since(start)
	if err != nil {
		var zero T
		return zero, 0, err
	}

	return result, elapsed, nil
}

// Measurement is one timed strategy run.
type Measurement struct {
	Strategy string
	Elapsed  time.Duration
	Records  int
}

// Milliseconds returns the elapsed time as fractional milliseconds.
func (m Measurement) Milliseconds() float64 {
	return float64(m.Elapsed) / float64(time.Millisecond)
}

// Verdict is the outcome of comparing the measurements taken at one scale.
type Verdict struct {
	Scale        Scale
	Measurements []Measurement
	Faster       string
}

// Compare picks the measurement with the strictly smallest elapsed time.
// Ties go to the measurement listed first.
func Compare(scale Scale, measurements ...Measurement) (Verdict, error) {
	if len(measurements) == 0 {
		return Verdict{}, fmt.Errorf("compare %s: no measurements", scale.Name)
	}

	fastest := measurements[0]
	for _, m := range measurements[1:] {
		if m.Elapsed < fastest.Elapsed {
			fastest = m
		}
	}

	return Verdict{
		Scale:        scale,
		Measurements: measurements,
		Faster:       fastest.Strategy,
	}, nil
}

// RecordsAgree reports whether every measurement resolved the same number of records.
func (v Verdict) RecordsAgree() bool {
	for _, m := range v.Measurements {
		if m.Records != v.Measurements[0].Records {
			return false
		}
	}
	return true
}
