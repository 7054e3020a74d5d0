package sensor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker"
)

// SDS011 wire format: 10-byte frames, PM values as little-endian words in
// tenths of µg/m³.
const (
	frameLen  = 10
	frameHead = 0xAA
	frameCmd  = 0xC0
	frameTail = 0xAB

	// maxSyncBytes bounds the resync scan so a stream of garbage fails a
	// read instead of spinning forever.
	maxSyncBytes = 128
)

var (
	ErrBadFrame = errors.New("invalid sds011 frame")
	errNoFrame  = errors.New("no frame header found")
)

// ParseFrame decodes a 10-byte SDS011 measurement frame.
func ParseFrame(b []byte) (Sample, error) {
	if len(b) != frameLen {
		return Sample{}, fmt.Errorf("%w: length %d", ErrBadFrame, len(b))
	}
	if b[0] != frameHead || b[1] != frameCmd || b[9] != frameTail {
		return Sample{}, fmt.Errorf("%w: bad framing bytes", ErrBadFrame)
	}

	var sum byte
	for _, d := range b[2:8] {
		sum += d
	}
	if sum != b[8] {
		return Sample{}, fmt.Errorf("%w: checksum mismatch", ErrBadFrame)
	}

	return Sample{
		PM25: float64(uint16(b[2])|uint16(b[3])<<8) / 10.0,
		PM10: float64(uint16(b[4])|uint16(b[5])<<8) / 10.0,
	}, nil
}

// SDS011 reads measurement frames from a serial stream. A circuit breaker
// trips open after repeated failures so a wedged or unplugged sensor is not
// hammered on every poll tick.
type SDS011 struct {
	r       *bufio.Reader
	circuit *gobreaker.CircuitBreaker
}

// NewSDS011 wraps an open serial device stream. The caller owns the device
// lifecycle (open, baud setup, close).
func NewSDS011(r io.Reader) *SDS011 {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sds011",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	})
	return &SDS011{
		r:       bufio.NewReaderSize(r, 4*frameLen),
		circuit: cb,
	}
}

// Read returns the next valid measurement frame.
func (s *SDS011) Read(ctx context.Context) (Sample, error) {
	result, err := s.circuit.Execute(func() (interface{}, error) {
		return s.readFrame(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Sample{}, fmt.Errorf("sensor circuit open: %w", err)
		}
		return Sample{}, err
	}
	return result.(Sample), nil
}

// readFrame scans to the next frame header and decodes the frame, resyncing
// past corrupt bytes up to maxSyncBytes.
func (s *SDS011) readFrame(ctx context.Context) (Sample, error) {
	for scanned := 0; scanned < maxSyncBytes; scanned++ {
		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}

		b, err := s.r.ReadByte()
		if err != nil {
			return Sample{}, fmt.Errorf("read sensor: %w", err)
		}
		if b != frameHead {
			continue
		}

		buf := make([]byte, frameLen)
		buf[0] = frameHead
		if _, err := io.ReadFull(s.r, buf[1:]); err != nil {
			return Sample{}, fmt.Errorf("read sensor frame: %w", err)
		}

		sample, err := ParseFrame(buf)
		if err != nil {
			// Corrupt frame; keep scanning for the next header.
			continue
		}
		return sample, nil
	}
	return Sample{}, errNoFrame
}
