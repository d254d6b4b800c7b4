// Package transport abstracts where KV6 XML envelopes come from: a live
// subscription feed in production, or a recorded replay stream for
// development and testing.
package transport

import (
	"bufio"
	"compress/zlib"
	"context"
	"encoding/binary"
	"fmt"
	"io"
)

// PayloadSource yields successive raw KV6 envelope payloads. Next returns
// io.EOF once the source is exhausted (a replay file or a closed feed
// channel), and ctx's error when ctx is canceled.
type PayloadSource interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// ReplaySource reads a zlib-compressed recording: a sequence of
// (4-byte big-endian length, payload) frames. It exists so a development
// run or a test can replay a captured production feed without a live
// subscription, using the same decode path production does.
type ReplaySource struct {
	rc     io.ReadCloser
	zr     io.ReadCloser
	reader *bufio.Reader
}

func NewReplaySource(r io.ReadCloser) (*ReplaySource, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("transport: opening zlib replay stream: %w", err)
	}
	return &ReplaySource{rc: r, zr: zr, reader: bufio.NewReader(zr)}, nil
}

func (s *ReplaySource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(s.reader, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, fmt.Errorf("transport: reading replay frame: %w", err)
	}
	return payload, nil
}

func (s *ReplaySource) Close() error {
	zerr := s.zr.Close()
	rerr := s.rc.Close()
	if zerr != nil {
		return zerr
	}
	return rerr
}

// ChannelSource adapts an already-running subscription (e.g. a live feed
// reader goroutine pushing decoded frames) into a PayloadSource. The
// production KV6 subscription endpoint selection (§6.5's
// NDOV_PRODUCTION convention) lives in the
// caller that constructs the channel, not here.
type ChannelSource struct {
	frames <-chan []byte
}

func NewChannelSource(frames <-chan []byte) *ChannelSource {
	return &ChannelSource{frames: frames}
}

func (s *ChannelSource) Next(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case frame, ok := <-s.frames:
		if !ok {
			return nil, io.EOF
		}
		return frame, nil
	}
}

func (s *ChannelSource) Close() error { return nil }
