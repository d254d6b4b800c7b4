package transport

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/binary"
	"io"
	"testing"
)

func buildReplayStream(t *testing.T, frames [][]byte) io.ReadCloser {
	t.Helper()
	var raw bytes.Buffer
	for _, f := range frames {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(f)))
		raw.Write(lenBuf[:])
		raw.Write(f)
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		t.Fatalf("zlib.Write() error = %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib.Close() error = %v", err)
	}
	return io.NopCloser(bytes.NewReader(compressed.Bytes()))
}

func TestReplaySourceYieldsFramesThenEOF(t *testing.T) {
	frames := [][]byte{[]byte("first"), []byte("second envelope")}
	src, err := NewReplaySource(buildReplayStream(t, frames))
	if err != nil {
		t.Fatalf("NewReplaySource() error = %v", err)
	}
	defer src.Close()

	for i, want := range frames {
		got, err := src.Next(context.Background())
		if err != nil {
			t.Fatalf("frame %d: Next() error = %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d: got %q, want %q", i, got, want)
		}
	}
	if _, err := src.Next(context.Background()); err != io.EOF {
		t.Errorf("got err %v, want io.EOF", err)
	}
}

func TestChannelSourceRelaysFramesAndClosesOnChannelClose(t *testing.T) {
	frames := make(chan []byte, 1)
	src := NewChannelSource(frames)
	frames <- []byte("live frame")
	close(frames)

	got, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(got) != "live frame" {
		t.Errorf("got %q, want %q", got, "live frame")
	}
	if _, err := src.Next(context.Background()); err != io.EOF {
		t.Errorf("got err %v, want io.EOF", err)
	}
}

func TestChannelSourceRespectsCanceledContext(t *testing.T) {
	frames := make(chan []byte)
	src := NewChannelSource(frames)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); err != context.Canceled {
		t.Errorf("got err %v, want context.Canceled", err)
	}
}
