package downloader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chunkReader yields at most chunk bytes per Read to exercise the pull loop.
type chunkReader struct {
	data  []byte
	chunk int
	pos   int
	// failAfter, when positive, injects an error once that many bytes have
	// been delivered.
	failAfter int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.failAfter > 0 && r.pos >= r.failAfter {
		return 0, errors.New("stream torn down")
	}
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

type fakeOpener struct {
	body  io.ReadCloser
	total int64
	err   error
}

func (f *fakeOpener) OpenDownloadStream(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.body, f.total, nil
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestEngine_KnownTotal(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 1024) // 8 KiB in 1 KiB chunks
	opener := &fakeOpener{
		body:  io.NopCloser(&chunkReader{data: payload, chunk: 1024}),
		total: int64(len(payload)),
	}
	path := filepath.Join(t.TempDir(), "out.mp3")

	events := collect(t, New(opener, "http://example/dl", path).Run(context.Background()))
	if len(events) < 3 {
		t.Fatalf("got %d events, want at least open + chunk + terminal", len(events))
	}

	last := events[len(events)-1]
	if last.Kind != EventCompleted {
		t.Fatalf("terminal event = %+v, want Completed", last)
	}
	if last.Path != path {
		t.Fatalf("completed path = %q, want %q", last.Path, path)
	}

	prev := -1.0
	var finalProgress float64
	for _, ev := range events[:len(events)-1] {
		if ev.Kind != EventProgress {
			t.Fatalf("non-terminal event kind = %q, want progress", ev.Kind)
		}
		if ev.Progress < prev {
			t.Fatalf("progress went backwards: %v after %v", ev.Progress, prev)
		}
		prev = ev.Progress
		finalProgress = ev.Progress
	}
	if finalProgress != 1.0 {
		t.Fatalf("final progress = %v, want 1.0", finalProgress)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(body, payload) {
		t.Fatalf("file content mismatch: %d bytes, want %d", len(body), len(payload))
	}
}

func TestEngine_UnknownTotal(t *testing.T) {
	payload := []byte(strings.Repeat("x", 5000))
	opener := &fakeOpener{
		body:  io.NopCloser(&chunkReader{data: payload, chunk: 512}),
		total: -1,
	}
	path := filepath.Join(t.TempDir(), "out.mp3")

	events := collect(t, New(opener, "http://example/dl", path).Run(context.Background()))
	last := events[len(events)-1]
	if last.Kind != EventCompleted {
		t.Fatalf("terminal event = %+v, want Completed", last)
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Progress != 0.0 {
			t.Fatalf("progress = %v with unknown total, want 0.0", ev.Progress)
		}
	}
}

func TestEngine_StreamErrorLeavesPartialFile(t *testing.T) {
	payload := []byte(strings.Repeat("y", 4096))
	opener := &fakeOpener{
		body:  io.NopCloser(&chunkReader{data: payload, chunk: 1024, failAfter: 2048}),
		total: int64(len(payload)),
	}
	path := filepath.Join(t.TempDir(), "out.mp3")

	events := collect(t, New(opener, "http://example/dl", path).Run(context.Background()))
	last := events[len(events)-1]
	if last.Kind != EventFailed {
		t.Fatalf("terminal event = %+v, want Failed", last)
	}
	if last.Err == nil {
		t.Fatalf("Failed event has nil error")
	}

	// No automatic cleanup: bytes written before the error stay on disk.
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(body) != 2048 {
		t.Fatalf("partial file size = %d, want 2048", len(body))
	}
}

func TestEngine_OpenFailure(t *testing.T) {
	opener := &fakeOpener{err: errors.New("connect refused")}
	path := filepath.Join(t.TempDir(), "out.mp3")

	events := collect(t, New(opener, "http://example/dl", path).Run(context.Background()))
	if len(events) != 1 {
		t.Fatalf("got %d events, want exactly 1 Failed", len(events))
	}
	if events[0].Kind != EventFailed {
		t.Fatalf("event = %+v, want Failed", events[0])
	}
}

func TestEngine_CreateFailure(t *testing.T) {
	opener := &fakeOpener{body: io.NopCloser(bytes.NewReader(nil)), total: 0}
	path := filepath.Join(t.TempDir(), "missing-dir", "out.mp3")

	events := collect(t, New(opener, "http://example/dl", path).Run(context.Background()))
	if len(events) != 1 || events[0].Kind != EventFailed {
		t.Fatalf("events = %+v, want single Failed", events)
	}
}
