// Package downloader streams a signed download URL to a local file, one
// chunk at a time, reporting fractional progress as each chunk lands.
package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
)

// EventKind tags a download event.
type EventKind string

const (
	// EventProgress carries the fraction downloaded so far.
	EventProgress EventKind = "progress"
	// EventCompleted carries the destination path after a durable finish.
	EventCompleted EventKind = "completed"
	// EventFailed carries the terminal error. The partially written file is
	// left on disk for the caller to deal with.
	EventFailed EventKind = "failed"
)

// Event is one step of a download attempt. Progress is meaningful for
// EventProgress only and stays 0.0 for the whole transfer when the server
// omits Content-Length.
type Event struct {
	Kind     EventKind
	Progress float64
	Path     string
	Err      error
}

const chunkSize = 32 * 1024

// Engine drives exactly one transfer. Download URLs are single-use and
// time-stamped, so a retry needs a fresh handshake and a fresh Engine; a
// finished Engine must not be run again.
type Engine struct {
	opener StreamOpener
	url    string
	path   string
}

// New returns an engine for one transfer of url to path.
func New(opener StreamOpener, url, path string) *Engine {
	return &Engine{opener: opener, url: url, path: path}
}

// Run executes the transfer and returns its event stream. Events arrive in
// order on an unbuffered channel: a zero Progress once the stream is open,
// one Progress per chunk written, then exactly one Completed or Failed. The
// channel is closed after the terminal event. Sends block until the consumer
// receives, so the engine never reads the next chunk before the previous one
// is written and observed.
func (e *Engine) Run(ctx context.Context) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		e.run(ctx, events)
	}()
	return events
}

func (e *Engine) run(ctx context.Context, events chan<- Event) {
	file, err := os.Create(e.path)
	if err != nil {
		events <- Event{Kind: EventFailed, Err: fmt.Errorf("create file: %w", err)}
		return
	}
	defer file.Close()

	body, total, err := e.opener.OpenDownloadStream(ctx, e.url)
	if err != nil {
		events <- Event{Kind: EventFailed, Err: err}
		return
	}
	defer body.Close()

	events <- Event{Kind: EventProgress, Progress: 0}

	buf := make([]byte, chunkSize)
	var downloaded int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				events <- Event{Kind: EventFailed, Err: fmt.Errorf("write chunk: %w", writeErr)}
				return
			}
			downloaded += int64(n)
			progress := 0.0
			if total > 0 {
				progress = float64(downloaded) / float64(total)
			}
			events <- Event{Kind: EventProgress, Progress: progress}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			events <- Event{Kind: EventFailed, Err: readErr}
			return
		}
		if err := ctx.Err(); err != nil {
			events <- Event{Kind: EventFailed, Err: err}
			return
		}
	}

	if err := file.Sync(); err != nil {
		events <- Event{Kind: EventFailed, Err: fmt.Errorf("sync file: %w", err)}
		return
	}
	events <- Event{Kind: EventCompleted, Path: e.path}
}
