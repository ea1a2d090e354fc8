// Package coordinator sequences one download attempt end to end: handshake,
// save-path selection, then the streaming download, exposing a single event
// stream so callers never see protocol internals.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/famomatic/mp3grab/internal/downloader"
	"github.com/famomatic/mp3grab/internal/fsutil"
)

// ErrBusy indicates a new request arrived while a download is in flight.
// The request is a no-op; the in-flight attempt is unaffected.
var ErrBusy = errors.New("download already in progress")

// Plan is the validated handshake outcome. It is produced once per
// successful handshake and consumed exactly once by the download step:
// download URLs are single-use, signed and time-stamped, so a plan never
// survives into a second attempt.
type Plan struct {
	Title             string
	DownloadURL       string
	SuggestedFilename string
}

// InfoProvider executes the conversion handshake for a video identifier.
type InfoProvider interface {
	GetDownloadInfo(ctx context.Context, videoID string) (title, downloadURL string, err error)
}

// PathSelector asks the caller for a destination path. ok=false means the
// user declined; the attempt unwinds to Idle with no side effects.
type PathSelector func(suggestedFilename string) (path string, ok bool)

// Event is one step of an attempt, relayed verbatim from the engine with
// the attempt identity attached.
type Event struct {
	AttemptID string
	downloader.Event
}

// Options wires the coordinator's collaborators. Provider, Opener,
// SelectPath and ExtractVideoID are required.
type Options struct {
	Provider   InfoProvider
	Opener     downloader.StreamOpener
	SelectPath PathSelector

	// ExtractVideoID turns caller input (URL or bare ID) into a video
	// identifier. It is a pure function supplied by the caller.
	ExtractVideoID func(input string) (string, error)

	// SuggestFilename builds the default save name from a title.
	// Defaults to fsutil.SuggestedFilename.
	SuggestFilename func(title string) string
}

// Coordinator runs one attempt at a time. It is the sole writer of phase
// and plan state; callers on other goroutines may read Phase concurrently.
type Coordinator struct {
	opts Options

	mu    sync.Mutex
	phase Phase
	plan  *Plan
}

// New creates a coordinator in the Idle phase.
func New(opts Options) *Coordinator {
	if opts.SuggestFilename == nil {
		opts.SuggestFilename = fsutil.SuggestedFilename
	}
	return &Coordinator{opts: opts, phase: PhaseIdle}
}

// Phase returns the current lifecycle phase.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Plan returns the pending plan while the coordinator is awaiting a save
// path, and nil in every other phase.
func (c *Coordinator) Plan() *Plan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plan
}

// Start runs one complete attempt for input and returns its event stream.
// The channel closes after the terminal event, or with no terminal event
// when the user declines the save path (the attempt unwinds to Idle).
// Start returns ErrBusy while a download is in flight so two engines can
// never write coordinator state concurrently.
func (c *Coordinator) Start(ctx context.Context, input string) (<-chan Event, error) {
	c.mu.Lock()
	if c.phase == PhaseDownloading {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.phase = PhasePreparing
	c.plan = nil
	c.mu.Unlock()

	events := make(chan Event)
	go c.run(ctx, uuid.NewString(), input, events)
	return events, nil
}

func (c *Coordinator) run(ctx context.Context, attemptID, input string, events chan<- Event) {
	defer close(events)

	videoID, err := c.opts.ExtractVideoID(input)
	if err != nil {
		c.fail(events, attemptID, fmt.Errorf("extract video id: %w", err))
		return
	}

	title, downloadURL, err := c.opts.Provider.GetDownloadInfo(ctx, videoID)
	if err != nil {
		c.fail(events, attemptID, err)
		return
	}
	plan := &Plan{
		Title:             title,
		DownloadURL:       downloadURL,
		SuggestedFilename: c.opts.SuggestFilename(title),
	}
	c.transition(PhaseAwaitingSavePath, plan)

	path, ok := c.opts.SelectPath(plan.SuggestedFilename)
	if !ok {
		// User declined: back to Idle, nothing written, plan dropped.
		c.transition(PhaseIdle, nil)
		return
	}

	// The plan is consumed here; a retry needs a fresh handshake.
	c.transition(PhaseDownloading, nil)
	engine := downloader.New(c.opts.Opener, plan.DownloadURL, path)
	for ev := range engine.Run(ctx) {
		switch ev.Kind {
		case downloader.EventCompleted:
			c.transition(PhaseCompleted, nil)
		case downloader.EventFailed:
			c.transition(PhaseFailed, nil)
		}
		events <- Event{AttemptID: attemptID, Event: ev}
	}
}

func (c *Coordinator) transition(phase Phase, plan *Plan) {
	c.mu.Lock()
	c.phase = phase
	c.plan = plan
	c.mu.Unlock()
}

// fail records the terminal phase and surfaces the underlying error
// unchanged. No retry is injected at this layer; retry policy belongs to
// the caller, and a fresh attempt re-derives token and timestamps anyway.
func (c *Coordinator) fail(events chan<- Event, attemptID string, err error) {
	c.transition(PhaseFailed, nil)
	events <- Event{
		AttemptID: attemptID,
		Event:     downloader.Event{Kind: downloader.EventFailed, Err: err},
	}
}
