package playback

import (
	"context"
	"sync"
)

// Status enumerates the controller states.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
	StatusError   Status = "error"
)

// preBufferThreshold is the fraction of the current chunk's duration after
// which the next chunk starts pre-buffering.
const preBufferThreshold = 0.8

// State is the observable snapshot exposed to the UI layer.
type State struct {
	Status            Status
	CurrentChunkIndex int
	CurrentTime       float64
	Duration          float64
	IsBuffering       bool
	ErrorClass        ErrorClass
	ErrorMessage      string
}

// ControllerOptions configure a playback session.
type ControllerOptions struct {
	Loop bool
}

// Controller drives chunked playback across an ordered list of chunk URLs.
// It plays the current chunk on a primary media element while pre-buffering
// the next chunk into a secondary, off-screen element, then swaps the two at
// the chunk boundary so the viewer never sees a reload stall.
//
// The controller is an explicit state machine driven by discrete Events; it
// holds no reference to any real player and is fully testable with fakes.
// One pre-buffer may be outstanding at a time, always targeting
// currentChunkIndex+1; a stale pre-buffer completing after the cursor moved
// is discarded by comparing its target index at completion time.
type Controller struct {
	mu sync.Mutex

	primary   MediaElement
	secondary MediaElement
	logger    Logger
	loop      bool

	urls    []string
	current int

	// preBuffered is the index already loaded into the secondary element,
	// or -1. When set it is always current+1 and is invalidated whenever
	// the cursor changes.
	preBuffered int
	// preBufferTarget is the index of an in-flight pre-buffer load, or -1.
	preBufferTarget int

	status    Status
	paused    bool // explicit pause intent, survives buffering stalls
	buffering bool
	errClass  ErrorClass
	errMsg    string
	closed    bool
}

func NewController(primary, secondary MediaElement, logger Logger, opts ControllerOptions) *Controller {
	return &Controller{
		primary:         primary,
		secondary:       secondary,
		logger:          logger,
		loop:            opts.Loop,
		preBuffered:     -1,
		preBufferTarget: -1,
		status:          StatusIdle,
		paused:          true,
	}
}

// Load resolves the chunk URL list and readies the controller. Calling Load
// again is the explicit retry path out of the error state. An empty URL list
// is "nothing to play", reported as an error distinct from a failed resolve.
func (c *Controller) Load(ctx context.Context, resolve func(ctx context.Context) ([]string, error)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.reset()
	c.status = StatusLoading
	c.mu.Unlock()

	urls, err := resolve(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err != nil {
		c.logger.ErrorWithContextf(ctx, err, "[Playback] Failed to resolve chunk URLs")
		c.status = StatusError
		c.errClass = ErrorClassNetwork
		c.errMsg = "failed to load video"
		return
	}
	if len(urls) == 0 {
		c.status = StatusError
		c.errMsg = "nothing to play"
		return
	}

	c.urls = urls
	c.status = StatusReady
}

// Play starts or resumes playback. A play request while still loading is
// rejected with a loggable, non-fatal outcome. A rejection from the media
// element (autoplay policy) reverts the controller to paused instead of
// surfacing an unhandled failure.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch c.status {
	case StatusLoading, StatusIdle:
		c.logger.WarningWithContextf(context.Background(), "[Playback] Play requested while %s, ignoring", c.status)
		return
	case StatusError:
		return
	case StatusEnded:
		c.current = 0
		c.invalidatePreBuffer()
		c.setPrimarySource(c.urls[0])
	}

	if c.primary.Source() == "" {
		c.setPrimarySource(c.urls[c.current])
	}

	c.paused = false
	c.startPlayback()
}

// Pause records pause intent and halts the primary element.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.paused = true
	c.primary.Pause()
	if c.status == StatusPlaying {
		c.status = StatusPaused
	}
}

// Seek moves the playback position within the current chunk.
func (c *Controller) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.primary.Seek(seconds)
}

// SetVolume sets the primary element's volume.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.primary.SetVolume(v)
}

// ToggleMute flips the primary element's mute flag.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.primary.SetMuted(!c.primary.Muted())
}

// State returns the observable snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Status:            c.status,
		CurrentChunkIndex: c.current,
		CurrentTime:       c.primary.CurrentTime(),
		Duration:          c.primary.Duration(),
		IsBuffering:       c.buffering,
		ErrorClass:        c.errClass,
		ErrorMessage:      c.errMsg,
	}
}

// PreBufferedIndex returns the index held by the secondary element, or -1.
func (c *Controller) PreBufferedIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preBuffered
}

// Close tears the session down: pending pre-buffer loads are aborted and any
// event arriving afterwards is dropped, so a slow pre-buffer can never
// mutate state after teardown.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.primary.Pause()
	c.abortSecondary()
}

// Dispatch feeds one media element event into the state machine.
func (c *Controller) Dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	switch ev.Type {
	case EventTimeUpdate:
		if ev.Role == RolePrimary {
			c.onTimeUpdate()
		}
	case EventChunkEnded:
		if ev.Role == RolePrimary {
			c.onChunkEnded()
		}
	case EventCanPlayThrough:
		if ev.Role == RoleSecondary {
			c.onPreBufferComplete()
		} else {
			c.buffering = false
		}
	case EventWaiting:
		if ev.Role == RolePrimary {
			c.buffering = true
		}
	case EventCanPlay:
		if ev.Role == RolePrimary {
			c.buffering = false
		}
	case EventError:
		c.onError(ev)
	}
}

// onTimeUpdate watches playback position as a fraction of the current
// chunk's duration and kicks off pre-buffering of the next chunk once the
// threshold is crossed. At most one pre-buffer is in flight, and only ever
// for current+1.
func (c *Controller) onTimeUpdate() {
	if c.status != StatusPlaying {
		return
	}
	duration := c.primary.Duration()
	if duration <= 0 {
		return
	}

	next := c.current + 1
	if next >= len(c.urls) {
		return
	}
	if c.preBuffered == next || c.preBufferTarget == next {
		return
	}
	if c.primary.CurrentTime()/duration < preBufferThreshold {
		return
	}

	c.preBufferTarget = next
	c.secondary.SetSource(c.urls[next])
	c.secondary.Load()
}

// onPreBufferComplete handles the secondary element reaching can-play-
// through. The target index is compared against the cursor at completion
// time, not at start time: a slow, now-obsolete pre-buffer must never
// overwrite a newer one.
func (c *Controller) onPreBufferComplete() {
	target := c.preBufferTarget
	c.preBufferTarget = -1
	if target < 0 {
		return
	}
	if target != c.current+1 {
		c.logger.InfoWithContextf(context.Background(), "[Playback] Discarding stale pre-buffer for chunk %d (cursor at %d)", target, c.current)
		c.abortSecondary()
		return
	}
	c.preBuffered = target
}

// onChunkEnded advances the cursor across a chunk boundary. A pre-buffered
// next chunk is swapped from the secondary element into the primary slot,
// preserving volume and mute, so playback continues without a reload stall.
func (c *Controller) onChunkEnded() {
	last := c.current == len(c.urls)-1
	if last {
		if !c.loop {
			c.invalidatePreBuffer()
			c.status = StatusEnded
			c.paused = true
			return
		}
		c.current = 0
		c.invalidatePreBuffer()
		c.setPrimarySource(c.urls[0])
	} else {
		c.current++
		swapped := c.preBuffered == c.current
		c.invalidatePreBuffer()
		if swapped {
			c.swapElements()
		} else {
			c.setPrimarySource(c.urls[c.current])
		}
	}

	if !c.paused {
		c.startPlayback()
	}
}

func (c *Controller) onError(ev Event) {
	c.status = StatusError
	c.errClass = classifyMediaError(ev.ErrorCode)
	if ev.Message != "" {
		c.errMsg = ev.Message
	} else {
		c.errMsg = "playback failed (" + string(c.errClass) + ")"
	}
	c.primary.Pause()
	c.abortSecondary()
	c.preBufferTarget = -1
	c.preBuffered = -1
	c.logger.ErrorWithContextf(context.Background(), nil, "[Playback] Media error on chunk %d: %s (%s)", c.current, c.errMsg, c.errClass)
}

// startPlayback calls Play on the primary element and classifies a
// rejection instead of surfacing it: on rejection the controller reverts to
// paused without corrupting the pause intent.
func (c *Controller) startPlayback() {
	if err := c.primary.Play(); err != nil {
		c.logger.WarningWithContextf(context.Background(), "[Playback] Play rejected on chunk %d: %v", c.current, err)
		c.paused = true
		c.status = StatusPaused
		return
	}
	c.status = StatusPlaying
}

// swapElements exchanges the primary and secondary element roles, carrying
// the viewer's volume and mute settings onto the pre-loaded element.
func (c *Controller) swapElements() {
	volume := c.primary.Volume()
	muted := c.primary.Muted()
	c.primary.Pause()

	c.primary, c.secondary = c.secondary, c.primary
	c.primary.SetVolume(volume)
	c.primary.SetMuted(muted)
	c.abortSecondary()
}

func (c *Controller) setPrimarySource(url string) {
	c.primary.SetSource(url)
	c.primary.Load()
	c.buffering = true
}

func (c *Controller) invalidatePreBuffer() {
	c.preBuffered = -1
	c.preBufferTarget = -1
}

func (c *Controller) abortSecondary() {
	c.secondary.SetSource("")
	c.secondary.Load()
}

func (c *Controller) reset() {
	c.urls = nil
	c.current = 0
	c.invalidatePreBuffer()
	c.paused = true
	c.buffering = false
	c.errClass = ""
	c.errMsg = ""
}
