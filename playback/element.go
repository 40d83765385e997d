package playback

// MediaElement abstracts the underlying media-playback element so the
// controller's state machine can be driven and tested without a real player.
// Implementations are expected to emit Events back into the controller via
// Controller.Dispatch.
type MediaElement interface {
	SetSource(url string)
	Source() string
	Load()
	// Play starts playback and may be rejected (for example by an autoplay
	// policy blocking unmuted playback before user interaction).
	Play() error
	Pause()
	Seek(seconds float64)
	CurrentTime() float64
	Duration() float64
	SetVolume(v float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
}

// ElementRole says which element an event originated from.
type ElementRole int

const (
	RolePrimary ElementRole = iota
	RoleSecondary
)

// EventType enumerates the discrete events that drive the controller.
type EventType int

const (
	// EventTimeUpdate fires as the primary element's playback position moves.
	EventTimeUpdate EventType = iota
	// EventChunkEnded fires when the primary element reaches end of stream.
	EventChunkEnded
	// EventCanPlayThrough fires when an element has buffered enough to play
	// without stalling; on the secondary element it completes a pre-buffer.
	EventCanPlayThrough
	// EventWaiting fires when the primary element stalls waiting for data.
	EventWaiting
	// EventCanPlay fires when the primary element can resume after a stall.
	EventCanPlay
	// EventError carries a media element error code.
	EventError
)

// Media element error codes, mirroring the MediaError contract of the
// underlying playback element.
const (
	MediaErrAborted         = 1
	MediaErrNetwork         = 2
	MediaErrDecode          = 3
	MediaErrSrcNotSupported = 4
)

// Event is one discrete occurrence on a media element.
type Event struct {
	Type      EventType
	Role      ElementRole
	ErrorCode int
	Message   string
}

// ErrorClass classifies a playback error for the observable state.
type ErrorClass string

const (
	ErrorClassNetwork ErrorClass = "network"
	ErrorClassDecode  ErrorClass = "decode"
	ErrorClassFormat  ErrorClass = "format"
	ErrorClassAborted ErrorClass = "aborted"
)

func classifyMediaError(code int) ErrorClass {
	switch code {
	case MediaErrNetwork:
		return ErrorClassNetwork
	case MediaErrDecode:
		return ErrorClassDecode
	case MediaErrSrcNotSupported:
		return ErrorClassFormat
	default:
		return ErrorClassAborted
	}
}
