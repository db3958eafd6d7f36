package session

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
	"github.com/kbukum/scribe/transcription"
)

// State is the position of a Session in the transcription flow.
type State string

// Session states.
const (
	StateIdle         State = "idle"
	StateFileSelected State = "file_selected"
	StateTranscribing State = "transcribing"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// APIStatus is the last known health of the transcription service.
type APIStatus string

// API statuses.
const (
	APIChecking APIStatus = "checking"
	APIOnline   APIStatus = "online"
	APIOffline  APIStatus = "offline"
)

// StatusStarting is the first progress message of every transcription.
const StatusStarting = "Starting transcription..."

// Transcriber is the part of transcription.Client a Session uses.
type Transcriber interface {
	CheckHealth(ctx context.Context) transcription.Outcome[*transcription.Health]
	IsValidAudioFile(file transcription.AudioFile) bool
	Transcribe(ctx context.Context, file transcription.AudioFile, progress transcription.ProgressFunc) transcription.Outcome[*transcription.Result]
}

// Snapshot is a consistent copy of a Session's observable state.
type Snapshot struct {
	State     State
	APIStatus APIStatus
	File      *transcription.AudioFile
	Progress  []string
	Result    *transcription.Result
	Segments  []transcription.FormattedSegment
	Err       *errors.AppError
}

// Session holds the state of one interactive transcription. It is safe for
// concurrent use.
type Session struct {
	client   Transcriber
	log      *logger.Logger
	onChange func(Snapshot)

	mu        sync.Mutex
	state     State
	apiStatus APIStatus
	file      *transcription.AudioFile
	progress  []string
	result    *transcription.Result
	segments  []transcription.FormattedSegment
	lastErr   *errors.AppError
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// OnChange registers fn to receive a snapshot after every state change and
// progress message. fn is called without the session lock held.
func OnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// New creates an Idle session whose API status is Checking.
func New(client Transcriber, opts ...Option) *Session {
	s := &Session{
		client:    client,
		log:       logger.Nop(),
		state:     StateIdle,
		apiStatus: APIChecking,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("session")
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// APIStatus returns the last known API status.
func (s *Session) APIStatus() APIStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiStatus
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// CheckAPI queries the service health and records Online or Offline. It
// does not change the flow state.
func (s *Session) CheckAPI(ctx context.Context) APIStatus {
	s.mu.Lock()
	s.apiStatus = APIChecking
	s.mu.Unlock()
	s.notify()

	out := s.client.CheckHealth(ctx)

	s.mu.Lock()
	if out.OK {
		s.apiStatus = APIOnline
	} else {
		s.apiStatus = APIOffline
		s.log.WithContext(ctx).Warn("transcription API offline", logger.Fields(
			logger.FieldErrorCode, string(out.Kind()),
			logger.FieldError, out.ErrorMessage(),
		))
	}
	status := s.apiStatus
	s.mu.Unlock()
	s.notify()

	return status
}

// SelectFile makes file the current file and clears any previous result.
// An unsupported file is rejected and leaves the session untouched. A file
// cannot be selected while a transcription is running.
func (s *Session) SelectFile(file transcription.AudioFile) error {
	if !s.client.IsValidAudioFile(file) {
		return errors.UnsupportedFormat(file.Name, file.MIMEType)
	}

	s.mu.Lock()
	if s.state == StateTranscribing {
		s.mu.Unlock()
		return errors.Conflict("cannot select a file while a transcription is running")
	}
	f := file
	s.file = &f
	s.state = StateFileSelected
	s.clearRunLocked()
	s.mu.Unlock()

	s.log.Debug("file selected", logger.Fields(
		logger.FieldFileName, file.Name,
		logger.FieldFileSize, file.Size,
	))
	s.notify()
	return nil
}

// Transcribe runs the selected file through the client. It requires a
// selected file, an Online API and no transcription already running. A file
// kept from a finished run is rewound first and must therefore be an
// io.Seeker. The returned outcome is also recorded on the session.
func (s *Session) Transcribe(ctx context.Context) transcription.Outcome[*transcription.Result] {
	s.mu.Lock()
	if err := s.canTranscribeLocked(); err != nil {
		s.mu.Unlock()
		return transcription.Fail[*transcription.Result](err)
	}
	file := *s.file
	if s.state != StateFileSelected {
		if err := rewind(file.Content); err != nil {
			s.mu.Unlock()
			return transcription.Fail[*transcription.Result](err)
		}
	}
	s.state = StateTranscribing
	s.clearRunLocked()
	s.progress = append(s.progress, StatusStarting)
	s.mu.Unlock()
	s.notify()

	log := s.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldFileName, file.Name))
	log.Info("transcription started", logger.Fields(logger.FieldState, string(StateTranscribing)))

	out := s.client.Transcribe(ctx, file, s.addProgress)

	s.mu.Lock()
	if out.OK {
		s.state = StateSucceeded
		s.result = out.Payload
		s.segments = transcription.FormatSegments(out.Payload.Segments)
	} else {
		s.state = StateFailed
		s.lastErr = out.Err
	}
	state := s.state
	s.mu.Unlock()

	if out.OK {
		log.Info("transcription finished", logger.Fields(logger.FieldState, string(state)))
	} else {
		log.Error("transcription failed", logger.Fields(
			logger.FieldState, string(state),
			logger.FieldErrorCode, string(out.Kind()),
			logger.FieldError, out.ErrorMessage(),
		))
	}
	s.notify()
	return out
}

// Reset clears the file and results and returns to Idle. The API status is
// kept. It fails while a transcription is running.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.state == StateTranscribing {
		s.mu.Unlock()
		return errors.Conflict("cannot reset while a transcription is running")
	}
	s.state = StateIdle
	s.file = nil
	s.clearRunLocked()
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Session) canTranscribeLocked() *errors.AppError {
	switch {
	case s.state == StateTranscribing:
		return errors.Conflict("a transcription is already running")
	case s.file == nil:
		return errors.Conflict("no file selected")
	case s.apiStatus != APIOnline:
		return errors.Conflict("transcription API is " + string(s.apiStatus)).
			WithDetail("api_status", string(s.apiStatus))
	}
	return nil
}

// rewind returns content to its first byte so a kept file can be uploaded
// again. A reader that cannot seek has been consumed by the previous run.
func rewind(content io.Reader) *errors.AppError {
	seeker, ok := content.(io.Seeker)
	if !ok {
		return errors.Conflict("file content cannot be re-read; select the file again")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return errors.Conflict("file content cannot be re-read; select the file again").WithCause(err)
	}
	return nil
}

func (s *Session) addProgress(status string) {
	s.mu.Lock()
	s.progress = append(s.progress, status)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) clearRunLocked() {
	s.progress = nil
	s.result = nil
	s.segments = nil
	s.lastErr = nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     s.state,
		APIStatus: s.apiStatus,
		Progress:  slices.Clone(s.progress),
		Result:    s.result,
		Segments:  slices.Clone(s.segments),
		Err:       s.lastErr,
	}
	if s.file != nil {
		f := *s.file
		snap.File = &f
	}
	return snap
}

func (s *Session) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Snapshot())
}
