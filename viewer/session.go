// Package viewer drives an interactive before/after comparison of an image
// and its ambient-light compensated version.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kovidgoyal/ambient"
)

type State int

const (
	Uninitialized State = iota
	Loading
	Displaying
	Processing
)

var stateNames = [...]string{"Uninitialized", "Loading", "Displaying", "Processing"}

func (s State) String() string {
	if int(s) < len(stateNames) && s >= 0 {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// loaded is false until the original image is available.
func (s State) loaded() bool { return s == Displaying || s == Processing }

type ImageKind int

const (
	Original ImageKind = iota
	Working
)

func (k ImageKind) String() string {
	if k == Working {
		return "Working"
	}
	return "Original"
}

// View is one of the two images a Session can display. Parameter and
// ColorInfo are the values Working was rendered with.
type View struct {
	Kind      ImageKind
	Image     *ambient.Image
	Parameter float32
	ColorInfo ambient.ColorInfo
}

type EventKind int

const (
	NonSRGBWarning EventKind = iota
	UnsupportedFileType
	ReadError
	ParameterComputed
)

func (k EventKind) String() string {
	switch k {
	case NonSRGBWarning:
		return "NonSRGBWarning"
	case UnsupportedFileType:
		return "UnsupportedFileType"
	case ReadError:
		return "ReadError"
	case ParameterComputed:
		return "ParameterComputed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

type Event struct {
	Kind      EventKind
	Path      string
	Err       error   // for ReadError and UnsupportedFileType
	Parameter float32 // for ParameterComputed
}

var ErrClosed = errors.New("viewer: session is closed")

type Option func(*Session)

// MaxSize limits the size images are decoded at, typically to the larger
// screen dimension.
func MaxSize(n int) Option {
	return func(s *Session) { s.decodeOpts = append(s.decodeOpts, ambient.MaxSize(n)) }
}

// ContinuousUpdate makes OnLux report new parameters as the ambient light
// changes. Off by default.
func ContinuousUpdate(enabled bool) Option {
	return func(s *Session) { s.continuous = enabled }
}

func WithColorInfo(info ambient.ColorInfo) Option {
	return func(s *Session) { s.colorInfo = info }
}

// Session holds one image and renders it with an Algorithm on a single
// background goroutine. Methods are safe for concurrent use and never wait
// for rendering, results are picked up with Displaying and Events.
type Session struct {
	alg        ambient.Algorithm // Init and Apply only run on the worker goroutine
	decodeOpts []ambient.DecodeOption
	continuous bool

	mu           sync.Mutex
	state        State
	path         string
	parameter    float32
	hasParameter bool
	colorInfo    ambient.ColorInfo
	original     *View
	working      *View
	displaying   *View
	generation   uint64

	requests chan func()
	events   chan Event
	quit     chan struct{}
	done     chan struct{}
	closer   sync.Once
}

func New(alg ambient.Algorithm, opts ...Option) *Session {
	s := &Session{
		alg:       alg,
		colorInfo: ambient.IdentityColorInfo(),
		requests:  make(chan func(), 64),
		events:    make(chan Event, 16),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.run()
	return s
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case job := <-s.requests:
			job()
		case <-s.quit:
			return
		}
	}
}

// Close stops the worker after the request in progress, if any. Pending
// requests are discarded.
func (s *Session) Close() {
	s.closer.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Session) submit(job func()) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}
	select {
	case s.requests <- job:
		return nil
	case <-s.quit:
		return ErrClosed
	}
}

// Sync waits until every request made before it has been handled.
func (s *Session) Sync() error {
	ch := make(chan struct{})
	if err := s.submit(func() { close(ch) }); err != nil {
		return err
	}
	select {
	case <-ch:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Events delivers notifications. Events are dropped when the buffer is full.
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		ambient.Logger().Warn().Stringer("event", e.Kind).Msg("viewer event buffer full, dropping event")
	}
}

// Start picks the initial parameter from a light sensor reading unless
// one has already been set. Reports whether it set the parameter.
func (s *Session) Start(lux int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasParameter {
		return false
	}
	s.parameter, s.hasParameter = s.alg.Meta().DefaultParameter(lux), true
	return true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Parameter returns the most recently requested parameter.
func (s *Session) Parameter() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parameter
}

func (s *Session) ColorInfo() ambient.ColorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colorInfo
}

// Path is the file most recently passed to Load.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Displaying returns the image currently shown or nil before the first
// load completes.
func (s *Session) Displaying() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displaying
}

// Load decodes path in the background. Only the first Load of a session
// does anything, later calls just record the path.
func (s *Session) Load(ctx context.Context, path string) error {
	s.mu.Lock()
	s.path = path
	if s.state != Uninitialized {
		s.mu.Unlock()
		return nil
	}
	s.state = Loading
	s.mu.Unlock()
	err := s.submit(func() { s.load(ctx, path) })
	if err != nil {
		s.setState(Uninitialized)
	}
	return err
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) load(ctx context.Context, path string) {
	log := ambient.Logger()
	fail := func(kind EventKind, err error) {
		log.Warn().Err(err).Str("path", path).Msg("could not load image")
		s.setState(Uninitialized)
		s.emit(Event{Kind: kind, Path: path, Err: err})
	}
	if err := ctx.Err(); err != nil {
		fail(ReadError, err)
		return
	}
	img, err := ambient.Open(path, s.decodeOpts...)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, ambient.ErrUnsupportedFormat) {
			fail(UnsupportedFileType, err)
		} else {
			fail(ReadError, err)
		}
		return
	}
	log.Debug().Str("path", path).Stringer("format", img.Format).Int("frames", len(img.Frames)).Msg("loaded image")
	if img.NonSRGB {
		s.emit(Event{Kind: NonSRGBWarning, Path: path})
	}
	s.mu.Lock()
	s.original = &View{Kind: Original, Image: img}
	s.displaying = s.original
	s.state = Processing
	s.generation++
	gen, p, info := s.generation, s.parameter, s.colorInfo
	s.mu.Unlock()
	s.process(gen, p, info, true)
}

// SetParameter re-renders the working image with p. A manual change also
// switches the display to the working image.
func (s *Session) SetParameter(p float32, manual bool) error {
	s.mu.Lock()
	if s.hasParameter && s.parameter == p {
		s.mu.Unlock()
		return nil
	}
	s.parameter, s.hasParameter = p, true
	return s.request(manual)
}

// SetColorInfo re-renders the working image with info.
func (s *Session) SetColorInfo(info ambient.ColorInfo) error {
	s.mu.Lock()
	s.colorInfo = info
	return s.request(false)
}

// request must be called with s.mu held and releases it.
func (s *Session) request(setWorking bool) error {
	if !s.state.loaded() {
		s.mu.Unlock()
		return nil
	}
	s.state = Processing
	s.generation++
	gen, p, info := s.generation, s.parameter, s.colorInfo
	s.mu.Unlock()
	return s.submit(func() { s.process(gen, p, info, setWorking) })
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

func (s *Session) process(gen uint64, p float32, info ambient.ColorInfo, setWorking bool) {
	if !s.current(gen) {
		// a newer request is queued and will set the state
		return
	}
	s.mu.Lock()
	src := s.original.Image
	s.mu.Unlock()

	s.alg.Init(p, info)
	img := src.Clone()
	img.Compensate(s.alg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.working = &View{Kind: Working, Image: img, Parameter: p, ColorInfo: info}
	if setWorking || s.displaying.Kind == Working {
		s.displaying = s.working
	}
	s.state = Displaying
	ambient.Logger().Debug().Float32("parameter", p).Uint64("generation", gen).Msg("rendered working image")
}

// Toggle switches between the original and working images.
func (s *Session) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.displaying == nil:
	case s.displaying.Kind == Original && s.working != nil:
		s.displaying = s.working
	case s.displaying.Kind == Working:
		s.displaying = s.original
	}
}

// OnLux reports the parameter for a new light sensor reading as a
// ParameterComputed event when continuous update is on and an image is
// loaded. The caller decides whether to pass it to SetParameter.
func (s *Session) OnLux(lux int) {
	if !s.continuous || !s.State().loaded() {
		return
	}
	s.emit(Event{Kind: ParameterComputed, Parameter: s.alg.Meta().DefaultParameter(lux), Path: s.Path()})
}
