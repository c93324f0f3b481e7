package engine

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
// Events are dropped when a buffer is full; the engine never waits on a
// subscriber.
type Subscription struct {
	StateChanged    <-chan StateChange
	PositionChanged <-chan PositionChange
	SongLoaded      <-chan SongLoaded
	Error           <-chan ErrorEvent
	// Done is closed when the engine loop has returned.
	Done <-chan struct{}

	stateCh    chan StateChange
	positionCh chan PositionChange
	songCh     chan SongLoaded
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		songCh:     make(chan SongLoaded, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.SongLoaded = s.songCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}

func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

func (s *Subscription) sendSong(e SongLoaded) {
	select {
	case s.songCh <- e:
	default:
	}
}

func (s *Subscription) sendError(e ErrorEvent) {
	select {
	case s.errorCh <- e:
	default:
	}
}
