package feed

// EventSource is the capability the supervisor depends on: four read-only
// event channels. *Feed satisfies it against a live venue; *SimulatedSource
// satisfies it for tests and for configurations without a feed URL —
// cmd/soldier opens no event-stream socket unless venue.feed_url is set.
type EventSource interface {
	AckEvents() <-chan AckEvent
	FillEvents() <-chan FillEvent
	CancelEvents() <-chan CancelEvent
	LifecycleErrorEvents() <-chan LifecycleErrorEvent
}

// SimulatedSource is an in-memory EventSource double. Tests push synthetic
// events onto its channels via the Inject* methods instead of reading them
// off a real socket; when cmd/soldier wires it, nothing is injected and it
// never emits.
type SimulatedSource struct {
	ackCh       chan AckEvent
	fillCh      chan FillEvent
	cancelCh    chan CancelEvent
	lifecycleCh chan LifecycleErrorEvent
}

// NewSimulatedSource creates an empty SimulatedSource with the same buffer
// sizing as a live Feed.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{
		ackCh:       make(chan AckEvent, eventBufferSize),
		fillCh:      make(chan FillEvent, eventBufferSize),
		cancelCh:    make(chan CancelEvent, eventBufferSize),
		lifecycleCh: make(chan LifecycleErrorEvent, eventBufferSize),
	}
}

func (s *SimulatedSource) AckEvents() <-chan AckEvent                       { return s.ackCh }
func (s *SimulatedSource) FillEvents() <-chan FillEvent                     { return s.fillCh }
func (s *SimulatedSource) CancelEvents() <-chan CancelEvent                 { return s.cancelCh }
func (s *SimulatedSource) LifecycleErrorEvents() <-chan LifecycleErrorEvent { return s.lifecycleCh }

// InjectAck pushes an AckEvent onto the source, non-blocking.
func (s *SimulatedSource) InjectAck(evt AckEvent) bool {
	select {
	case s.ackCh <- evt:
		return true
	default:
		return false
	}
}

// InjectFill pushes a FillEvent onto the source, non-blocking.
func (s *SimulatedSource) InjectFill(evt FillEvent) bool {
	select {
	case s.fillCh <- evt:
		return true
	default:
		return false
	}
}

// InjectCancel pushes a CancelEvent onto the source, non-blocking.
func (s *SimulatedSource) InjectCancel(evt CancelEvent) bool {
	select {
	case s.cancelCh <- evt:
		return true
	default:
		return false
	}
}

// InjectLifecycleError pushes a LifecycleErrorEvent onto the source, non-blocking.
func (s *SimulatedSource) InjectLifecycleError(evt LifecycleErrorEvent) bool {
	select {
	case s.lifecycleCh <- evt:
		return true
	default:
		return false
	}
}
