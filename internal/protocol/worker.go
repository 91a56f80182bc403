package protocol

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ropecoil/internal/sim"
)

const queueDepth = 1

// Worker serialises every command onto one simulator. Run must be called
// from exactly one goroutine.
type Worker struct {
	sim    *sim.Simulator
	logger *log.Logger
	in     chan Request
	out    chan Response
}

type WorkerOption func(*Worker)

func WithWorkerLogger(l *log.Logger) WorkerOption {
	return func(w *Worker) { w.logger = l }
}

func NewWorker(s *sim.Simulator, opts ...WorkerOption) *Worker {
	w := &Worker{
		sim:    s,
		logger: log.Default().WithPrefix("worker"),
		in:     make(chan Request, queueDepth),
		out:    make(chan Response, queueDepth),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Requests() chan<- Request   { return w.in }
func (w *Worker) Responses() <-chan Response { return w.out }

// Run handles requests until ctx is done or the request channel is
// closed. Every request produces exactly one response.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.out)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-w.in:
			if !ok {
				return nil
			}
			resp := w.Handle(req)
			select {
			case w.out <- resp:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Handle runs one request to completion. A panic inside the simulator is
// turned into an error response and the simulator is left as it was.
func (w *Worker) Handle(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("command panicked", "kind", req.Kind, "id", req.ID, "panic", r)
			resp = errorResponse(req.ID, fmt.Errorf("%s: %v", req.Kind, r))
		}
	}()

	resp, err := w.dispatch(req)
	if err != nil {
		w.logger.Error("command failed", "kind", req.Kind, "id", req.ID, "err", err)
		return errorResponse(req.ID, err)
	}
	resp.ID = req.ID
	return resp
}

func errorResponse(id uint64, err error) Response {
	return Response{ID: id, Type: ReplyError, Message: err.Error()}
}

func (w *Worker) dispatch(req Request) (Response, error) {
	s := w.sim
	switch req.Kind {
	case KindInit:
		d := s.Init()
		return Response{Type: ReplyReady, Delay: &d}, nil

	case KindCreateCoiler:
		p, err := payload[CreateCoiler](req)
		if err != nil {
			return Response{}, err
		}
		v, err := s.CreateCoiler(p.Variants, p.Active)
		if err != nil {
			return Response{}, err
		}
		return Response{Type: ReplyCoilerCreated, Variant: v.ID, MaxSegments: v.MaxSegments}, nil

	case KindCreateRope:
		if err := s.CreateRope(); err != nil {
			return Response{}, err
		}
		snap, d := s.Snapshot(), s.Delay()
		return Response{Type: ReplyRopeCreated, Snapshot: &snap, Delay: &d}, nil

	case KindResetRope:
		p, err := payload[ResetRope](req)
		if err != nil {
			return Response{}, err
		}
		s.Reset(p.ResetAngle)
		return Response{Type: ReplyRopeReset}, nil

	case KindStep:
		p, err := payload[Step](req)
		if err != nil {
			return Response{}, err
		}
		snap := s.Step(sim.StepInput{TimeStep: p.TimeStep, RotationSpeed: p.RotationSpeed, AngleHint: p.AngleHint})
		return Response{Type: ReplySnapshot, Snapshot: &snap}, nil

	case KindUpdateAnchor:
		p, err := payload[UpdateAnchor](req)
		if err != nil {
			return Response{}, err
		}
		s.UpdateAnchor(p.Vec())
		return silent(req.ID), nil

	case KindSetRotation:
		p, err := payload[SetRotation](req)
		if err != nil {
			return Response{}, err
		}
		s.SetRotation(p.Speed)
		return silent(req.ID), nil

	case KindFinalizeRope:
		s.Finalize()
		snap := s.Snapshot()
		return Response{Type: ReplyRopeFinalized, Snapshot: &snap}, nil

	case KindSetDelay:
		p, err := payload[SetDelay](req)
		if err != nil {
			return Response{}, err
		}
		d := s.SetDelay(p.Frames)
		return Response{Type: ReplyDelaySet, Delay: &d}, nil

	case KindAddSegment:
		p, err := payload[AddSegment](req)
		if err != nil {
			return Response{}, err
		}
		if !s.AddSegment(p.Override) {
			return silent(req.ID), nil
		}
		snap := s.Snapshot()
		return Response{Type: ReplySegmentAdded, Snapshot: &snap}, nil
	}

	w.logger.Warn("unknown command ignored", "kind", uint8(req.Kind), "id", req.ID)
	return silent(req.ID), nil
}

// payload extracts a T or *T body. A missing body yields the zero T.
func payload[T any](req Request) (T, error) {
	var zero T
	switch p := req.Payload.(type) {
	case nil:
		return zero, nil
	case T:
		return p, nil
	case *T:
		if p == nil {
			return zero, nil
		}
		return *p, nil
	}
	return zero, fmt.Errorf("%s: unexpected payload %T", req.Kind, req.Payload)
}
