package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/sim"
)

// ErrWorkerStopped is returned once the worker's response channel closes.
var ErrWorkerStopped = errors.New("worker stopped")

// RemoteError carries the message of an error response.
type RemoteError struct {
	Kind    Kind
	Message string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// Client issues one request at a time and waits for its response. It is
// not safe for concurrent use.
type Client struct {
	in     chan<- Request
	out    <-chan Response
	nextID uint64
}

func NewClient(w *Worker) *Client {
	return &Client{in: w.Requests(), out: w.Responses()}
}

func (c *Client) call(ctx context.Context, kind Kind, body any) (Response, error) {
	c.nextID++
	req := Request{ID: c.nextID, Kind: kind, Payload: body}
	select {
	case c.in <- req:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	for {
		select {
		case resp, ok := <-c.out:
			if !ok {
				return Response{}, ErrWorkerStopped
			}
			if resp.ID != req.ID {
				continue
			}
			if resp.Type == ReplyError {
				return resp, &RemoteError{Kind: kind, Message: resp.Message}
			}
			return resp, nil
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
}

func (c *Client) Init(ctx context.Context) (sim.DelayState, error) {
	resp, err := c.call(ctx, KindInit, nil)
	if err != nil {
		return sim.DelayState{}, err
	}
	return *resp.Delay, nil
}

// CreateCoiler returns the resolved variant id and its segment cap.
func (c *Client) CreateCoiler(ctx context.Context, variants coiler.Table, active string) (string, int, error) {
	resp, err := c.call(ctx, KindCreateCoiler, CreateCoiler{Variants: variants, Active: active})
	if err != nil {
		return "", 0, err
	}
	return resp.Variant, resp.MaxSegments, nil
}

func (c *Client) CreateRope(ctx context.Context) (sim.Snapshot, sim.DelayState, error) {
	resp, err := c.call(ctx, KindCreateRope, nil)
	if err != nil {
		return sim.Snapshot{}, sim.DelayState{}, err
	}
	return *resp.Snapshot, *resp.Delay, nil
}

func (c *Client) Reset(ctx context.Context, resetAngle bool) error {
	_, err := c.call(ctx, KindResetRope, ResetRope{ResetAngle: resetAngle})
	return err
}

func (c *Client) Step(ctx context.Context, speed, angleHint float64) (sim.Snapshot, error) {
	resp, err := c.call(ctx, KindStep, Step{RotationSpeed: speed, AngleHint: angleHint})
	if err != nil {
		return sim.Snapshot{}, err
	}
	return *resp.Snapshot, nil
}

func (c *Client) UpdateAnchor(ctx context.Context, p mgl64.Vec3) error {
	_, err := c.call(ctx, KindUpdateAnchor, UpdateAnchor{X: p.X(), Y: p.Y(), Z: p.Z()})
	return err
}

func (c *Client) SetRotation(ctx context.Context, speed float64) error {
	_, err := c.call(ctx, KindSetRotation, SetRotation{Speed: speed})
	return err
}

func (c *Client) Finalize(ctx context.Context) (sim.Snapshot, error) {
	resp, err := c.call(ctx, KindFinalizeRope, nil)
	if err != nil {
		return sim.Snapshot{}, err
	}
	return *resp.Snapshot, nil
}

func (c *Client) SetDelay(ctx context.Context, frames int) (sim.DelayState, error) {
	resp, err := c.call(ctx, KindSetDelay, SetDelay{Frames: frames})
	if err != nil {
		return sim.DelayState{}, err
	}
	return *resp.Delay, nil
}

// AddSegment reports false when the worker declined the insertion.
func (c *Client) AddSegment(ctx context.Context, o *sim.GrowthOverride) (sim.Snapshot, bool, error) {
	resp, err := c.call(ctx, KindAddSegment, AddSegment{Override: o})
	if err != nil || resp.Silent {
		return sim.Snapshot{}, false, err
	}
	return *resp.Snapshot, true, nil
}
