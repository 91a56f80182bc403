package protocol_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
)

var variants = coiler.Table{
	"100-10": {
		ID: "100-10", Radius: 0.5, Height: 1.0, SideOffset1: -0.5, SideOffset2: 0.5,
		AngleIncrement: 0.15, BarrierScale: 2.0, MaxSegments: 400,
	},
}

var _ = Describe("Worker", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		worker *protocol.Worker
		client *protocol.Client
		done   chan error
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
		quiet := log.New(io.Discard)
		s := sim.New(sim.DefaultParams(), sim.WithLogger(quiet))
		worker = protocol.NewWorker(s, protocol.WithWorkerLogger(quiet))
		client = protocol.NewClient(worker)
		done = make(chan error, 1)
		go func() { done <- worker.Run(ctx) }()
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive())
	})

	Context("setup", func() {
		It("reports the startup delay on init", func() {
			d, err := client.Init(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Active).To(BeFalse())
		})

		It("resolves the coiler variant and its cap", func() {
			id, limit, err := client.CreateCoiler(ctx, variants, "100-10")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("100-10"))
			Expect(limit).To(Equal(400))
		})

		It("replies with an error for an unknown variant", func() {
			_, _, err := client.CreateCoiler(ctx, variants, "nope")
			var remote *protocol.RemoteError
			Expect(errors.As(err, &remote)).To(BeTrue())
			Expect(remote.Kind).To(Equal(protocol.KindCreateCoiler))
			Expect(remote.Message).To(ContainSubstring("unknown coiler variant"))
		})

		It("replies with an error when the rope has no coiler", func() {
			_, _, err := client.CreateRope(ctx)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a rope", func() {
		BeforeEach(func() {
			_, err := client.Init(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, _, err = client.CreateCoiler(ctx, variants, "100-10")
			Expect(err).NotTo(HaveOccurred())
			snap, d, err := client.CreateRope(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Positions).To(HaveLen(sim.DefaultParams().SegmentCount))
			Expect(d.Active).To(BeTrue())
		})

		It("keeps every segment dynamic through the idle startup", func() {
			for range 60 {
				snap, err := client.Step(ctx, 0, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(snap.StaticCount).To(BeZero())
				Expect(snap.DelayActive).To(BeTrue())
			}
		})

		It("finalizes when the rotation stops", func() {
			_, err := client.SetDelay(ctx, 0)
			Expect(err).NotTo(HaveOccurred())

			snap, err := client.Step(ctx, 5, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Finalized).To(BeFalse())

			snap, err = client.Step(ctx, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Finalized).To(BeTrue())
		})

		It("finalizes on command", func() {
			snap, err := client.Finalize(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Finalized).To(BeTrue())
			Expect(snap.StaticCount).To(Equal(snap.SegmentCount))
		})

		It("grows on addSegment and declines after finalize", func() {
			snap, ok, err := client.AddSegment(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(snap.SegmentCount).To(Equal(sim.DefaultParams().SegmentCount + 1))

			_, err = client.Finalize(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, ok, err = client.AddSegment(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("accepts fire-and-forget commands", func() {
			Expect(client.UpdateAnchor(ctx, mgl64.Vec3{0.1, 0.9, 0})).To(Succeed())
			Expect(client.SetRotation(ctx, -2.8)).To(Succeed())
		})

		It("clears the rope on reset", func() {
			Expect(client.Reset(ctx, true)).To(Succeed())
			snap, err := client.Step(ctx, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.SegmentCount).To(BeZero())
			Expect(snap.Positions).To(BeEmpty())
		})
	})

	It("answers unknown kinds silently", func() {
		worker.Requests() <- protocol.Request{ID: 7, Kind: protocol.Kind(200)}
		var resp protocol.Response
		Eventually(worker.Responses()).Should(Receive(&resp))
		Expect(resp.ID).To(Equal(uint64(7)))
		Expect(resp.Silent).To(BeTrue())
	})

	It("turns a bad payload into an error response", func() {
		worker.Requests() <- protocol.Request{ID: 9, Kind: protocol.KindStep, Payload: "fast"}
		var resp protocol.Response
		Eventually(worker.Responses()).Should(Receive(&resp))
		Expect(resp.Type).To(Equal(protocol.ReplyError))
	})

	It("stops when the request channel closes", func() {
		close(worker.Requests())
		Eventually(done).Should(Receive(BeNil()))
		done <- nil
	})
})

var _ = Describe("Handle", func() {
	It("recovers from a panic inside the simulator", func() {
		w := protocol.NewWorker(nil, protocol.WithWorkerLogger(log.New(io.Discard)))
		resp := w.Handle(protocol.Request{ID: 3, Kind: protocol.KindInit})
		Expect(resp.Type).To(Equal(protocol.ReplyError))
		Expect(resp.ID).To(Equal(uint64(3)))
	})
})
