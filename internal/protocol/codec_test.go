package protocol_test

import (
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropecoil/internal/dynamo"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
)

var _ = Describe("Codec", func() {
	DescribeTable("decodes typed payloads",
		func(raw string, kind protocol.Kind, want any) {
			req, err := protocol.Decode([]byte(raw))
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Kind).To(Equal(kind))
			Expect(req.Payload).To(Equal(want))
		},
		Entry("step", `{"type":"step","data":{"rotationSpeed":-2.8,"rotationAngle":1.5}}`,
			protocol.KindStep, &protocol.Step{RotationSpeed: -2.8, AngleHint: 1.5}),
		Entry("updateAnchor", `{"type":"updateAnchor","data":{"x":1,"y":2,"z":3}}`,
			protocol.KindUpdateAnchor, &protocol.UpdateAnchor{X: 1, Y: 2, Z: 3}),
		Entry("resetRope without data", `{"type":"resetRope"}`,
			protocol.KindResetRope, &protocol.ResetRope{}),
		Entry("setDelay", `{"type":"setDelay","data":{"frames":30}}`,
			protocol.KindSetDelay, &protocol.SetDelay{Frames: 30}),
	)

	It("leaves commands without input bare", func() {
		req, err := protocol.Decode([]byte(`{"type":"init","id":1}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Kind).To(Equal(protocol.KindInit))
		Expect(req.ID).To(Equal(uint64(1)))
		Expect(req.Payload).To(BeNil())
	})

	It("decodes a coiler table", func() {
		raw := `{"type":"createCoiler","data":{"active":"100-10","variants":{"100-10":{"radius":0.5,"maxSegments":400}}}}`
		req, err := protocol.Decode([]byte(raw))
		Expect(err).NotTo(HaveOccurred())
		p := req.Payload.(*protocol.CreateCoiler)
		Expect(p.Active).To(Equal("100-10"))
		Expect(p.Variants["100-10"].Radius).To(Equal(0.5))
		Expect(p.Variants["100-10"].MaxSegments).To(Equal(400))
	})

	It("rejects unknown command types", func() {
		_, err := protocol.Decode([]byte(`{"type":"explode"}`))
		Expect(errors.Is(err, dynamo.ErrUnknownCommand)).To(BeTrue())
	})

	It("rejects malformed envelopes", func() {
		_, err := protocol.Decode([]byte(`{"type":`))
		Expect(err).To(HaveOccurred())
	})

	It("encodes snapshots under the reply type", func() {
		snap := sim.Snapshot{SegmentCount: 2, Finalized: true}
		raw, err := protocol.Encode(protocol.Response{ID: 4, Type: protocol.ReplySnapshot, Snapshot: &snap})
		Expect(err).NotTo(HaveOccurred())

		var env struct {
			Type string `json:"type"`
			ID   uint64 `json:"id"`
			Data struct {
				Snapshot map[string]any `json:"snapshot"`
			} `json:"data"`
		}
		Expect(json.Unmarshal(raw, &env)).To(Succeed())
		Expect(env.Type).To(Equal("snapshot"))
		Expect(env.ID).To(Equal(uint64(4)))
		Expect(env.Data.Snapshot).To(HaveKeyWithValue("ropeFinalized", true))
	})

	It("round-trips kind names", func() {
		for k := protocol.KindInit; k.Valid(); k++ {
			got, ok := protocol.ParseKind(k.String())
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(k))
		}
		Expect(protocol.Kind(99).String()).To(Equal("unknown"))
	})
})
