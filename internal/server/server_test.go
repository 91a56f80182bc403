package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
)

var testVariants = coiler.Table{
	"100-10": {
		ID: "100-10", Radius: 0.5, Height: 1.0, SideOffset1: -0.5, SideOffset2: 0.5,
		AngleIncrement: 0.15, BarrierScale: 2.0, MaxSegments: 400,
	},
}

type reply struct {
	Type string `json:"type"`
	ID   uint64 `json:"id"`
	Data struct {
		Snapshot    *sim.Snapshot `json:"snapshot"`
		Variant     string        `json:"variant"`
		MaxSegments int           `json:"maxSegments"`
		Message     string        `json:"message"`
	} `json:"data"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(sim.DefaultParams(), WithLogger(log.New(io.Discard)), WithVariants(testVariants))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn) reply {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var r reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("read: %v", err)
	}
	return r
}

func TestHealthz(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	g.Expect(resp.StatusCode).To(Equal(http.StatusOK))
	g.Expect(string(body)).To(Equal("ok"))
}

func TestSessionRoundTrip(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":"init","id":1}`)
	g.Expect(recv(t, conn).Type).To(Equal(string(protocol.ReplyReady)))

	send(t, conn, `{"type":"createCoiler","id":2,"data":{"active":"100-10"}}`)
	r := recv(t, conn)
	g.Expect(r.Type).To(Equal("coilerCreated"))
	g.Expect(r.Data.Variant).To(Equal("100-10"))
	g.Expect(r.Data.MaxSegments).To(Equal(400))

	send(t, conn, `{"type":"createRope","id":3}`)
	r = recv(t, conn)
	g.Expect(r.Type).To(Equal("ropeCreated"))
	g.Expect(r.Data.Snapshot.SegmentCount).To(Equal(sim.DefaultParams().SegmentCount))

	// updateAnchor has no reply; the next frame seen is the step's.
	send(t, conn, `{"type":"updateAnchor","id":4,"data":{"x":0,"y":1,"z":0}}`)
	send(t, conn, `{"type":"step","id":5,"data":{"timeStep":0.016,"rotationSpeed":0}}`)
	r = recv(t, conn)
	g.Expect(r.Type).To(Equal("snapshot"))
	g.Expect(r.ID).To(Equal(uint64(5)))
	g.Expect(r.Data.Snapshot.Frame).To(Equal(1))
}

func TestUnknownCommandIgnored(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":"explode","id":1}`)
	send(t, conn, `{"type":"init","id":2}`)
	r := recv(t, conn)
	g.Expect(r.Type).To(Equal("ready"))
	g.Expect(r.ID).To(Equal(uint64(2)))
}

func TestMalformedFrameReportsError(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":`)
	r := recv(t, conn)
	g.Expect(r.Type).To(Equal("error"))
	g.Expect(r.Data.Message).NotTo(BeEmpty())
}

func TestUnknownVariantReportsError(t *testing.T) {
	g := NewWithT(t)
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, `{"type":"createCoiler","id":7,"data":{"active":"999-99"}}`)
	r := recv(t, conn)
	g.Expect(r.Type).To(Equal("error"))
	g.Expect(r.ID).To(Equal(uint64(7)))
}

func TestSessionsAreIsolated(t *testing.T) {
	g := NewWithT(t)
	s, ts := newTestServer(t)
	a, b := dial(t, ts), dial(t, ts)
	g.Eventually(s.Sessions).Should(Equal(2))

	for _, c := range []*websocket.Conn{a, b} {
		send(t, c, `{"type":"createCoiler","id":1,"data":{"active":"100-10"}}`)
		recv(t, c)
		send(t, c, `{"type":"createRope","id":2}`)
		recv(t, c)
	}
	for range 3 {
		send(t, a, `{"type":"step","id":3,"data":{"rotationSpeed":0}}`)
		recv(t, a)
	}
	send(t, b, `{"type":"step","id":4,"data":{"rotationSpeed":0}}`)
	g.Expect(recv(t, b).Data.Snapshot.Frame).To(Equal(1))

	a.Close()
	g.Eventually(s.Sessions).Should(Equal(1))
}

func TestListenAndServeStops(t *testing.T) {
	g := NewWithT(t)
	s := New(sim.DefaultParams(), WithLogger(log.New(io.Discard)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	g.Eventually(done, 5*time.Second).Should(Receive(BeNil()))
}
