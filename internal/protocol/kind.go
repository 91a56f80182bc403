// Package protocol is the message boundary of the winding core. A Worker
// owns one simulator and handles one request at a time; callers talk to
// it through a request channel and a response channel, either directly,
// through Client, or as JSON envelopes over a transport.
package protocol

// Kind is the closed set of commands a Worker accepts.
type Kind uint8

const (
	KindInit Kind = iota
	KindCreateCoiler
	KindCreateRope
	KindResetRope
	KindStep
	KindUpdateAnchor
	KindSetRotation
	KindFinalizeRope
	KindSetDelay
	KindAddSegment
	kindCount
)

var kindNames = [kindCount]string{
	KindInit:         "init",
	KindCreateCoiler: "createCoiler",
	KindCreateRope:   "createRope",
	KindResetRope:    "resetRope",
	KindStep:         "step",
	KindUpdateAnchor: "updateAnchor",
	KindSetRotation:  "setRotation",
	KindFinalizeRope: "finalizeRope",
	KindSetDelay:     "setDelay",
	KindAddSegment:   "addSegment",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) Valid() bool { return k < kindCount }

// ParseKind maps a wire name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Reply names the response message types.
type Reply string

const (
	ReplyNone          Reply = ""
	ReplyReady         Reply = "ready"
	ReplyCoilerCreated Reply = "coilerCreated"
	ReplyRopeCreated   Reply = "ropeCreated"
	ReplyRopeReset     Reply = "ropeReset"
	ReplySnapshot      Reply = "snapshot"
	ReplyRopeFinalized Reply = "ropeFinalized"
	ReplyDelaySet      Reply = "delaySet"
	ReplySegmentAdded  Reply = "segmentAdded"
	ReplyError         Reply = "error"
)
