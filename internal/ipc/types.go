package ipc

// MessageType is the wire-ABI message type tag carried in every
// FrameHeader. Values are fixed and MUST NOT be renumbered.
type MessageType uint8

const (
	// Control
	MsgInit     MessageType = 0x00
	MsgReady    MessageType = 0x01
	MsgShutdown MessageType = 0x02
	MsgPing     MessageType = 0x03
	MsgPong     MessageType = 0x04
	MsgError    MessageType = 0x05
	MsgAck      MessageType = 0x06

	// Data
	MsgSurfaceFull  MessageType = 0x10
	MsgSurfaceDelta MessageType = 0x11
	MsgChainFull    MessageType = 0x12
	MsgChainDelta   MessageType = 0x13
	MsgTimeseries   MessageType = 0x14
	MsgDispersion   MessageType = 0x15

	// Widget
	MsgSetData    MessageType = 0x20
	MsgAppendData MessageType = 0x21
	MsgClear      MessageType = 0x22
	MsgScroll     MessageType = 0x23
	MsgFocus      MessageType = 0x24
	MsgResize     MessageType = 0x25
	MsgSetTitle   MessageType = 0x26

	// Events
	MsgSelected      MessageType = 0x30
	MsgClicked       MessageType = 0x31
	MsgSubmitted     MessageType = 0x32
	MsgKeyPressed    MessageType = 0x33
	MsgScrollChanged MessageType = 0x34

	// Render
	MsgRenderRequest MessageType = 0x40
	MsgRenderResult  MessageType = 0x41

	// Config
	MsgConfigUpdate MessageType = 0x50
	MsgWiringUpdate MessageType = 0x51
)

// names maps each MessageType to its wire name, used by the router to
// match wiring rules against event types (§4.6 dispatch).
var names = map[MessageType]string{
	MsgInit:     "INIT",
	MsgReady:    "READY",
	MsgShutdown: "SHUTDOWN",
	MsgPing:     "PING",
	MsgPong:     "PONG",
	MsgError:    "ERROR",
	MsgAck:      "ACK",

	MsgSurfaceFull:  "SURFACE_FULL",
	MsgSurfaceDelta: "SURFACE_DELTA",
	MsgChainFull:    "CHAIN_FULL",
	MsgChainDelta:   "CHAIN_DELTA",
	MsgTimeseries:   "TIMESERIES",
	MsgDispersion:   "DISPERSION",

	MsgSetData:    "SET_DATA",
	MsgAppendData: "APPEND_DATA",
	MsgClear:      "CLEAR",
	MsgScroll:     "SCROLL",
	MsgFocus:      "FOCUS",
	MsgResize:     "RESIZE",
	MsgSetTitle:   "SET_TITLE",

	MsgSelected:      "SELECTED",
	MsgClicked:       "CLICKED",
	MsgSubmitted:     "SUBMITTED",
	MsgKeyPressed:    "KEY_PRESSED",
	MsgScrollChanged: "SCROLL_CHANGED",

	MsgRenderRequest: "RENDER_REQUEST",
	MsgRenderResult:  "RENDER_RESULT",

	MsgConfigUpdate: "CONFIG_UPDATE",
	MsgWiringUpdate: "WIRING_UPDATE",
}

// String returns the canonical wire name for t, or "UNKNOWN" if t has
// no registered name — dispatch treats such types as no-ops rather
// than errors (§7).
func (t MessageType) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// eventTypes is the set of MessageTypes the router's dispatch loop
// treats as wiring-rule-triggering events (§4.6).
var eventTypes = map[MessageType]bool{
	MsgSelected:      true,
	MsgClicked:       true,
	MsgSubmitted:     true,
	MsgKeyPressed:    true,
	MsgScrollChanged: true,
}

// IsEvent reports whether t is one of the Events message types that
// trigger wiring-rule dispatch.
func (t MessageType) IsEvent() bool {
	return eventTypes[t]
}

// ByName is the inverse of String: it looks up the MessageType
// registered under name, used by the router to resolve a wiring
// rule's action name to a wire type (§4.6 Dispatch).
func ByName(name string) (MessageType, bool) {
	for t, n := range names {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Flags is the FrameHeader's bitfield.
type Flags uint8

const (
	FlagCompressed Flags = 1 << iota
	FlagRequest
	FlagResponse
	FlagBroadcast
)
