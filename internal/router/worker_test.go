package router

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marigraph/marigraph/internal/config"
	"github.com/marigraph/marigraph/internal/ipc"
)

func newTestSupervisor(t *testing.T, wiring []config.WiringEntry) *Supervisor {
	t.Helper()
	s, err := New(slog.Default(), &config.Template{Wiring: wiring}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(s.instanceDir) })
	return s
}

func newTestWorker(id string) *Worker {
	return &Worker{id: id, outbox: make(chan outboundFrame, outboundQueueSize), done: make(chan struct{})}
}

func TestResolveTargetsBroadcastExcludesSourceAndDedupes(t *testing.T) {
	s := newTestSupervisor(t, nil)
	got := s.resolveTargets(config.BroadcastTarget, "a", []string{"a", "b", "c", "b"})
	assert.ElementsMatch(t, []string{"b", "c"}, got)
}

func TestResolveTargetsDirect(t *testing.T) {
	s := newTestSupervisor(t, nil)
	got := s.resolveTargets("b", "a", []string{"a", "b", "c"})
	assert.Equal(t, []string{"b"}, got)
}

func TestDispatchEventFiresMatchingWiringRule(t *testing.T) {
	wiring := []config.WiringEntry{
		{On: config.WiringOn{Column: "chain", Event: "SELECTED"}, Do: config.WiringDo{Column: "surface3d", Action: "SET_DATA"}},
	}
	s := newTestSupervisor(t, wiring)

	source := newTestWorker("chain")
	target := newTestWorker("surface3d")
	s.workers["chain"] = source
	s.workers["surface3d"] = target

	frame := ipc.Frame{Header: ipc.FrameHeader{Type: ipc.MsgSelected}, Payload: []byte(`{"strike":100}`)}
	s.dispatchEvent("chain", frame)

	select {
	case f := <-target.outbox:
		assert.Equal(t, ipc.MsgSetData, f.typ)
		assert.Equal(t, frame.Payload, f.payload)
	default:
		t.Fatal("expected a frame to be enqueued for the wiring target")
	}
}

func TestDispatchEventDefaultsActionToSetData(t *testing.T) {
	wiring := []config.WiringEntry{
		{On: config.WiringOn{Column: "chain", Event: "CLICKED"}, Do: config.WiringDo{Column: "surface3d"}},
	}
	s := newTestSupervisor(t, wiring)
	s.workers["chain"] = newTestWorker("chain")
	target := newTestWorker("surface3d")
	s.workers["surface3d"] = target

	s.dispatchEvent("chain", ipc.Frame{Header: ipc.FrameHeader{Type: ipc.MsgClicked}})

	f := <-target.outbox
	assert.Equal(t, ipc.MsgSetData, f.typ)
}

func TestDispatchEventBroadcastReachesEveryOtherWorker(t *testing.T) {
	wiring := []config.WiringEntry{
		{On: config.WiringOn{Column: "chain", Event: "SELECTED"}, Do: config.WiringDo{Column: config.BroadcastTarget, Action: "SET_DATA"}},
	}
	s := newTestSupervisor(t, wiring)
	s.workers["chain"] = newTestWorker("chain")
	s.workers["b"] = newTestWorker("b")
	s.workers["c"] = newTestWorker("c")

	s.dispatchEvent("chain", ipc.Frame{Header: ipc.FrameHeader{Type: ipc.MsgSelected}})

	assert.Len(t, s.workers["b"].outbox, 1)
	assert.Len(t, s.workers["c"].outbox, 1)
	assert.Len(t, s.workers["chain"].outbox, 0)
}

func TestSendToColumnUnknownWorker(t *testing.T) {
	s := newTestSupervisor(t, nil)
	err := s.sendToColumn("ghost", ipc.MsgSetData, nil, 0, 1)
	require.ErrorIs(t, err, ErrUnknownWorker)
}

func TestSendToColumnCoalescesUnderOverload(t *testing.T) {
	s := newTestSupervisor(t, nil)
	w := newTestWorker("w")
	w.outbox = make(chan outboundFrame, 2)
	s.workers["w"] = w

	require.NoError(t, s.sendToColumn("w", ipc.MsgSetData, []byte("old1"), 0, 1))
	require.NoError(t, s.sendToColumn("w", ipc.MsgScroll, []byte("scroll"), 0, 2))
	// Queue is now full (2/2). This same-type SET_DATA frame should
	// coalesce with "old1" rather than growing the queue.
	require.NoError(t, s.sendToColumn("w", ipc.MsgSetData, []byte("new1"), 0, 3))

	assert.LessOrEqual(t, len(w.outbox), 2)

	var sawScroll, sawSetData bool
	var setDataPayload []byte
	for i := 0; i < len(w.outbox); i++ {
		f := <-w.outbox
		if f.typ == ipc.MsgScroll {
			sawScroll = true
		}
		if f.typ == ipc.MsgSetData {
			sawSetData = true
			setDataPayload = f.payload
		}
	}
	assert.True(t, sawScroll, "non-coalesced type must survive")
	assert.True(t, sawSetData, "coalesced type must still be present")
	assert.Equal(t, []byte("new1"), setDataPayload, "coalescing keeps the newest same-type frame")
}

func TestByNameRoundTripsMessageTypeNames(t *testing.T) {
	got, ok := ipc.ByName("SELECTED")
	require.True(t, ok)
	assert.Equal(t, ipc.MsgSelected, got)

	_, ok = ipc.ByName("NOT_A_REAL_TYPE")
	assert.False(t, ok)
}

func TestWorkerIsReady(t *testing.T) {
	w := newTestWorker("x")
	assert.False(t, w.IsReady())
	w.mu.Lock()
	w.ready = true
	w.mu.Unlock()
	assert.True(t, w.IsReady())
}

func TestNextSeqIncrements(t *testing.T) {
	s := newTestSupervisor(t, nil)
	a := s.nextSeq()
	b := s.nextSeq()
	assert.Equal(t, a+1, b)
}

func TestInstanceDirIsCreated(t *testing.T) {
	s := newTestSupervisor(t, nil)
	assert.DirExists(t, s.instanceDir)
}
