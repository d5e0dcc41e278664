package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTimer struct {
	fire    func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	f.stopped = true
	return true
}

type recordSink struct {
	shown  []Message
	hidden int
}

func (r *recordSink) Show(m Message) { r.shown = append(r.shown, m) }
func (r *recordSink) Hide()          { r.hidden++ }

func newTestNotifier(sink Sink) (*Notifier, *[]*fakeTimer) {
	n := New(sink, 5*time.Second, zap.NewNop())
	timers := &[]*fakeTimer{}
	n.after = func(d time.Duration, f func()) stopper {
		ft := &fakeTimer{fire: f}
		*timers = append(*timers, ft)
		return ft
	}
	return n, timers
}

func TestNotifier_AutoDismiss(t *testing.T) {
	sink := &recordSink{}
	n, timers := newTestNotifier(sink)

	n.Success("Livro removido com sucesso.")
	m, ok := n.Current()
	require.True(t, ok)
	require.Equal(t, Message{Kind: Success, Text: "Livro removido com sucesso."}, m)

	(*timers)[0].fire()
	_, ok = n.Current()
	require.False(t, ok)
	require.Equal(t, 1, sink.hidden)
}

func TestNotifier_NewerMessageSurvivesOldTimer(t *testing.T) {
	sink := &recordSink{}
	n, timers := newTestNotifier(sink)

	n.Success("first")
	n.Error("second")
	require.True(t, (*timers)[0].stopped)

	// a late fire of the replaced timer must not hide "second"
	(*timers)[0].fire()
	m, ok := n.Current()
	require.True(t, ok)
	require.Equal(t, "second", m.Text)
	require.Equal(t, Error, m.Kind)
	require.Zero(t, sink.hidden)

	(*timers)[1].fire()
	_, ok = n.Current()
	require.False(t, ok)
	require.Len(t, sink.shown, 2)
}

func TestNotifier_RealTimer(t *testing.T) {
	n := New(nil, 10*time.Millisecond, zap.NewNop())
	n.Error("boom")
	require.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
