package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Message struct {
	Kind Kind
	Text string
}

// Sink displays and hides the single visible message.
type Sink interface {
	Show(Message)
	Hide()
}

type stopper interface {
	Stop() bool
}

type Notifier struct {
	mu      sync.Mutex
	sink    Sink
	log     *zap.Logger
	ttl     time.Duration
	after   func(time.Duration, func()) stopper
	current *Message
	timer   stopper
	gen     uint64
}

func New(sink Sink, ttl time.Duration, log *zap.Logger) *Notifier {
	return &Notifier{
		sink: sink,
		log:  log.Named("feedback"),
		ttl:  ttl,
		after: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

func (n *Notifier) Success(text string) {
	n.show(Message{Kind: Success, Text: text})
}

func (n *Notifier) Error(text string) {
	n.show(Message{Kind: Error, Text: text})
}

func (n *Notifier) Current() (Message, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Message{}, false
	}
	return *n.current, true
}

func (n *Notifier) show(m Message) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.log.Debug("show", zap.String("kind", string(m.Kind)), zap.String("text", m.Text))
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = &m
	if n.sink != nil {
		n.sink.Show(m)
	}
	n.timer = n.after(n.ttl, func() { n.dismiss(gen) })
}

// dismiss hides the message of generation gen, unless a newer one replaced it.
func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen || n.current == nil {
		return
	}
	n.current = nil
	n.timer = nil
	if n.sink != nil {
		n.sink.Hide()
	}
}
