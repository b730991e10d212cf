// Package celebrate fans out "task completed" moments to whoever is
// listening. Firing never blocks the caller.
package celebrate

import (
	"clementus360/doit/config"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Trigger is the one-way celebration signal.
type Trigger interface {
	Fire()
}

type Event struct {
	At time.Time
}

// Broadcaster delivers each Fire to every subscriber. A subscriber whose
// buffer is full misses the event.
type Broadcaster struct {
	log *logrus.Entry
	now func() time.Time

	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		log:  config.Component("celebrate"),
		now:  time.Now,
		subs: make(map[int]chan Event),
	}
}

// Subscribe returns a channel of events and a function that closes it.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broadcaster) Fire() {
	ev := Event{At: b.now()}

	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := 0
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}

	entry := b.log.WithField("subscribers", len(b.subs))
	if dropped > 0 {
		entry = entry.WithField("dropped", dropped)
	}
	entry.Info("Task completed, celebrating")
}
