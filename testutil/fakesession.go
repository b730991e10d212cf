package testutil

import (
	"clementus360/doit/types"
	"sync"
)

// FakeSession is a manually driven session source.
type FakeSession struct {
	mu        sync.Mutex
	current   *types.Identity
	listeners map[int]func(*types.Identity)
	next      int
}

func NewFakeSession() *FakeSession {
	return &FakeSession{listeners: make(map[int]func(*types.Identity))}
}

func (f *FakeSession) Current() *types.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil
	}
	cp := *f.current
	return &cp
}

func (f *FakeSession) OnChange(fn func(*types.Identity)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

// Set changes the current identity and notifies every listener.
func (f *FakeSession) Set(ident *types.Identity) {
	f.mu.Lock()
	f.current = ident
	fns := make([]func(*types.Identity), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

// Listeners returns how many listeners are registered.
func (f *FakeSession) Listeners() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listeners)
}

// CountingCelebrator counts Fire calls.
type CountingCelebrator struct {
	mu    sync.Mutex
	count int
}

func (c *CountingCelebrator) Fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func (c *CountingCelebrator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
