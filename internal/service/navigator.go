package service

import (
	"sync"

	"accessfirst/internal/domain"
)

// Navigator tracks the current view and the back stack. It is never persisted.
type Navigator struct {
	mu      sync.Mutex
	current domain.ViewID
	stack   []domain.ViewID
}

// NewNavigator starts at home with an empty stack
func NewNavigator() *Navigator {
	return &Navigator{current: domain.ViewHome}
}

// GoTo shows view, remembering the previous one
func (n *Navigator) GoTo(view domain.ViewID) domain.ViewID {
	n.mu.Lock()
	defer n.mu.Unlock()

	if view == n.current {
		return n.current
	}
	if len(n.stack) == 0 || n.stack[len(n.stack)-1] != n.current {
		n.stack = append(n.stack, n.current)
	}
	n.current = view
	return n.current
}

// GoBack returns to the previous view, or home when there is none
func (n *Navigator) GoBack() domain.ViewID {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.stack) == 0 {
		n.current = domain.ViewHome
		return n.current
	}
	n.current = n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	return n.current
}

// Reset goes home and forgets the stack
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = domain.ViewHome
	n.stack = nil
}

func (n *Navigator) Current() domain.ViewID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Depth is the number of views on the back stack
func (n *Navigator) Depth() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.stack)
}
