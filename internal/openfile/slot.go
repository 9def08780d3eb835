package openfile

import "sync"

// Slot holds the pending startup file. Writers overwrite unconditionally;
// the value stays until Clear is called.
type Slot struct {
	mu   sync.Mutex
	path ResolvedPath
	ok   bool
}

func (s *Slot) Set(p ResolvedPath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = p
	s.ok = true
}

func (s *Slot) Get() (ResolvedPath, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path, s.ok
}

func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	s.ok = false
}
