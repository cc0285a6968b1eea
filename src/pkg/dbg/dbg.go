package dbg

import (
	"log"
	"sync"

	"github.com/petermattis/goid"
)

// LoggedMutex reports every lock transition together with the goroutine id.
// Meant for chasing lock-ordering bugs around the pool latch; too chatty for
// anything else.
type LoggedMutex struct {
	mu   *sync.Mutex
	name string
}

func NewLoggedMutex(name string) *LoggedMutex {
	return &LoggedMutex{
		mu:   new(sync.Mutex),
		name: name,
	}
}

func (lm *LoggedMutex) Lock() {
	log.Printf("goid=%d trying to lock %s", goid.Get(), lm.name)

	lm.mu.Lock()

	log.Printf("goid=%d locked %s", goid.Get(), lm.name)
}

func (lm *LoggedMutex) Unlock() {
	lm.mu.Unlock()

	log.Printf("goid=%d unlocked %s", goid.Get(), lm.name)
}
