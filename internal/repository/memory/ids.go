// Package memory holds the in-memory stores backing every repository
// interface. Each store owns a single RWMutex; every operation is a complete
// read-modify-write under that lock, so per-entity operations are atomic and
// there is no fetch-then-write window. State is process-local and resets on
// restart by design.
package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// nextID assigns the next sequential id for a prefix: the highest numeric
// suffix among existing ids plus one. Gaps left by deletions are tolerated
// and never reused. Callers must hold the store's write lock.
func nextID(prefix string, existing func(yield func(id string) bool)) string {
	max := 0
	existing(func(id string) bool {
		if !strings.HasPrefix(id, prefix) {
			return true
		}
		if n, err := strconv.Atoi(id[len(prefix):]); err == nil && n > max {
			max = n
		}
		return true
	})
	return fmt.Sprintf("%s%03d", prefix, max+1)
}

// keysOf adapts a map to the iterator shape nextID expects.
func keysOf[V any](m map[string]V) func(yield func(id string) bool) {
	return func(yield func(id string) bool) {
		for k := range m {
			if !yield(k) {
				return
			}
		}
	}
}
