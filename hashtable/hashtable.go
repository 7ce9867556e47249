// Package hashtable implements a string keyed table using open addressing
// with double hashing. Capacities are always prime so that every probe
// sequence can reach every slot.
//
// A HashTable is not safe for concurrent use. Callers that share one between
// goroutines must guard it with a single lock.
package hashtable

import (
	"fmt"
	"iter"

	log "github.com/sirupsen/logrus"
)

const (
	// MinBaseSize is the floor for the base size of every table. Shrinking
	// below it is refused.
	MinBaseSize = 53

	// Load percentages that trigger a grow on insert and a shrink on delete.
	highWaterMark = 70
	lowWaterMark  = 10
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

type slot struct {
	state slotState
	key   string
	value string
}

// HashTable maps non-empty string keys to string values.
type HashTable struct {
	baseSize int
	count    int
	slots    []slot

	// decrement count on every delete, even when the key was absent
	legacyDeleteCount bool
}

// Option configures a HashTable at creation.
type Option func(*HashTable)

// WithLegacyDeleteCount makes Delete decrement the entry count even when the
// key is not present. Count never goes below zero.
func WithLegacyDeleteCount() Option {
	return func(ht *HashTable) {
		ht.legacyDeleteCount = true
	}
}

// New creates an empty table at the minimum base size.
func New(opts ...Option) *HashTable {
	return NewSized(MinBaseSize, opts...)
}

// NewSized creates an empty table whose capacity is the smallest prime >=
// baseSize. Sizes below MinBaseSize are raised to it.
func NewSized(baseSize int, opts ...Option) *HashTable {
	if baseSize < MinBaseSize {
		baseSize = MinBaseSize
	}
	ht := &HashTable{
		baseSize: baseSize,
		slots:    make([]slot, NextPrime(baseSize)),
	}
	for _, opt := range opts {
		opt(ht)
	}
	return ht
}

// Len returns the number of live pairs.
func (ht *HashTable) Len() int { return ht.count }

// Cap returns the number of slots. It is always prime for a live table.
func (ht *HashTable) Cap() int { return len(ht.slots) }

// BaseSize returns the logical size the capacity is derived from.
func (ht *HashTable) BaseSize() int { return ht.baseSize }

// Load returns count as an integer percentage of capacity.
func (ht *HashTable) Load() int {
	ht.mustBeLive()
	return ht.count * 100 / len(ht.slots)
}

// Tombstones returns the number of slots holding a deleted marker.
func (ht *HashTable) Tombstones() int {
	n := 0
	for i := range ht.slots {
		if ht.slots[i].state == slotTombstone {
			n++
		}
	}
	return n
}

// Insert maps key to value, replacing any previous value for key. It grows
// the table first when the load is above the high water mark.
func (ht *HashTable) Insert(key, value string) {
	ht.mustBeLive()
	if key == "" {
		panic("hashtable: empty key")
	}
	if ht.Load() > highWaterMark {
		ht.resize(ht.baseSize * 2)
	}
	if place(ht.slots, key, value) {
		ht.count++
	}
}

// Search returns the value stored for key. The boolean is false when key is
// absent.
func (ht *HashTable) Search(key string) (string, bool) {
	ht.mustBeLive()
	n := len(ht.slots)
	hashA, hashB := Hash(key, Prime1, n), Hash(key, Prime2, n)
	for attempt := 0; attempt < n; attempt++ {
		s := &ht.slots[probe(hashA, hashB, n, attempt)]
		switch s.state {
		case slotEmpty:
			return "", false
		case slotOccupied:
			if s.key == key {
				return s.value, true
			}
		}
	}
	return "", false
}

// Delete removes key from the table. The shrink check runs before the lookup,
// so deleting an absent key may still shrink the table.
func (ht *HashTable) Delete(key string) {
	ht.mustBeLive()
	if ht.Load() < lowWaterMark {
		ht.resize(ht.baseSize / 2)
	}

	n := len(ht.slots)
	hashA, hashB := Hash(key, Prime1, n), Hash(key, Prime2, n)
	removed := false
	for attempt := 0; attempt < n; attempt++ {
		idx := probe(hashA, hashB, n, attempt)
		s := ht.slots[idx]
		if s.state == slotEmpty {
			break
		}
		if s.state == slotOccupied && s.key == key {
			ht.slots[idx] = slot{state: slotTombstone}
			removed = true
			break
		}
	}

	if (removed || ht.legacyDeleteCount) && ht.count > 0 {
		ht.count--
	}
}

// All yields every live pair in slot order.
func (ht *HashTable) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		slots := ht.slots
		for i := range slots {
			if slots[i].state != slotOccupied {
				continue
			}
			if !yield(slots[i].key, slots[i].value) {
				return
			}
		}
	}
}

// Destroy drops every pair and the slot array. The table must not be used
// afterwards.
func (ht *HashTable) Destroy() {
	for i := range ht.slots {
		ht.slots[i] = slot{}
	}
	ht.slots = nil
	ht.count = 0
	ht.baseSize = 0
}

// resize rebuilds the table around a new base size. Requests below
// MinBaseSize are rejected and leave the table untouched.
func (ht *HashTable) resize(baseSize int) bool {
	if baseSize < MinBaseSize {
		log.Debugf("hashtable: resize to base=%d rejected, floor is %d", baseSize, MinBaseSize)
		return false
	}

	slots := make([]slot, NextPrime(baseSize))
	count := 0
	for i := range ht.slots {
		s := &ht.slots[i]
		if s.state != slotOccupied {
			continue
		}
		if place(slots, s.key, s.value) {
			count++
		}
	}

	log.Debugf("hashtable: resized capacity %d -> %d, base=%d count=%d",
		len(ht.slots), len(slots), baseSize, count)

	ht.baseSize = baseSize
	ht.slots = slots
	ht.count = count
	return true
}

// place stores key and value in slots and reports whether a new key was
// added. The first tombstone on the probe path is reused, but only once the
// walk has reached an empty slot without finding key further along.
func place(slots []slot, key, value string) bool {
	n := len(slots)
	hashA, hashB := Hash(key, Prime1, n), Hash(key, Prime2, n)
	tomb := -1
	for attempt := 0; attempt < n; attempt++ {
		idx := probe(hashA, hashB, n, attempt)
		s := &slots[idx]
		switch s.state {
		case slotEmpty:
			if tomb >= 0 {
				idx = tomb
			}
			slots[idx] = slot{state: slotOccupied, key: key, value: value}
			return true
		case slotTombstone:
			if tomb < 0 {
				tomb = idx
			}
		case slotOccupied:
			if s.key == key {
				s.key, s.value = key, value
				return false
			}
		}
	}
	if tomb >= 0 {
		slots[tomb] = slot{state: slotOccupied, key: key, value: value}
		return true
	}
	panic(fmt.Sprintf("hashtable: probe for key %q exhausted all %d slots", key, n))
}

func (ht *HashTable) mustBeLive() {
	if ht.slots == nil {
		panic("hashtable: use of destroyed table")
	}
}
