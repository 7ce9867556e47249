package main

import (
	"sort"
	"sync"

	"github.com/HalflingHelper/hash-tables/hashtable"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	KEY_NOT_FOUND = "KEY_NOT_FOUND"
	EMPTY_KEY     = "EMPTY_KEY"
)

var (
	ErrKeyNotFound = errors.New(KEY_NOT_FOUND)
	ErrEmptyKey    = errors.New(EMPTY_KEY)
)

// Storage Engine backed by one open addressing table. The table itself is
// single threaded, the engine lock makes every operation, resizes included,
// all or nothing for concurrent callers.
type Engine struct {
	name  string
	table *hashtable.HashTable
	mu    sync.RWMutex
}

type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Stats struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Capacity   int    `json:"capacity"`
	BaseSize   int    `json:"base_size"`
	Load       int    `json:"load"`
	Tombstones int    `json:"tombstones"`
}

func CreateEngine(name string, cfg *Config) *Engine {
	baseSize := hashtable.MinBaseSize
	var opts []hashtable.Option
	if cfg != nil {
		baseSize = cfg.InitialBaseSize
		opts = cfg.TableOptions()
	}
	e := &Engine{
		name:  name,
		table: hashtable.NewSized(baseSize, opts...),
	}
	log.Infof("Engine %s created with capacity=%d", name, e.table.Cap())
	return e
}

func (e *Engine) Read(key string) (string, error) {
	log.Debugf("Engine %s read key=%s", e.name, key)
	e.mu.RLock()
	defer e.mu.RUnlock()
	value, ok := e.table.Search(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (e *Engine) Write(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	log.Debugf("Engine %s write key=%s", e.name, key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.table.Insert(key, value)
	return nil
}

func (e *Engine) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	log.Debugf("Engine %s delete key=%s", e.name, key)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.table.Delete(key)
	return nil
}

// Stream calls fn for every pair in slot order. Errors returned by fn do not
// stop the walk; they are collected and returned together. fn runs under the
// engine read lock and must not write to the engine.
func (e *Engine) Stream(fn func(key string, value string) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var result *multierror.Error
	for k, v := range e.table.All() {
		if err := fn(k, v); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "key=%s", k))
		}
	}
	return result.ErrorOrNil()
}

// Pairs returns a snapshot of every pair sorted by key
func (e *Engine) Pairs() []Pair {
	pairs := make([]Pair, 0)
	e.Stream(func(key string, value string) error {
		pairs = append(pairs, Pair{Key: key, Value: value})
		return nil
	})
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})
	return pairs
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		Name:       e.name,
		Count:      e.table.Len(),
		Capacity:   e.table.Cap(),
		BaseSize:   e.table.BaseSize(),
		Load:       e.table.Load(),
		Tombstones: e.table.Tombstones(),
	}
}

// Digest fingerprints the live pairs. Two engines holding the same pairs have
// the same digest regardless of capacity or insertion order.
func (e *Engine) Digest() uint64 {
	var d uint64
	e.Stream(func(key string, value string) error {
		d = CombinePairHashes(d, GeneratePairHash(key, value))
		return nil
	})
	return d
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.table.Destroy()
	log.Infof("Engine %s closed", e.name)
}
