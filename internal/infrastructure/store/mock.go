// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// MockKeyValue is an in-memory INatsKeyValue for tests.
type MockKeyValue struct {
	mu       sync.Mutex
	entries  map[string]*mockEntry
	revision uint64
}

// NewMockKeyValue creates an empty in-memory KV bucket.
func NewMockKeyValue() *MockKeyValue {
	return &MockKeyValue{entries: map[string]*mockEntry{}}
}

type mockEntry struct {
	key      string
	value    []byte
	revision uint64
	created  time.Time
}

func (e *mockEntry) Bucket() string                  { return "mock" }
func (e *mockEntry) Key() string                     { return e.key }
func (e *mockEntry) Value() []byte                   { return e.value }
func (e *mockEntry) Revision() uint64                { return e.revision }
func (e *mockEntry) Created() time.Time              { return e.created }
func (e *mockEntry) Delta() uint64                   { return 0 }
func (e *mockEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type mockKeyLister struct {
	keys chan string
}

func (l *mockKeyLister) Keys() <-chan string { return l.keys }
func (l *mockKeyLister) Stop() error         { return nil }

func (kv *MockKeyValue) ListKeys(_ context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	ch := make(chan string, len(kv.entries))
	for key := range kv.entries {
		ch <- key
	}
	close(ch)
	return &mockKeyLister{keys: ch}, nil
}

func (kv *MockKeyValue) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entry, ok := kv.entries[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return entry, nil
}

func (kv *MockKeyValue) Put(_ context.Context, key string, value []byte) (uint64, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.revision++
	kv.entries[key] = &mockEntry{key: key, value: value, revision: kv.revision, created: time.Now()}
	return kv.revision, nil
}

func (kv *MockKeyValue) Update(_ context.Context, key string, value []byte, revision uint64) (uint64, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entry, ok := kv.entries[key]
	if !ok {
		return 0, jetstream.ErrKeyNotFound
	}
	if entry.revision != revision {
		return 0, &jetstream.APIError{Description: "wrong last sequence"}
	}

	kv.revision++
	kv.entries[key] = &mockEntry{key: key, value: value, revision: kv.revision, created: entry.created}
	return kv.revision, nil
}

func (kv *MockKeyValue) Delete(_ context.Context, key string, opts ...jetstream.KVDeleteOpt) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if _, ok := kv.entries[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(kv.entries, key)
	return nil
}

var _ INatsKeyValue = (*MockKeyValue)(nil)
