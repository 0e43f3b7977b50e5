// Copyright 2026 Northern.tech AS
//
//    All Rights Reserved

package utils

import "sync"

// KeyedMutex provides a mutual-exclusion scope per key. Version allocation
// for a device must hold the device's lock across the whole
// read-build-write sequence; builds for different devices proceed in
// parallel.
type KeyedMutex struct {
	mutex sync.Mutex
	locks map[interface{}]*keyedLock
}

type keyedLock struct {
	mutex sync.Mutex
	// refs counts holders and waiters, guarded by the owning KeyedMutex
	refs int
}

// NewKeyedMutex returns a new KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[interface{}]*keyedLock),
	}
}

// Lock acquires the lock for the given key
func (km *KeyedMutex) Lock(key interface{}) {
	km.mutex.Lock()
	lock, ok := km.locks[key]
	if !ok {
		lock = &keyedLock{}
		km.locks[key] = lock
	}
	lock.refs++
	km.mutex.Unlock()

	lock.mutex.Lock()
}

// Unlock releases the lock for the given key
func (km *KeyedMutex) Unlock(key interface{}) {
	km.mutex.Lock()
	lock := km.locks[key]
	lock.refs--
	if lock.refs == 0 {
		delete(km.locks, key)
	}
	km.mutex.Unlock()

	lock.mutex.Unlock()
}
