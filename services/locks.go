package services

import "sync"

// DeviceLocks hands out one mutex per device key. Every cart, order and
// session mutation for a device runs under its lock.
type DeviceLocks struct {
	m sync.Map // key -> *sync.Mutex
}

func NewDeviceLocks() *DeviceLocks { return &DeviceLocks{} }

// Lock blocks until key is free and returns the matching unlock.
func (l *DeviceLocks) Lock(key string) func() {
	v, _ := l.m.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
