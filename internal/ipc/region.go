package ipc

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrChannelUnavailable   = errors.New("shared channel unavailable")
	ErrFrameShapeMismatch   = errors.New("frame shape does not match channel geometry")
	ErrNoNativeSharedMemory = errors.New("no native shared memory on this platform")
	ErrRegionSizeMismatch   = errors.New("region already exists with another size")
	ErrChannelClosed        = errors.New("channel closed")
)

// Region is one mapped block of memory. Bytes stays valid until Close.
type Region interface {
	Bytes() []byte
	Close() error
}

// Provider acquires regions by name. CrossProcess reports whether two
// processes opening the same name see the same bytes.
type Provider interface {
	Open(name string, size int) (Region, error)
	CrossProcess() bool
	String() string
}

// Heap hands out private buffers. Regions with the same name are shared
// inside this process only, so a producer and a consumer living in one
// process still meet, but a second process never sees them.
type Heap struct {
	lock    sync.Mutex
	regions map[string]*heapRegion
}

type heapRegion struct {
	heap *Heap
	name string
	buf  []byte
	refs int
}

func NewHeap() *Heap {
	return &Heap{
		regions: make(map[string]*heapRegion),
	}
}

func (h *Heap) Open(name string, size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", size)
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if h.regions == nil {
		h.regions = make(map[string]*heapRegion)
	}

	region, ok := h.regions[name]
	if ok {
		if len(region.buf) != size {
			return nil, fmt.Errorf("region %s already open with size %d, requested %d: %w", name, len(region.buf), size, ErrRegionSizeMismatch)
		}
	} else {
		region = &heapRegion{
			heap: h,
			name: name,
			buf:  make([]byte, size),
		}
		h.regions[name] = region
	}
	region.refs++
	return &heapHandle{region: region}, nil
}

func (h *Heap) CrossProcess() bool {
	return false
}

func (h *Heap) String() string {
	return "heap"
}

func (h *Heap) release(r *heapRegion) {
	h.lock.Lock()
	defer h.lock.Unlock()

	r.refs--
	if r.refs <= 0 {
		delete(h.regions, r.name)
	}
}

type heapHandle struct {
	once   sync.Once
	region *heapRegion
}

func (r *heapHandle) Bytes() []byte {
	return r.region.buf
}

func (r *heapHandle) Close() error {
	r.once.Do(func() {
		r.region.heap.release(r.region)
	})
	return nil
}
