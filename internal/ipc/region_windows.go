//go:build windows

package ipc

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// SharedMemory uses a named, pagefile backed file mapping. Windows drops the
// mapping once the last handle to the name closes.
type SharedMemory struct{}

// NativeProvider ignores dir; mapping names are global on Windows.
func NativeProvider(dir string) (Provider, error) {
	return &SharedMemory{}, nil
}

func (s *SharedMemory) Open(name string, size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", size)
	}

	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("invalid region name %q: %w", name, err)
	}

	handle, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, 0, uint32(size), namePtr)
	if handle == 0 {
		return nil, fmt.Errorf("failed creating file mapping %s: %w", name, err)
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("failed mapping view of %s: %w", name, err)
	}

	return &mappedRegion{
		handle: handle,
		addr:   addr,
		data:   unsafe.Slice((*byte)(unsafe.Pointer(addr)), size),
	}, nil
}

func (s *SharedMemory) CrossProcess() bool {
	return true
}

func (s *SharedMemory) String() string {
	return "filemapping"
}

type mappedRegion struct {
	once   sync.Once
	handle windows.Handle
	addr   uintptr
	data   []byte
}

func (r *mappedRegion) Bytes() []byte {
	return r.data
}

func (r *mappedRegion) Close() error {
	var err error
	r.once.Do(func() {
		r.data = nil
		unmapErr := windows.UnmapViewOfFile(r.addr)
		closeErr := windows.CloseHandle(r.handle)
		if unmapErr != nil {
			err = fmt.Errorf("failed unmapping view: %w", unmapErr)
		} else if closeErr != nil {
			err = fmt.Errorf("failed closing mapping handle: %w", closeErr)
		}
	})
	return err
}
