//go:build unix

package ipc

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const shmDir = "/dev/shm"

// SharedMemory maps a named file MAP_SHARED. On Linux the file lives in
// /dev/shm so the pages never touch disk; elsewhere it falls back to the
// temp dir, which still gives every process the same pages.
type SharedMemory struct {
	Dir string
}

// NativeProvider backs regions with files in dir, or the default
// location when dir is empty.
func NativeProvider(dir string) (Provider, error) {
	return &SharedMemory{Dir: dir}, nil
}

func (s *SharedMemory) dir() string {
	if s.Dir != "" {
		return s.Dir
	}
	if info, err := os.Stat(shmDir); err == nil && info.IsDir() {
		return shmDir
	}
	return os.TempDir()
}

// Path is where the backing file for name lives.
func (s *SharedMemory) Path(name string) string {
	return filepath.Join(s.dir(), name)
}

func (s *SharedMemory) Open(name string, size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid region size %d", size)
	}

	path := s.Path(name)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed opening %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed stating %s: %w", path, err)
	}

	// Only a fresh file is sized. Shrinking a file a peer still maps
	// would fault that peer on its next access.
	switch info.Size() {
	case int64(size):
	case 0:
		err = file.Truncate(int64(size))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed sizing %s to %d bytes: %w", path, size, err)
		}
	default:
		file.Close()
		return nil, fmt.Errorf("region %s is %d bytes, requested %d: %w", path, info.Size(), size, ErrRegionSizeMismatch)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed mapping %s: %w", path, err)
	}

	return &mappedRegion{
		file: file,
		data: data,
	}, nil
}

func (s *SharedMemory) CrossProcess() bool {
	return true
}

func (s *SharedMemory) String() string {
	return "shm:" + s.dir()
}

// The backing file is left in place on Close; a peer may still have it
// mapped, and the next Open reuses it.
type mappedRegion struct {
	once sync.Once
	file *os.File
	data []byte
}

func (r *mappedRegion) Bytes() []byte {
	return r.data
}

func (r *mappedRegion) Close() error {
	var err error
	r.once.Do(func() {
		unmapErr := unix.Munmap(r.data)
		closeErr := r.file.Close()
		r.data = nil
		if unmapErr != nil {
			err = fmt.Errorf("failed unmapping region: %w", unmapErr)
		} else if closeErr != nil {
			err = fmt.Errorf("failed closing region file: %w", closeErr)
		}
	})
	return err
}
