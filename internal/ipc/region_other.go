//go:build !unix && !windows

package ipc

func NativeProvider(dir string) (Provider, error) {
	return nil, ErrNoNativeSharedMemory
}
