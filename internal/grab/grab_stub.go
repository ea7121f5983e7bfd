//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package grab

import "image"

type unsupportedBackend struct{}

func newBackend() platformBackend {
	return unsupportedBackend{}
}

func (unsupportedBackend) Monitors() ([]Monitor, error) { return nil, ErrUnsupported }

func (unsupportedBackend) Root() (*image.RGBA, error) { return nil, ErrUnsupported }
