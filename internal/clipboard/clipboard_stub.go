//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"context"
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard operations are not supported on this platform")

func WriteImage(image.Image) error { return errUnsupported }

func ReadImage() (image.Image, error) { return nil, errUnsupported }

func WriteText(string) error { return errUnsupported }

func WatchImages(context.Context) (<-chan image.Image, error) { return nil, errUnsupported }
