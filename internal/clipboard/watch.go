package clipboard

import (
	"bytes"
	"context"
	"image"
	"log"
	"time"
)

// pollInterval is how often a backend without change notification reads
// the clipboard while watching it.
const pollInterval = 500 * time.Millisecond

// pollImages reads the clipboard every interval and delivers each image
// whose encoded bytes differ from the previous read. The data present when
// polling starts is not delivered.
func pollImages(ctx context.Context, interval time.Duration, read func() ([]byte, error)) <-chan image.Image {
	out := make(chan image.Image)
	go func() {
		defer close(out)
		last, _ := read()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			data, err := read()
			if err != nil || len(data) == 0 || bytes.Equal(data, last) {
				continue
			}
			last = data
			img, err := decodePNG(data)
			if err != nil {
				log.Printf("clipboard watch: %v", err)
				continue
			}
			select {
			case out <- img:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
