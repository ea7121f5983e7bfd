package grab

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// zPixmapToRGBA converts a ZPixmap GetImage reply of a 24 or 32 bit visual.
// Pixels are read as B, G, R in the server's byte order; the padding byte is
// ignored and the result is opaque.
func zPixmapToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty geometry %dx%d", width, height)
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	bitsPerPixel := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bitsPerPixel = int(format.BitsPerPixel)
			break
		}
	}
	if bitsPerPixel == 0 {
		return nil, fmt.Errorf("unsupported depth %d", reply.Depth)
	}
	bytesPerPixel := bitsPerPixel / 8
	if bytesPerPixel < 3 {
		return nil, fmt.Errorf("unsupported pixel format %d bpp", bitsPerPixel)
	}

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) || stride < width*bytesPerPixel {
		return nil, fmt.Errorf("unexpected stride for %d bytes of %dx%d", len(reply.Data), width, height)
	}
	// MSB-first servers store a 32 bit pixel as pad, R, G, B.
	ro, gro, bo := 2, 1, 0
	if setup.ImageByteOrder == xproto.ImageOrderMSBFirst {
		ro, gro, bo = bytesPerPixel-3, bytesPerPixel-2, bytesPerPixel-1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			px := row[x*bytesPerPixel : (x+1)*bytesPerPixel]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = px[ro]
			img.Pix[i+1] = px[gro]
			img.Pix[i+2] = px[bo]
			img.Pix[i+3] = 0xff
		}
	}
	return img, nil
}
