// Package textures decodes image files into RGBA8 pixels ready for upload
// into a texture array layer.
package textures

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"tiny-engine/core"
)

// Decode reads a PNG, JPEG or TIFF image and converts it to RGBA8 with the
// origin at (0, 0).
func Decode(r io.Reader) (*image.RGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	core.Logger().Debug("image decoded", "format", format, "bounds", img.Bounds())
	return ToRGBA(img), nil
}

// Load reads and decodes the image file at path.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", path, err)
	}
	return img, nil
}

// ToRGBA converts img to RGBA8. An *image.RGBA already at the origin is
// returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Resize scales img to width x height with bilinear filtering, for packing
// images of different sizes into one texture array.
func Resize(img *image.RGBA, width, height int) *image.RGBA {
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FlipVertical returns a copy of img with the rows reversed. GL samples
// row zero as the bottom of the texture.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[(b.Dy()-1-y)*dst.Stride:], img.Pix[off:off+b.Dx()*4])
	}
	return dst
}

// Solid returns a 1x1 image of colour c.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// Checker returns a size x size checkerboard of 8x8 blocks.
func Checker(size int, c1, c2 color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	block := size / 8
	if block < 1 {
		block = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if ((x/block)+(y/block))%2 == 0 {
				img.SetRGBA(x, y, c1)
			} else {
				img.SetRGBA(x, y, c2)
			}
		}
	}
	return img
}

// Cache keeps decoded images by path.
type Cache struct {
	mu     sync.RWMutex
	images map[string]*image.RGBA
}

func NewCache() *Cache {
	return &Cache{images: make(map[string]*image.RGBA)}
}

// Load returns the cached image for path, decoding it on first use.
func (c *Cache) Load(path string) (*image.RGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// GetOrDefault returns the image at path, or a white pixel if path is empty
// or cannot be loaded.
func (c *Cache) GetOrDefault(path string) *image.RGBA {
	if path == "" {
		return Solid(color.RGBA{255, 255, 255, 255})
	}
	img, err := c.Load(path)
	if err != nil {
		core.Logger().Warn("failed to load texture, using white", "path", path, "err", err)
		return Solid(color.RGBA{255, 255, 255, 255})
	}
	return img
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
