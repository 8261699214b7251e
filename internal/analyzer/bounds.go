package analyzer

import (
	"image"

	"golang.org/x/image/draw"
)

// ContentBounds is the union of every block d finds, grown by margin and
// clipped to the image. ok is false when nothing was detected.
func ContentBounds(img image.Image, d Detector, margin int) (image.Rectangle, bool, error) {
	blocks, err := d.Detect(img)
	if err != nil {
		return image.Rectangle{}, false, err
	}
	if len(blocks) == 0 {
		return img.Bounds(), false, nil
	}
	r := blocks[0].Rect
	for _, b := range blocks[1:] {
		r = r.Union(b.Rect)
	}
	return r.Inset(-margin).Intersect(img.Bounds()), true, nil
}

// Crop copies r out of img into a new RGBA image with origin (0,0).
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
