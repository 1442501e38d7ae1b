package reader

import (
	"sort"

	"github.com/tsawler/pdf2md/core"
	"github.com/tsawler/pdf2md/pages"
)

// ImageInfo describes an image XObject referenced by a page. Pixel data
// is never decoded.
type ImageInfo struct {
	Name             string
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
	Filter           string
}

// PageImages lists the image XObjects in the page resources, sorted by
// resource name. Pages that draw only images are usually scans.
func (d *Document) PageImages(p *pages.Page) []ImageInfo {
	xobjects, ok := d.Resolve(p.Resources.Get("XObject")).(core.Dict)
	if !ok {
		return nil
	}

	var images []ImageInfo
	for name, obj := range xobjects {
		stream, ok := d.Resolve(obj).(*core.Stream)
		if !ok {
			continue
		}
		if sub, _ := stream.Dict.GetName("Subtype"); sub != "Image" {
			continue
		}
		if img, ok := d.imageInfo(name, stream.Dict); ok {
			images = append(images, img)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images
}

func (d *Document) imageInfo(name string, dict core.Dict) (ImageInfo, bool) {
	if expanded, err := d.Expand(dict); err == nil {
		dict = expanded.(core.Dict)
	}
	width, wok := dict.GetNumber("Width")
	height, hok := dict.GetNumber("Height")
	if !wok || !hok {
		return ImageInfo{}, false
	}

	img := ImageInfo{
		Name:             name,
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       "DeviceGray",
		BitsPerComponent: 8,
	}
	if mask, _ := dict.GetBool("ImageMask"); mask {
		img.BitsPerComponent = 1
	}
	if bpc, ok := dict.GetNumber("BitsPerComponent"); ok {
		img.BitsPerComponent = int(bpc)
	}
	if cs := dict.Get("ColorSpace"); cs != nil {
		img.ColorSpace = colorSpaceName(cs)
	}
	switch f := dict.Get("Filter").(type) {
	case core.Name:
		img.Filter = string(f)
	case core.Array:
		if n, ok := f.Get(len(f) - 1).(core.Name); ok {
			img.Filter = string(n)
		}
	}
	return img, true
}

// colorSpaceName reduces an expanded colour space to a family name.
// Indexed spaces report their base space.
func colorSpaceName(obj core.Object) string {
	switch v := obj.(type) {
	case core.Name:
		return string(v)
	case core.Array:
		n, ok := v.Get(0).(core.Name)
		if !ok {
			break
		}
		if n == "Indexed" && len(v) > 1 {
			return colorSpaceName(v[1])
		}
		return string(n)
	}
	return "DeviceGray"
}
