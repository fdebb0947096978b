package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var srgbFormats = []wgpu.TextureFormat{
	wgpu.TextureFormatBGRA8UnormSrgb,
	wgpu.TextureFormatRGBA8UnormSrgb,
}

// SelectSurfaceFormat picks the first sRGB format the surface supports,
// in the surface's order of preference.
func SelectSurfaceFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, error) {
	for _, f := range formats {
		for _, s := range srgbFormats {
			if f == s {
				return f, nil
			}
		}
	}
	return wgpu.TextureFormatUndefined, fmt.Errorf("%w among %v", ErrUnsupportedFormat, formats)
}
