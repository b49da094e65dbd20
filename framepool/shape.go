package framepool

// Shape identifies the pixel layout of a pooled frame buffer. The numeric
// values are part of the wire format and must not be reordered.
type Shape int32

// Shape constants for supported pixel layouts
const (
	// ShapeUnknown is the zero value and never valid on the wire
	ShapeUnknown Shape = iota
	// ShapeGray8 is 8-bit single-channel grayscale
	ShapeGray8
	// ShapeGray16 is 16-bit single-channel grayscale
	ShapeGray16
	// ShapeDepth16 is 16-bit depth in millimeters
	ShapeDepth16
	// ShapeBGR24 is 8-bit three-channel blue-green-red
	ShapeBGR24
	// ShapeBGRA32 is 8-bit four-channel blue-green-red-alpha
	ShapeBGRA32
	// ShapeRGB24 is 8-bit three-channel red-green-blue
	ShapeRGB24
	// ShapeNV12 is 4:2:0 luma plane followed by interleaved chroma
	ShapeNV12
)

// String returns a human-readable representation of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeGray8:
		return "Gray8"
	case ShapeGray16:
		return "Gray16"
	case ShapeDepth16:
		return "Depth16"
	case ShapeBGR24:
		return "BGR24"
	case ShapeBGRA32:
		return "BGRA32"
	case ShapeRGB24:
		return "RGB24"
	case ShapeNV12:
		return "NV12"
	default:
		return "Unknown"
	}
}

// Valid reports whether the shape is one of the defined pixel layouts.
func (s Shape) Valid() bool {
	return s > ShapeUnknown && s <= ShapeNV12
}

// SizeOf returns the byte length of a frame with the given dimensions, or
// -1 if the shape is unknown or the dimensions are not representable.
func (s Shape) SizeOf(width, height int32) int {
	if width <= 0 || height <= 0 {
		return -1
	}
	pixels := int64(width) * int64(height)
	var size int64
	switch s {
	case ShapeGray8:
		size = pixels
	case ShapeGray16, ShapeDepth16:
		size = pixels * 2
	case ShapeBGR24, ShapeRGB24:
		size = pixels * 3
	case ShapeBGRA32:
		size = pixels * 4
	case ShapeNV12:
		// Full-resolution luma plane plus half-resolution chroma plane
		if width%2 != 0 || height%2 != 0 {
			return -1
		}
		size = pixels + pixels/2
	default:
		return -1
	}
	if size > int64(int(^uint(0)>>1)) {
		return -1
	}
	return int(size)
}
