package x11

// ImageFormat mirrors the X11 core ImageFormat enumeration used by
// PutImage/GetImage: Bitmap is a single-plane XY bitmap, XYPixmap is a
// multi-plane XY format, ZPixmap is packed pixels.
type ImageFormat int

const (
	ImageFormatBitmap ImageFormat = iota
	ImageFormatXYPixmap
	ImageFormatZPixmap
)

// elementWidth returns the hex-string element width (in bytes) used to
// render raw image bytes: bits-per-pixel rounded up to the next power of
// two, per spec.md §4.3's PutImage/RenderAddGlyphs rule, expressed in
// bytes rather than bits.
func elementWidth(bitsPerPixel uint8) int {
	bits := int(bitsPerPixel)
	w := 1
	for w*8 < bits {
		w *= 2
	}
	return w
}

// bppForDepth looks up the bits-per-pixel the connection's setup reply
// advertised for depth, defaulting to 32 when the depth was never seen in
// the pixmap-format list (matches imageDataSize's ZPixmap default).
func bppForDepth(c *Connection, depth uint8) uint8 {
	if pf, ok := c.PixmapFormatForDepth(depth); ok {
		return pf.BitsPerPixel
	}
	return 32
}

// hexStringType picks the HEXSTRING variant matching an image element
// width in bytes. elementWidth only ever returns 1, 2, or 4, so the
// 3-byte case spec.md's general hex-string taxonomy allows for never
// arises for image payloads.
func hexStringType(width int) TypeCode {
	switch width {
	case 2:
		return TypeHexString2
	case 4:
		return TypeHexString4
	default:
		return TypeHexString
	}
}

// imageDataSize computes the byte length of a PutImage/GetImage image
// payload. For ZPixmap, it uses the pixmap-format table's
// (bits-per-pixel, scanline-pad) for the given depth; for Bitmap/XYPixmap
// it uses the connection's bitmap scanline pad and depth copies of
// each plane (left-pad is ignored: it affects alignment within a
// scanline, not the scanline's padded byte length).
func imageDataSize(c *Connection, format ImageFormat, width, height int, depth uint8) int {
	rowBytes := func(bitsPerLine, pad int) int {
		unit := pad
		if unit <= 0 {
			unit = 8
		}
		words := (bitsPerLine + unit - 1) / unit
		return words * (unit / 8)
	}

	switch format {
	case ImageFormatZPixmap:
		pf, ok := c.PixmapFormatForDepth(depth)
		bpp := 32
		pad := 32
		if ok {
			bpp = int(pf.BitsPerPixel)
			pad = int(pf.ScanlinePad)
		}
		return rowBytes(width*bpp, pad) * height
	default: // Bitmap, XYPixmap
		pad := int(c.BitmapScanlinePad)
		planes := 1
		if format == ImageFormatXYPixmap {
			planes = int(depth)
		}
		return rowBytes(width, pad) * height * planes
	}
}
