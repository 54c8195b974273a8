package x11

// Extension internal ids used to key Connection's opcode/event/error maps
// and to select which per-extension tables below apply. Assignment is
// arbitrary; only uniqueness within a connection matters.
const (
	extBigRequests = iota + 1
	extMitShm
	extRender
)

// knownExtensionInfo builds the ExtensionInfo to register for a
// QueryExtension reply naming one of the three extensions this tool
// decodes structurally. Any other name returns nil: the connection still
// remembers nothing about it, and its requests/events/errors fall through
// to the Unknown* paths.
func knownExtensionInfo(name string, majorOpcode, firstEvent, firstError int) *ExtensionInfo {
	var id int
	switch name {
	case "BIG-REQUESTS":
		id = extBigRequests
	case "MIT-SHM":
		id = extMitShm
	case "RENDER":
		id = extRender
	default:
		return nil
	}
	return &ExtensionInfo{Name: name, InternalID: id, MajorBase: majorOpcode, FirstEvent: firstEvent, FirstError: firstError}
}

func extensionEventCount(name string) int {
	switch name {
	case "MIT-SHM":
		return 1
	default:
		return 0
	}
}

func extensionErrorCount(name string) int {
	switch name {
	case "MIT-SHM":
		return 1
	case "RENDER":
		return 5
	default:
		return 0
	}
}

// extRequestInfo is the extension analogue of opcodeInfo: one entry per
// minor opcode within an extension's major opcode.
type extRequestInfo struct {
	Name   string
	Reply  ReplyExpectation
	Decode requestDecodeFunc
}

// extReplyDecodeFunc is the extension analogue of replyDecodeFunc.
type extReplyDecodeFunc func(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader)

var bigRequestsTable = map[int]*extRequestInfo{
	0: {"BigReqEnable", ReplySingle, decodeBigReqEnable},
}

var bigRequestsReplyTable = map[int]extReplyDecodeFunc{
	0: decodeBigReqEnableReply,
}

var mitShmRequestTable = map[int]*extRequestInfo{
	0: {"ShmQueryVersion", ReplySingle, decodeNoArgs},
	1: {"ShmAttach", ReplyNone, decodeShmAttach},
	2: {"ShmDetach", ReplyNone, decodeShmDetach},
	3: {"ShmPutImage", ReplyNone, decodeShmPutImage},
	4: {"ShmGetImage", ReplySingle, decodeShmGetImage},
	5: {"ShmCreatePixmap", ReplyNone, decodeShmCreatePixmap},
}

var mitShmReplyTable = map[int]extReplyDecodeFunc{
	4: decodeShmGetImageReply,
}

var renderRequestTable = map[int]*extRequestInfo{
	0:  {"RenderQueryVersion", ReplySingle, decodeRenderQueryVersion},
	1:  {"RenderQueryPictFormats", ReplySingle, decodeNoArgs},
	4:  {"RenderCreatePicture", ReplyNone, decodeRenderCreatePicture},
	8:  {"RenderComposite", ReplyNone, decodeRenderComposite},
	17: {"RenderCreateGlyphSet", ReplyNone, decodeRenderCreateGlyphSet},
	19: {"RenderReferenceGlyphSet", ReplyNone, decodeRenderReferenceGlyphSet},
	20: {"RenderAddGlyphs", ReplyNone, decodeRenderAddGlyphs},
}

var renderReplyTable = map[int]extReplyDecodeFunc{
	0: decodeRenderQueryVersionReply,
	1: decodeRenderQueryPictFormatsReply,
}

// extensionRequestTable returns the minor-opcode table for a registered
// extension, or nil if this tool does not decode that extension's
// requests structurally.
func extensionRequestTable(ext *ExtensionInfo) map[int]*extRequestInfo {
	switch ext.InternalID {
	case extBigRequests:
		return bigRequestsTable
	case extMitShm:
		return mitShmRequestTable
	case extRender:
		return renderRequestTable
	default:
		return nil
	}
}

// extReplyByName resolves a reply decoder by the matched request's Name
// (as set by RequestName at decode time), sidestepping the need to carry
// the extension/minor-opcode pair forward to reply time.
var extReplyByName = buildExtReplyByName()

func buildExtReplyByName() map[string]extReplyDecodeFunc {
	m := make(map[string]extReplyDecodeFunc)
	for minor, fn := range bigRequestsReplyTable {
		if info, ok := bigRequestsTable[minor]; ok {
			m[info.Name] = fn
		}
	}
	for minor, fn := range mitShmReplyTable {
		if info, ok := mitShmRequestTable[minor]; ok {
			m[info.Name] = fn
		}
	}
	for minor, fn := range renderReplyTable {
		if info, ok := renderRequestTable[minor]; ok {
			m[info.Name] = fn
		}
	}
	return m
}

func decodeNoArgs(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any { return nil }

// --- BIG-REQUESTS ---

func decodeBigReqEnable(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any { return nil }

func decodeBigReqEnableReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	maxLen, _ := r.u32()
	pb.Param("maximum-request-length", TypeDecU, maxLen)
}

// --- MIT-SHM ---

func decodeShmAttach(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	shmseg, _ := r.u32()
	shmid, _ := r.u32()
	readOnly, _ := r.u8()
	pb.Param("shmseg", TypeDecU, shmseg)
	pb.Param("shmid", TypeDecU, shmid)
	pb.Param("read-only", TypeBoolean, readOnly != 0)
	return nil
}

func decodeShmDetach(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	shmseg, _ := r.u32()
	pb.Param("shmseg", TypeDecU, shmseg)
	return nil
}

func decodeShmPutImage(c *Connection, pb *ParamBuilder, r *reader, _ uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	totalWidth, _ := r.u16()
	totalHeight, _ := r.u16()
	srcX, _ := r.u16()
	srcY, _ := r.u16()
	srcWidth, _ := r.u16()
	srcHeight, _ := r.u16()
	dstX, _ := r.i16()
	dstY, _ := r.i16()
	depth, _ := r.u8()
	format, _ := r.u8()
	sendEvent, _ := r.u8()
	r.skip(1)
	shmseg, _ := r.u32()
	offset, _ := r.u32()

	pb.EnumParam("format", uint32(format), []EnumName{{0, "Bitmap"}, {1, "XYPixmap"}, {2, "ZPixmap"}})
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("total-width", TypeDec16, totalWidth)
	pb.Param("total-height", TypeDec16, totalHeight)
	pb.Param("src-x", TypeDec16, srcX)
	pb.Param("src-y", TypeDec16, srcY)
	pb.Param("src-width", TypeDec16, srcWidth)
	pb.Param("src-height", TypeDec16, srcHeight)
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
	pb.Param("depth", TypeDec8, depth)
	pb.Param("send-event", TypeBoolean, sendEvent != 0)
	pb.Param("shmseg", TypeDecU, shmseg)
	pb.Param("offset", TypeDecU, offset)
	return nil
}

func decodeShmGetImage(c *Connection, pb *ParamBuilder, r *reader, _ uint8) any {
	drawable, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	planeMask, _ := r.u32()
	format, _ := r.u8()
	r.skip(3)
	shmseg, _ := r.u32()
	offset, _ := r.u32()

	pb.EnumParam("format", uint32(format), []EnumName{{1, "XYPixmap"}, {2, "ZPixmap"}})
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("plane-mask", TypeHex32, planeMask)
	pb.Param("shmseg", TypeDecU, shmseg)
	pb.Param("offset", TypeDecU, offset)
	return nil
}

func decodeShmGetImageReply(c *Connection, pb *ParamBuilder, req *Request, depth uint8, r *reader) {
	visual, _ := r.u32()
	size, _ := r.u32()
	pb.Param("depth", TypeDec8, depth)
	pb.ParamSentinel("visual", TypeVisualID, visual, []SentinelName{{0, "None"}})
	pb.Param("size", TypeDecU, size)
}

func decodeShmCreatePixmap(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	pid, _ := r.u32()
	drawable, _ := r.u32()
	width, _ := r.u16()
	height, _ := r.u16()
	depth, _ := r.u8()
	r.skip(3)
	shmseg, _ := r.u32()
	offset, _ := r.u32()

	pb.Param("pid", TypePixmap, pid)
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("depth", TypeDec8, depth)
	pb.Param("shmseg", TypeDecU, shmseg)
	pb.Param("offset", TypeDecU, offset)
	return nil
}

// --- RENDER ---

func decodeRenderQueryVersion(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	major, _ := r.u32()
	minor, _ := r.u32()
	pb.Param("client-major-version", TypeDecU, major)
	pb.Param("client-minor-version", TypeDecU, minor)
	return nil
}

func decodeRenderQueryVersionReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	major, _ := r.u32()
	minor, _ := r.u32()
	pb.Param("major-version", TypeDecU, major)
	pb.Param("minor-version", TypeDecU, minor)
}

// decodeRenderQueryPictFormatsReply records every listed PICTFORMAT's
// depth into the connection's resource-depth map (recordPictFormatDepths
// in resourcedepth.go) in addition to rendering the count, matching
// spec.md §3's description of how that map gets populated.
func decodeRenderQueryPictFormatsReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numFormats, _ := r.u32()
	numScreens, _ := r.u32()
	numDepths, _ := r.u32()
	numVisuals, _ := r.u32()
	numSubpixel, _ := r.u32()
	r.skip(4)

	entries := make([]pictFormatEntry, 0, numFormats)
	for i := uint32(0); i < numFormats; i++ {
		id, ok := r.u32()
		if !ok {
			break
		}
		r.skip(1) // type
		depth, _ := r.u8()
		r.skip(2)  // pad
		r.skip(16) // direct-format shifts/masks
		r.skip(4)  // colormap
		entries = append(entries, pictFormatEntry{id: id, depth: depth})
	}
	recordPictFormatDepths(c, entries)

	pb.Param("num-formats", TypeDecU, numFormats)
	pb.Param("num-screens", TypeDecU, numScreens)
	pb.Param("num-depths", TypeDecU, numDepths)
	pb.Param("num-visuals", TypeDecU, numVisuals)
	pb.Param("num-subpixel", TypeDecU, numSubpixel)
}

func decodeRenderCreatePicture(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	pid, _ := r.u32()
	drawable, _ := r.u32()
	format, _ := r.u32()
	mask, _ := r.u32()
	pb.Param("pid", TypePicture, pid)
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("format", TypePictFormat, format)
	decodeValueList(pb, r, mask, renderPictureFields)
	return nil
}

func decodeRenderComposite(c *Connection, pb *ParamBuilder, r *reader, _ uint8) any {
	op, _ := r.u8()
	r.skip(3)
	src, _ := r.u32()
	mask, _ := r.u32()
	dst, _ := r.u32()
	srcX, _ := r.i16()
	srcY, _ := r.i16()
	maskX, _ := r.i16()
	maskY, _ := r.i16()
	dstX, _ := r.i16()
	dstY, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()

	pb.Param("op", TypeDec8, op)
	pb.Param("src", TypePicture, src)
	pb.ParamSentinel("mask", TypePicture, mask, []SentinelName{{0, "None"}})
	pb.Param("dst", TypePicture, dst)
	pb.Param("src-x", TypeDec16, srcX)
	pb.Param("src-y", TypeDec16, srcY)
	pb.Param("mask-x", TypeDec16, maskX)
	pb.Param("mask-y", TypeDec16, maskY)
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	return nil
}

func decodeRenderCreateGlyphSet(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	gsid, _ := r.u32()
	format, _ := r.u32()
	pb.Param("gsid", TypeGlyphSet, gsid)
	pb.Param("format", TypePictFormat, format)
	recordGlyphSetDepth(c, gsid, format)
	return nil
}

func decodeRenderReferenceGlyphSet(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	gsid, _ := r.u32()
	existing, _ := r.u32()
	pb.Param("gsid", TypeGlyphSet, gsid)
	pb.Param("existing", TypeGlyphSet, existing)
	recordGlyphSetDepth(c, gsid, existing)
	return nil
}

func decodeRenderAddGlyphs(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	glyphSet, _ := r.u32()
	numGlyphs, _ := r.u32()
	pb.Param("glyphset", TypeGlyphSet, glyphSet)
	pb.Param("num-glyphs", TypeDecU, numGlyphs)

	depth, _ := c.ResourceDepth(uint32(glyphSet))
	pb.SetBegin("glyphs")
	for i := uint32(0); i < numGlyphs; i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		width, ok := r.u16()
		if !ok {
			break
		}
		height, _ := r.u16()
		r.skip(8) // x/y (signed 16) + x-off/y-off (signed 16)
		glyphID, _ := r.u32()

		elemWidth := elementWidth(bppForDepth(c, depth))
		size := elemWidth * int(width) * int(height)
		glyphBytes, haveBytes := r.bytes(size)
		if haveBytes {
			r.skip(pad4(size) - size)
		}

		pb.SetBegin("")
		pb.Param("width", TypeDec16, width)
		pb.Param("height", TypeDec16, height)
		pb.Param("glyph", TypeDecU, glyphID)
		if haveBytes {
			pb.HexElemParam("data", hexStringType(elemWidth), glyphBytes, elemWidth, c.ImageByteOrder)
		}
		pb.SetEnd()
		if !haveBytes {
			break
		}
	}
	pb.SetEnd()
	return nil
}
