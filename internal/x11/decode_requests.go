package x11

// opcodeInfo binds a core or extension opcode to its name, its reply
// expectation, and the function that decodes its request packet. The
// dispatch table is a flat map rather than a switch forest, per
// spec.md's Design Notes §9.
type opcodeInfo struct {
	Name   string
	Reply  ReplyExpectation
	Decode requestDecodeFunc
}

// requestDecodeFunc decodes a request's body (the reader is positioned
// just past the 4-byte header) into the ParamBuilder, returning a payload
// to stash on the Request record if the reply decoder will need request-
// time information (GetKeyboardMapping, GetImage, QueryExtension); nil
// otherwise.
type requestDecodeFunc func(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any

// CoreRequestTable is complete for opcodes 0..127 in the sense described
// by SPEC_FULL.md: every slot not listed here falls through to
// UnknownRequest (see decodeRequestPacket) rather than panicking. Six
// font-metrics opcodes (47-52) are deliberately left unregistered: their
// reply bodies carry variable-length CHARINFO/FONTPROP arrays whose
// structural decode would roughly double this table's size for marginal
// tracing value; see DESIGN.md.
var CoreRequestTable = map[int]*opcodeInfo{
	1:   {"CreateWindow", ReplyNone, decodeCreateWindow},
	2:   {"ChangeWindowAttributes", ReplyNone, decodeChangeWindowAttributes},
	3:   {"GetWindowAttributes", ReplySingle, decodeGetWindowAttributes},
	4:   {"DestroyWindow", ReplyNone, decodeWindowOnly},
	5:   {"DestroySubwindows", ReplyNone, decodeWindowOnly},
	6:   {"ChangeSaveSet", ReplyNone, decodeChangeSaveSet},
	7:   {"ReparentWindow", ReplyNone, decodeReparentWindow},
	8:   {"MapWindow", ReplyNone, decodeWindowOnly},
	9:   {"MapSubwindows", ReplyNone, decodeWindowOnly},
	10:  {"UnmapWindow", ReplyNone, decodeWindowOnly},
	11:  {"UnmapSubwindows", ReplyNone, decodeWindowOnly},
	12:  {"ConfigureWindow", ReplyNone, decodeConfigureWindow},
	13:  {"CirculateWindow", ReplyNone, decodeCirculateWindow},
	14:  {"GetGeometry", ReplySingle, decodeDrawableOnly},
	15:  {"QueryTree", ReplySingle, decodeWindowOnly},
	16:  {"InternAtom", ReplySingle, decodeInternAtom},
	17:  {"GetAtomName", ReplySingle, decodeAtomOnly},
	18:  {"ChangeProperty", ReplyNone, decodeChangeProperty},
	19:  {"DeleteProperty", ReplyNone, decodeDeleteProperty},
	20:  {"GetProperty", ReplySingle, decodeGetProperty},
	21:  {"ListProperties", ReplySingle, decodeWindowOnly},
	22:  {"SetSelectionOwner", ReplyNone, decodeSetSelectionOwner},
	23:  {"GetSelectionOwner", ReplySingle, decodeGetSelectionOwner},
	24:  {"ConvertSelection", ReplyNone, decodeConvertSelection},
	25:  {"SendEvent", ReplyNone, decodeSendEvent},
	26:  {"GrabPointer", ReplySingle, decodeGrabPointer},
	27:  {"UngrabPointer", ReplyNone, decodeTimeOnly},
	28:  {"GrabButton", ReplyNone, decodeGrabButton},
	29:  {"UngrabButton", ReplyNone, decodeUngrabButton},
	30:  {"ChangeActivePointerGrab", ReplyNone, decodeChangeActivePointerGrab},
	31:  {"GrabKeyboard", ReplySingle, decodeGrabKeyboard},
	32:  {"UngrabKeyboard", ReplyNone, decodeTimeOnly},
	33:  {"GrabKey", ReplyNone, decodeGrabKey},
	34:  {"UngrabKey", ReplyNone, decodeUngrabKey},
	35:  {"AllowEvents", ReplyNone, decodeAllowEvents},
	36:  {"GrabServer", ReplyNone, decodeNoArgs},
	37:  {"UngrabServer", ReplyNone, decodeNoArgs},
	38:  {"QueryPointer", ReplySingle, decodeWindowOnly},
	39:  {"GetMotionEvents", ReplySingle, decodeGetMotionEvents},
	40:  {"TranslateCoordinates", ReplySingle, decodeTranslateCoordinates},
	41:  {"WarpPointer", ReplyNone, decodeWarpPointer},
	42:  {"SetInputFocus", ReplyNone, decodeSetInputFocus},
	43:  {"GetInputFocus", ReplySingle, decodeNoArgs},
	44:  {"QueryKeymap", ReplySingle, decodeNoArgs},
	45:  {"OpenFont", ReplyNone, decodeOpenFont},
	46:  {"CloseFont", ReplyNone, decodeFontOnly},
	53:  {"CreatePixmap", ReplyNone, decodeCreatePixmap},
	54:  {"FreePixmap", ReplyNone, decodePixmapOnly},
	55:  {"CreateGC", ReplyNone, decodeCreateGC},
	56:  {"ChangeGC", ReplyNone, decodeChangeGC},
	57:  {"CopyGC", ReplyNone, decodeCopyGC},
	58:  {"SetDashes", ReplyNone, decodeSetDashes},
	59:  {"SetClipRectangles", ReplyNone, decodeSetClipRectangles},
	60:  {"FreeGC", ReplyNone, decodeGCOnly},
	61:  {"ClearArea", ReplyNone, decodeClearArea},
	62:  {"CopyArea", ReplyNone, decodeCopyArea},
	63:  {"CopyPlane", ReplyNone, decodeCopyPlane},
	64:  {"PolyPoint", ReplyNone, decodePolyPoint},
	65:  {"PolyLine", ReplyNone, decodePolyPoint},
	66:  {"PolySegment", ReplyNone, decodePolySegment},
	67:  {"PolyRectangle", ReplyNone, decodePolyRectangle},
	68:  {"PolyArc", ReplyNone, decodePolyArc},
	69:  {"FillPoly", ReplyNone, decodeFillPoly},
	70:  {"PolyFillRectangle", ReplyNone, decodePolyRectangle},
	71:  {"PolyFillArc", ReplyNone, decodePolyArc},
	72:  {"PutImage", ReplyNone, decodePutImage},
	73:  {"GetImage", ReplySingle, decodeGetImage},
	74:  {"PolyText8", ReplyNone, decodePolyText8},
	75:  {"PolyText16", ReplyNone, decodePolyText16},
	76:  {"ImageText8", ReplyNone, decodeImageText8},
	77:  {"ImageText16", ReplyNone, decodeImageText16},
	78:  {"CreateColormap", ReplyNone, decodeCreateColormap},
	79:  {"FreeColormap", ReplyNone, decodeColormapOnly},
	80:  {"CopyColormapAndFree", ReplyNone, decodeCopyColormapAndFree},
	81:  {"InstallColormap", ReplyNone, decodeColormapOnly},
	82:  {"UninstallColormap", ReplyNone, decodeColormapOnly},
	83:  {"ListInstalledColormaps", ReplySingle, decodeDrawableOnly},
	84:  {"AllocColor", ReplySingle, decodeAllocColor},
	85:  {"AllocNamedColor", ReplySingle, decodeAllocNamedColor},
	86:  {"AllocColorCells", ReplySingle, decodeAllocColorCells},
	87:  {"AllocColorPlanes", ReplySingle, decodeAllocColorPlanes},
	88:  {"FreeColors", ReplyNone, decodeFreeColors},
	89:  {"StoreColors", ReplyNone, decodeStoreColors},
	90:  {"StoreNamedColor", ReplyNone, decodeStoreNamedColor},
	91:  {"QueryColors", ReplySingle, decodeQueryColors},
	92:  {"LookupColor", ReplySingle, decodeLookupColor},
	93:  {"CreateCursor", ReplyNone, decodeCreateCursor},
	94:  {"CreateGlyphCursor", ReplyNone, decodeCreateGlyphCursor},
	95:  {"FreeCursor", ReplyNone, decodeCursorOnly},
	96:  {"RecolorCursor", ReplyNone, decodeRecolorCursor},
	97:  {"QueryBestSize", ReplySingle, decodeQueryBestSize},
	98:  {"QueryExtension", ReplySingle, decodeQueryExtension},
	99:  {"ListExtensions", ReplySingle, decodeNoArgs},
	100: {"ChangeKeyboardMapping", ReplyNone, decodeChangeKeyboardMapping},
	101: {"GetKeyboardMapping", ReplySingle, decodeGetKeyboardMapping},
	102: {"ChangeKeyboardControl", ReplyNone, decodeChangeKeyboardControl},
	103: {"GetKeyboardControl", ReplySingle, decodeNoArgs},
	104: {"Bell", ReplyNone, decodeBell},
	105: {"ChangePointerControl", ReplyNone, decodeChangePointerControl},
	106: {"GetPointerControl", ReplySingle, decodeNoArgs},
	107: {"SetScreenSaver", ReplyNone, decodeSetScreenSaver},
	108: {"GetScreenSaver", ReplySingle, decodeNoArgs},
	109: {"ChangeHosts", ReplyNone, decodeChangeHosts},
	110: {"ListHosts", ReplySingle, decodeNoArgs},
	111: {"SetAccessControl", ReplyNone, decodeSetAccessControl},
	112: {"SetCloseDownMode", ReplyNone, decodeSetCloseDownMode},
	113: {"KillClient", ReplyNone, decodeKillClient},
	114: {"RotateProperties", ReplyNone, decodeRotateProperties},
	115: {"ForceScreenSaver", ReplyNone, decodeForceScreenSaver},
	116: {"SetPointerMapping", ReplySingle, decodeSetPointerMapping},
	117: {"GetPointerMapping", ReplySingle, decodeNoArgs},
	118: {"SetModifierMapping", ReplySingle, decodeSetModifierMapping},
	119: {"GetModifierMapping", ReplySingle, decodeNoArgs},
	127: {"NoOperation", ReplyNone, decodeNoOperation},
}

func decodeWindowOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	pb.Param("window", TypeWindow, w)
	return nil
}

func decodeDrawableOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	d, _ := r.u32()
	pb.Param("drawable", TypeDrawable, d)
	return nil
}

func decodeAtomOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	a, _ := r.u32()
	pb.Param("atom", TypeAtom, a)
	return nil
}

func decodePixmapOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	p, _ := r.u32()
	pb.Param("pixmap", TypePixmap, p)
	return nil
}

func decodeGCOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	g, _ := r.u32()
	pb.Param("gc", TypeGContext, g)
	return nil
}

func decodeColormapOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cm, _ := r.u32()
	pb.Param("colormap", TypeColormap, cm)
	return nil
}

func decodeCreateWindow(c *Connection, pb *ParamBuilder, r *reader, depth uint8) any {
	pb.Param("depth", TypeDec8, depth)
	wid, _ := r.u32()
	parent, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	borderWidth, _ := r.u16()
	class, _ := r.u16()
	visual, _ := r.u32()
	mask, _ := r.u32()
	pb.Param("wid", TypeWindow, wid)
	pb.Param("parent", TypeWindow, parent)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("border-width", TypeDec16, borderWidth)
	pb.EnumParam("class", uint32(class), []EnumName{{0, "CopyFromParent"}, {1, "InputOutput"}, {2, "InputOnly"}})
	pb.Param("visual", TypeVisualID, visual)
	decodeValueList(pb, r, mask, createWindowFields)
	return nil
}

func decodeChangeWindowAttributes(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	mask, _ := r.u32()
	pb.Param("window", TypeWindow, w)
	decodeValueList(pb, r, mask, createWindowFields)
	return nil
}

func decodeGetWindowAttributes(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	pb.Param("window", TypeWindow, w)
	return nil
}

func decodeConfigureWindow(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	mask, _ := r.u16()
	r.skip(2)
	pb.Param("window", TypeWindow, w)
	decodeValueList(pb, r, uint32(mask), configureWindowFields)
	return nil
}

func decodeInternAtom(c *Connection, pb *ParamBuilder, r *reader, onlyIfExists uint8) any {
	nameLen, _ := r.u16()
	r.skip(2)
	name, _ := r.string(int(nameLen))
	r.skip(pad4(int(nameLen)) - int(nameLen))
	pb.Param("name", TypeString, name)
	pb.Param("only-if-exists", TypeBoolean, onlyIfExists != 0)
	return name
}

func decodeChangeProperty(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	w, _ := r.u32()
	prop, _ := r.u32()
	typ, _ := r.u32()
	format, _ := r.u8()
	r.skip(3)
	dataLen, _ := r.u32()
	elemBytes := int(format) / 8
	if elemBytes == 0 {
		elemBytes = 1
	}
	total := int(dataLen) * elemBytes
	data, _ := r.bytes(total)
	r.skip(pad4(total) - total)

	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Replace"}, {1, "Prepend"}, {2, "Append"}})
	pb.Param("window", TypeWindow, w)
	pb.Param("property", TypeAtom, prop)
	pb.Param("type", TypeAtom, typ)
	pb.Param("format", TypeDec8, format)
	if format == 8 {
		pb.Param("data", TypeString, string(data))
	} else {
		pb.Param("data", TypeHexString, data)
	}
	return nil
}

func decodeDeleteProperty(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	prop, _ := r.u32()
	pb.Param("window", TypeWindow, w)
	pb.Param("property", TypeAtom, prop)
	return nil
}

func decodeGetProperty(c *Connection, pb *ParamBuilder, r *reader, del uint8) any {
	w, _ := r.u32()
	prop, _ := r.u32()
	typ, _ := r.u32()
	longOffset, _ := r.u32()
	longLength, _ := r.u32()
	pb.Param("delete", TypeBoolean, del != 0)
	pb.Param("window", TypeWindow, w)
	pb.Param("property", TypeAtom, prop)
	pb.ParamSentinel("type", TypeAtom, typ, []SentinelName{{0, "AnyPropertyType"}})
	pb.Param("long-offset", TypeDecU, longOffset)
	pb.Param("long-length", TypeDecU, longLength)
	return nil
}

func decodeCreatePixmap(c *Connection, pb *ParamBuilder, r *reader, depth uint8) any {
	pid, _ := r.u32()
	drawable, _ := r.u32()
	width, _ := r.u16()
	height, _ := r.u16()
	pb.Param("depth", TypeDec8, depth)
	pb.Param("pid", TypePixmap, pid)
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	return nil
}

func decodeCreateGC(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cid, _ := r.u32()
	drawable, _ := r.u32()
	mask, _ := r.u32()
	pb.Param("cid", TypeGContext, cid)
	pb.Param("drawable", TypeDrawable, drawable)
	decodeValueList(pb, r, mask, gcFields)
	return nil
}

func decodeChangeGC(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	gc, _ := r.u32()
	mask, _ := r.u32()
	pb.Param("gc", TypeGContext, gc)
	decodeValueList(pb, r, mask, gcFields)
	return nil
}

func decodeCopyGC(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	src, _ := r.u32()
	dst, _ := r.u32()
	mask, _ := r.u32()
	pb.Param("src-gc", TypeGContext, src)
	pb.Param("dst-gc", TypeGContext, dst)
	pb.Param("value-mask", TypeHex32, mask)
	return nil
}

func decodeClearArea(c *Connection, pb *ParamBuilder, r *reader, exposures uint8) any {
	w, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	pb.Param("exposures", TypeBoolean, exposures != 0)
	pb.Param("window", TypeWindow, w)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	return nil
}

func decodeCopyArea(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	src, _ := r.u32()
	dst, _ := r.u32()
	gc, _ := r.u32()
	srcX, _ := r.i16()
	srcY, _ := r.i16()
	dstX, _ := r.i16()
	dstY, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	pb.Param("src-drawable", TypeDrawable, src)
	pb.Param("dst-drawable", TypeDrawable, dst)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("src-x", TypeDec16, srcX)
	pb.Param("src-y", TypeDec16, srcY)
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	return nil
}

func decodePolyPoint(c *Connection, pb *ParamBuilder, r *reader, coordMode uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	pb.EnumParam("coordinate-mode", uint32(coordMode), []EnumName{{0, "Origin"}, {1, "Previous"}})
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.SetBegin("points")
	for r.remaining() >= 4 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		x, _ := r.i16()
		y, _ := r.i16()
		pb.Param("", TypeRational16, [2]int{int(x), int(y)})
	}
	pb.SetEnd()
	return nil
}

func decodePolyRectangle(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.SetBegin("rectangles")
	for r.remaining() >= 8 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		x, _ := r.i16()
		y, _ := r.i16()
		w, _ := r.u16()
		h, _ := r.u16()
		pb.SetBegin("")
		pb.Param("x", TypeDec16, x)
		pb.Param("y", TypeDec16, y)
		pb.Param("width", TypeDec16, w)
		pb.Param("height", TypeDec16, h)
		pb.SetEnd()
	}
	pb.SetEnd()
	return nil
}

func decodePutImage(c *Connection, pb *ParamBuilder, r *reader, format uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	width, _ := r.u16()
	height, _ := r.u16()
	dstX, _ := r.i16()
	dstY, _ := r.i16()
	leftPad, _ := r.u8()
	depth, _ := r.u8()
	r.skip(2)

	pb.EnumParam("format", uint32(format), []EnumName{{0, "Bitmap"}, {1, "XYPixmap"}, {2, "ZPixmap"}})
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
	pb.Param("left-pad", TypeDec8, leftPad)
	pb.Param("depth", TypeDec8, depth)

	size := imageDataSize(c, ImageFormat(format), int(width), int(height), depth)
	data, _ := r.bytes(size)
	elemWidth := elementWidth(bppForDepth(c, depth))
	pb.HexElemParam("data", hexStringType(elemWidth), data, elemWidth, c.ImageByteOrder)
	return nil
}

func decodeGetImage(c *Connection, pb *ParamBuilder, r *reader, format uint8) any {
	drawable, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	planeMask, _ := r.u32()

	pb.EnumParam("format", uint32(format), []EnumName{{1, "XYPixmap"}, {2, "ZPixmap"}})
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("plane-mask", TypeHex32, planeMask)

	return &getImagePayload{Format: ImageFormat(format), Width: int(width), Height: int(height)}
}

type getImagePayload struct {
	Format ImageFormat
	Width  int
	Height int
}

func decodeCreateColormap(c *Connection, pb *ParamBuilder, r *reader, alloc uint8) any {
	mid, _ := r.u32()
	window, _ := r.u32()
	visual, _ := r.u32()
	pb.Param("alloc", TypeBoolean, alloc != 0)
	pb.Param("mid", TypeColormap, mid)
	pb.Param("window", TypeWindow, window)
	pb.Param("visual", TypeVisualID, visual)
	return nil
}

func decodeAllocColor(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	red, _ := r.u16()
	green, _ := r.u16()
	blue, _ := r.u16()
	r.skip(2)
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("red", TypeHex16, red)
	pb.Param("green", TypeHex16, green)
	pb.Param("blue", TypeHex16, blue)
	return nil
}

func decodeCreateCursor(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cid, _ := r.u32()
	source, _ := r.u32()
	mask, _ := r.u32()
	foreRed, _ := r.u16()
	foreGreen, _ := r.u16()
	foreBlue, _ := r.u16()
	backRed, _ := r.u16()
	backGreen, _ := r.u16()
	backBlue, _ := r.u16()
	x, _ := r.u16()
	y, _ := r.u16()
	pb.Param("cid", TypeCursor, cid)
	pb.Param("source", TypePixmap, source)
	pb.ParamSentinel("mask", TypePixmap, mask, []SentinelName{{0, "None"}})
	pb.Param("fore-red", TypeHex16, foreRed)
	pb.Param("fore-green", TypeHex16, foreGreen)
	pb.Param("fore-blue", TypeHex16, foreBlue)
	pb.Param("back-red", TypeHex16, backRed)
	pb.Param("back-green", TypeHex16, backGreen)
	pb.Param("back-blue", TypeHex16, backBlue)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	return nil
}

func decodeTranslateCoordinates(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	src, _ := r.u32()
	dst, _ := r.u32()
	srcX, _ := r.i16()
	srcY, _ := r.i16()
	pb.Param("src-window", TypeWindow, src)
	pb.Param("dst-window", TypeWindow, dst)
	pb.Param("src-x", TypeDec16, srcX)
	pb.Param("src-y", TypeDec16, srcY)
	return nil
}

type getKeyboardMappingPayload struct {
	FirstKeycode uint8
	Count        uint8
}

func decodeGetKeyboardMapping(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	firstKeycode, _ := r.u8()
	count, _ := r.u8()
	r.skip(2)
	pb.Param("first-keycode", TypeDec8, firstKeycode)
	pb.Param("count", TypeDec8, count)
	return &getKeyboardMappingPayload{FirstKeycode: firstKeycode, Count: count}
}

type queryExtensionPayload struct {
	Name string
}

func decodeQueryExtension(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	nameLen, _ := r.u16()
	r.skip(2)
	name, _ := r.string(int(nameLen))
	r.skip(pad4(int(nameLen)) - int(nameLen))
	pb.Param("name", TypeString, name)
	return &queryExtensionPayload{Name: name}
}

func decodeBell(c *Connection, pb *ParamBuilder, r *reader, percent uint8) any {
	pb.Param("percent", TypeDec8, int8(percent))
	return nil
}

func decodeNoOperation(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	return nil
}

func decodeTimeOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	t, _ := r.u32()
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeFontOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	f, _ := r.u32()
	pb.Param("font", TypeFont, f)
	return nil
}

func decodeCursorOnly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cur, _ := r.u32()
	pb.Param("cursor", TypeCursor, cur)
	return nil
}

func decodeChangeSaveSet(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	w, _ := r.u32()
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Insert"}, {1, "Delete"}})
	pb.Param("window", TypeWindow, w)
	return nil
}

func decodeReparentWindow(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	parent, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	pb.Param("window", TypeWindow, w)
	pb.Param("parent", TypeWindow, parent)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	return nil
}

func decodeCirculateWindow(c *Connection, pb *ParamBuilder, r *reader, direction uint8) any {
	w, _ := r.u32()
	pb.EnumParam("direction", uint32(direction), []EnumName{{0, "RaiseLowest"}, {1, "LowerHighest"}})
	pb.Param("window", TypeWindow, w)
	return nil
}

func decodeSetSelectionOwner(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	owner, _ := r.u32()
	selection, _ := r.u32()
	t, _ := r.u32()
	pb.ParamSentinel("owner", TypeWindow, owner, []SentinelName{{0, "None"}})
	pb.Param("selection", TypeAtom, selection)
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeGetSelectionOwner(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	selection, _ := r.u32()
	pb.Param("selection", TypeAtom, selection)
	return nil
}

func decodeConvertSelection(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	requestor, _ := r.u32()
	selection, _ := r.u32()
	target, _ := r.u32()
	property, _ := r.u32()
	t, _ := r.u32()
	pb.Param("requestor", TypeWindow, requestor)
	pb.Param("selection", TypeAtom, selection)
	pb.Param("target", TypeAtom, target)
	pb.ParamSentinel("property", TypeAtom, property, []SentinelName{{0, "None"}})
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeSendEvent(c *Connection, pb *ParamBuilder, r *reader, propagate uint8) any {
	dst, _ := r.u32()
	eventMask, _ := r.u32()
	event, _ := r.bytes(32)
	pb.Param("propagate", TypeBoolean, propagate != 0)
	pb.ParamSentinel("destination", TypeWindow, dst, []SentinelName{{0, "PointerWindow"}, {1, "InputFocus"}})
	pb.MaskParam("event-mask", TypeEventMask, eventMask, eventMaskTable)
	pb.Param("event", TypeHexString, event)
	return nil
}

func decodeGrabPointer(c *Connection, pb *ParamBuilder, r *reader, ownerEvents uint8) any {
	grabWindow, _ := r.u32()
	eventMask, _ := r.u16()
	pointerMode, _ := r.u8()
	keyboardMode, _ := r.u8()
	confineTo, _ := r.u32()
	cursor, _ := r.u32()
	t, _ := r.u32()
	pb.Param("owner-events", TypeBoolean, ownerEvents != 0)
	pb.Param("grab-window", TypeWindow, grabWindow)
	pb.MaskParam("event-mask", TypeEventMask, uint32(eventMask), eventMaskTable)
	pb.EnumParam("pointer-mode", uint32(pointerMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	pb.EnumParam("keyboard-mode", uint32(keyboardMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	pb.ParamSentinel("confine-to", TypeWindow, confineTo, []SentinelName{{0, "None"}})
	pb.ParamSentinel("cursor", TypeCursor, cursor, []SentinelName{{0, "None"}})
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeGrabButton(c *Connection, pb *ParamBuilder, r *reader, ownerEvents uint8) any {
	grabWindow, _ := r.u32()
	eventMask, _ := r.u16()
	pointerMode, _ := r.u8()
	keyboardMode, _ := r.u8()
	confineTo, _ := r.u32()
	cursor, _ := r.u32()
	button, _ := r.u8()
	r.skip(1)
	modifiers, _ := r.u16()
	pb.Param("owner-events", TypeBoolean, ownerEvents != 0)
	pb.Param("grab-window", TypeWindow, grabWindow)
	pb.MaskParam("event-mask", TypeEventMask, uint32(eventMask), eventMaskTable)
	pb.EnumParam("pointer-mode", uint32(pointerMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	pb.EnumParam("keyboard-mode", uint32(keyboardMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	pb.ParamSentinel("confine-to", TypeWindow, confineTo, []SentinelName{{0, "None"}})
	pb.ParamSentinel("cursor", TypeCursor, cursor, []SentinelName{{0, "None"}})
	pb.ParamSentinel("button", TypeDecU, uint32(button), []SentinelName{{0, "AnyButton"}})
	pb.MaskParam("modifiers", TypeKeyMask, uint32(modifiers), keyButMaskTable)
	return nil
}

func decodeUngrabButton(c *Connection, pb *ParamBuilder, r *reader, button uint8) any {
	grabWindow, _ := r.u32()
	modifiers, _ := r.u16()
	r.skip(2)
	pb.ParamSentinel("button", TypeDecU, uint32(button), []SentinelName{{0, "AnyButton"}})
	pb.Param("grab-window", TypeWindow, grabWindow)
	pb.MaskParam("modifiers", TypeKeyMask, uint32(modifiers), keyButMaskTable)
	return nil
}

func decodeChangeActivePointerGrab(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cursor, _ := r.u32()
	t, _ := r.u32()
	eventMask, _ := r.u16()
	r.skip(2)
	pb.ParamSentinel("cursor", TypeCursor, cursor, []SentinelName{{0, "None"}})
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	pb.MaskParam("event-mask", TypeEventMask, uint32(eventMask), eventMaskTable)
	return nil
}

func decodeGrabKeyboard(c *Connection, pb *ParamBuilder, r *reader, ownerEvents uint8) any {
	grabWindow, _ := r.u32()
	t, _ := r.u32()
	pointerMode, _ := r.u8()
	keyboardMode, _ := r.u8()
	r.skip(2)
	pb.Param("owner-events", TypeBoolean, ownerEvents != 0)
	pb.Param("grab-window", TypeWindow, grabWindow)
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	pb.EnumParam("pointer-mode", uint32(pointerMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	pb.EnumParam("keyboard-mode", uint32(keyboardMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	return nil
}

func decodeGrabKey(c *Connection, pb *ParamBuilder, r *reader, ownerEvents uint8) any {
	grabWindow, _ := r.u32()
	modifiers, _ := r.u16()
	key, _ := r.u8()
	pointerMode, _ := r.u8()
	keyboardMode, _ := r.u8()
	r.skip(3)
	pb.Param("owner-events", TypeBoolean, ownerEvents != 0)
	pb.Param("grab-window", TypeWindow, grabWindow)
	pb.MaskParam("modifiers", TypeKeyMask, uint32(modifiers), keyButMaskTable)
	pb.ParamSentinel("key", TypeDecU, uint32(key), []SentinelName{{0, "AnyKey"}})
	pb.EnumParam("pointer-mode", uint32(pointerMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	pb.EnumParam("keyboard-mode", uint32(keyboardMode), []EnumName{{0, "Synchronous"}, {1, "Asynchronous"}})
	return nil
}

func decodeUngrabKey(c *Connection, pb *ParamBuilder, r *reader, key uint8) any {
	grabWindow, _ := r.u32()
	modifiers, _ := r.u16()
	r.skip(2)
	pb.ParamSentinel("key", TypeDecU, uint32(key), []SentinelName{{0, "AnyKey"}})
	pb.Param("grab-window", TypeWindow, grabWindow)
	pb.MaskParam("modifiers", TypeKeyMask, uint32(modifiers), keyButMaskTable)
	return nil
}

func decodeAllowEvents(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	t, _ := r.u32()
	pb.EnumParam("mode", uint32(mode), []EnumName{
		{0, "AsyncPointer"}, {1, "SyncPointer"}, {2, "ReplayPointer"},
		{3, "AsyncKeyboard"}, {4, "SyncKeyboard"}, {5, "ReplayKeyboard"},
		{6, "AsyncBoth"}, {7, "SyncBoth"},
	})
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeGetMotionEvents(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	start, _ := r.u32()
	stop, _ := r.u32()
	pb.Param("window", TypeWindow, w)
	pb.ParamSentinel("start", TypeDecU, start, []SentinelName{{0, "CurrentTime"}})
	pb.ParamSentinel("stop", TypeDecU, stop, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeWarpPointer(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	srcWindow, _ := r.u32()
	dstWindow, _ := r.u32()
	srcX, _ := r.i16()
	srcY, _ := r.i16()
	srcWidth, _ := r.u16()
	srcHeight, _ := r.u16()
	dstX, _ := r.i16()
	dstY, _ := r.i16()
	pb.ParamSentinel("src-window", TypeWindow, srcWindow, []SentinelName{{0, "None"}})
	pb.ParamSentinel("dst-window", TypeWindow, dstWindow, []SentinelName{{0, "None"}})
	pb.Param("src-x", TypeDec16, srcX)
	pb.Param("src-y", TypeDec16, srcY)
	pb.Param("src-width", TypeDec16, srcWidth)
	pb.Param("src-height", TypeDec16, srcHeight)
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
	return nil
}

func decodeSetInputFocus(c *Connection, pb *ParamBuilder, r *reader, revertTo uint8) any {
	focus, _ := r.u32()
	t, _ := r.u32()
	pb.EnumParam("revert-to", uint32(revertTo), []EnumName{{0, "None"}, {1, "PointerRoot"}, {2, "Parent"}})
	pb.ParamSentinel("focus", TypeWindow, focus, []SentinelName{{0, "None"}, {1, "PointerRoot"}})
	pb.ParamSentinel("time", TypeDecU, t, []SentinelName{{0, "CurrentTime"}})
	return nil
}

func decodeOpenFont(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	fid, _ := r.u32()
	nameLen, _ := r.u16()
	r.skip(2)
	name, _ := r.string(int(nameLen))
	r.skip(pad4(int(nameLen)) - int(nameLen))
	pb.Param("fid", TypeFont, fid)
	pb.Param("name", TypeString, name)
	return nil
}

func decodeSetDashes(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	gc, _ := r.u32()
	dashOffset, _ := r.u16()
	n, _ := r.u16()
	dashes, _ := r.bytes(int(n))
	r.skip(pad4(int(n)) - int(n))
	pb.Param("gc", TypeGContext, gc)
	pb.Param("dash-offset", TypeDec16, dashOffset)
	pb.Param("dashes", TypeHexString, dashes)
	return nil
}

func decodeSetClipRectangles(c *Connection, pb *ParamBuilder, r *reader, ordering uint8) any {
	gc, _ := r.u32()
	clipX, _ := r.i16()
	clipY, _ := r.i16()
	pb.EnumParam("ordering", uint32(ordering), []EnumName{{0, "UnSorted"}, {1, "YSorted"}, {2, "YXSorted"}, {3, "YXBanded"}})
	pb.Param("gc", TypeGContext, gc)
	pb.Param("clip-x-origin", TypeDec16, clipX)
	pb.Param("clip-y-origin", TypeDec16, clipY)
	pb.SetBegin("rectangles")
	for r.remaining() >= 8 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		x, _ := r.i16()
		y, _ := r.i16()
		w, _ := r.u16()
		h, _ := r.u16()
		pb.SetBegin("")
		pb.Param("x", TypeDec16, x)
		pb.Param("y", TypeDec16, y)
		pb.Param("width", TypeDec16, w)
		pb.Param("height", TypeDec16, h)
		pb.SetEnd()
	}
	pb.SetEnd()
	return nil
}

func decodeCopyPlane(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	src, _ := r.u32()
	dst, _ := r.u32()
	gc, _ := r.u32()
	srcX, _ := r.i16()
	srcY, _ := r.i16()
	dstX, _ := r.i16()
	dstY, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	bitPlane, _ := r.u32()
	pb.Param("src-drawable", TypeDrawable, src)
	pb.Param("dst-drawable", TypeDrawable, dst)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("src-x", TypeDec16, srcX)
	pb.Param("src-y", TypeDec16, srcY)
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("bit-plane", TypeHex32, bitPlane)
	return nil
}

func decodePolySegment(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.SetBegin("segments")
	for r.remaining() >= 8 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		x1, _ := r.i16()
		y1, _ := r.i16()
		x2, _ := r.i16()
		y2, _ := r.i16()
		pb.SetBegin("")
		pb.Param("x1", TypeDec16, x1)
		pb.Param("y1", TypeDec16, y1)
		pb.Param("x2", TypeDec16, x2)
		pb.Param("y2", TypeDec16, y2)
		pb.SetEnd()
	}
	pb.SetEnd()
	return nil
}

func decodePolyArc(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.SetBegin("arcs")
	for r.remaining() >= 12 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		x, _ := r.i16()
		y, _ := r.i16()
		w, _ := r.u16()
		h, _ := r.u16()
		a1, _ := r.i16()
		a2, _ := r.i16()
		pb.SetBegin("")
		pb.Param("x", TypeDec16, x)
		pb.Param("y", TypeDec16, y)
		pb.Param("width", TypeDec16, w)
		pb.Param("height", TypeDec16, h)
		pb.Param("angle1", TypeDec16, a1)
		pb.Param("angle2", TypeDec16, a2)
		pb.SetEnd()
	}
	pb.SetEnd()
	return nil
}

func decodeFillPoly(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	shape, _ := r.u8()
	coordMode, _ := r.u8()
	r.skip(2)
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.EnumParam("shape", uint32(shape), []EnumName{{0, "Complex"}, {1, "Nonconvex"}, {2, "Convex"}})
	pb.EnumParam("coordinate-mode", uint32(coordMode), []EnumName{{0, "Origin"}, {1, "Previous"}})
	pb.SetBegin("points")
	for r.remaining() >= 4 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		x, _ := r.i16()
		y, _ := r.i16()
		pb.Param("", TypeRational16, [2]int{int(x), int(y)})
	}
	pb.SetEnd()
	return nil
}

// decodePolyText8/decodePolyText16 render the request's fixed header and
// leave the packed TEXTITEM8/TEXTITEM16 stream (a run-length-tagged
// sequence of font-change and string items) as a single named hex-string:
// splitting it into individual items isn't needed to see what a client
// drew, and the original tracer does the same (xlog_request's "items").
func decodePolyText8(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	items, _ := r.bytes(r.remaining())
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("items", TypeHexString, items)
	return nil
}

func decodePolyText16(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	items, _ := r.bytes(r.remaining())
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("items", TypeHexString, items)
	return nil
}

func decodeImageText8(c *Connection, pb *ParamBuilder, r *reader, n uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	text, _ := r.string(int(n))
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("string", TypeString, text)
	return nil
}

func decodeImageText16(c *Connection, pb *ParamBuilder, r *reader, n uint8) any {
	drawable, _ := r.u32()
	gc, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	data, _ := r.bytes(int(n) * 2)
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("gc", TypeGContext, gc)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.HexElemParam("string", TypeHexString2B, data, 2, BigEndian)
	return nil
}

func decodeCopyColormapAndFree(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	mid, _ := r.u32()
	srcCmap, _ := r.u32()
	pb.Param("mid", TypeColormap, mid)
	pb.Param("src-cmap", TypeColormap, srcCmap)
	return nil
}

func decodeAllocNamedColor(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	nameLen, _ := r.u16()
	r.skip(2)
	name, _ := r.string(int(nameLen))
	r.skip(pad4(int(nameLen)) - int(nameLen))
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("name", TypeString, name)
	return nil
}

func decodeAllocColorCells(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	colors, _ := r.u16()
	planes, _ := r.u16()
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("colors", TypeDecU, colors)
	pb.Param("planes", TypeDecU, planes)
	return nil
}

func decodeAllocColorPlanes(c *Connection, pb *ParamBuilder, r *reader, contiguous uint8) any {
	cmap, _ := r.u32()
	colors, _ := r.u16()
	reds, _ := r.u16()
	greens, _ := r.u16()
	blues, _ := r.u16()
	pb.Param("contiguous", TypeBoolean, contiguous != 0)
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("colors", TypeDecU, colors)
	pb.Param("reds", TypeDecU, reds)
	pb.Param("greens", TypeDecU, greens)
	pb.Param("blues", TypeDecU, blues)
	return nil
}

func decodeFreeColors(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	planeMask, _ := r.u32()
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("plane-mask", TypeHex32, planeMask)
	pb.SetBegin("pixels")
	for r.remaining() >= 4 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		px, _ := r.u32()
		pb.Param("", TypeHex32, px)
	}
	pb.SetEnd()
	return nil
}

func decodeStoreColors(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	pb.Param("colormap", TypeColormap, cmap)
	pb.SetBegin("items")
	for r.remaining() >= 12 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		pixel, _ := r.u32()
		red, _ := r.u16()
		green, _ := r.u16()
		blue, _ := r.u16()
		flags, _ := r.u8()
		r.skip(1)
		pb.SetBegin("")
		pb.Param("pixel", TypeHex32, pixel)
		pb.Param("red", TypeHex16, red)
		pb.Param("green", TypeHex16, green)
		pb.Param("blue", TypeHex16, blue)
		pb.Param("flags", TypeHex8, flags)
		pb.SetEnd()
	}
	pb.SetEnd()
	return nil
}

func decodeStoreNamedColor(c *Connection, pb *ParamBuilder, r *reader, flags uint8) any {
	cmap, _ := r.u32()
	pixel, _ := r.u32()
	nameLen, _ := r.u16()
	r.skip(2)
	name, _ := r.string(int(nameLen))
	r.skip(pad4(int(nameLen)) - int(nameLen))
	pb.Param("flags", TypeHex8, flags)
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("pixel", TypeHex32, pixel)
	pb.Param("name", TypeString, name)
	return nil
}

func decodeQueryColors(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	pb.Param("colormap", TypeColormap, cmap)
	pb.SetBegin("pixels")
	for r.remaining() >= 4 {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		px, _ := r.u32()
		pb.Param("", TypeHex32, px)
	}
	pb.SetEnd()
	return nil
}

func decodeLookupColor(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cmap, _ := r.u32()
	nameLen, _ := r.u16()
	r.skip(2)
	name, _ := r.string(int(nameLen))
	r.skip(pad4(int(nameLen)) - int(nameLen))
	pb.Param("colormap", TypeColormap, cmap)
	pb.Param("name", TypeString, name)
	return nil
}

func decodeCreateGlyphCursor(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cid, _ := r.u32()
	sourceFont, _ := r.u32()
	maskFont, _ := r.u32()
	sourceChar, _ := r.u16()
	maskChar, _ := r.u16()
	foreRed, _ := r.u16()
	foreGreen, _ := r.u16()
	foreBlue, _ := r.u16()
	backRed, _ := r.u16()
	backGreen, _ := r.u16()
	backBlue, _ := r.u16()
	pb.Param("cid", TypeCursor, cid)
	pb.Param("source-font", TypeFont, sourceFont)
	pb.ParamSentinel("mask-font", TypeFont, maskFont, []SentinelName{{0, "None"}})
	pb.Param("source-char", TypeDecU, sourceChar)
	pb.Param("mask-char", TypeDecU, maskChar)
	pb.Param("fore-red", TypeHex16, foreRed)
	pb.Param("fore-green", TypeHex16, foreGreen)
	pb.Param("fore-blue", TypeHex16, foreBlue)
	pb.Param("back-red", TypeHex16, backRed)
	pb.Param("back-green", TypeHex16, backGreen)
	pb.Param("back-blue", TypeHex16, backBlue)
	return nil
}

func decodeRecolorCursor(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	cursor, _ := r.u32()
	foreRed, _ := r.u16()
	foreGreen, _ := r.u16()
	foreBlue, _ := r.u16()
	backRed, _ := r.u16()
	backGreen, _ := r.u16()
	backBlue, _ := r.u16()
	pb.Param("cursor", TypeCursor, cursor)
	pb.Param("fore-red", TypeHex16, foreRed)
	pb.Param("fore-green", TypeHex16, foreGreen)
	pb.Param("fore-blue", TypeHex16, foreBlue)
	pb.Param("back-red", TypeHex16, backRed)
	pb.Param("back-green", TypeHex16, backGreen)
	pb.Param("back-blue", TypeHex16, backBlue)
	return nil
}

func decodeQueryBestSize(c *Connection, pb *ParamBuilder, r *reader, class uint8) any {
	drawable, _ := r.u32()
	width, _ := r.u16()
	height, _ := r.u16()
	pb.EnumParam("class", uint32(class), []EnumName{{0, "Cursor"}, {1, "Tile"}, {2, "Stipple"}})
	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	return nil
}

func decodeChangeKeyboardMapping(c *Connection, pb *ParamBuilder, r *reader, keycodeCount uint8) any {
	firstKeycode, _ := r.u8()
	keysymsPerKeycode, _ := r.u8()
	r.skip(1)
	pb.Param("keycode-count", TypeDec8, keycodeCount)
	pb.Param("first-keycode", TypeDec8, firstKeycode)
	pb.Param("keysyms-per-keycode", TypeDec8, keysymsPerKeycode)
	pb.SetBegin("keysyms")
	count := int(keycodeCount) * int(keysymsPerKeycode)
	for i := 0; i < count; i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		v, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeHex32, v)
	}
	pb.SetEnd()
	return nil
}

func decodeChangeKeyboardControl(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	mask, _ := r.u32()
	decodeValueList(pb, r, mask, keyboardControlFields)
	return nil
}

func decodeChangePointerControl(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	accelNum, _ := r.i16()
	accelDenom, _ := r.i16()
	threshold, _ := r.i16()
	doAccel, _ := r.u8()
	doThreshold, _ := r.u8()
	pb.Param("acceleration-numerator", TypeDec16, accelNum)
	pb.Param("acceleration-denominator", TypeDec16, accelDenom)
	pb.Param("threshold", TypeDec16, threshold)
	pb.Param("do-acceleration", TypeBoolean, doAccel != 0)
	pb.Param("do-threshold", TypeBoolean, doThreshold != 0)
	return nil
}

func decodeSetScreenSaver(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	timeout, _ := r.i16()
	interval, _ := r.i16()
	preferBlanking, _ := r.u8()
	allowExposures, _ := r.u8()
	pb.Param("timeout", TypeDec16, timeout)
	pb.Param("interval", TypeDec16, interval)
	pb.EnumParam("prefer-blanking", uint32(preferBlanking), []EnumName{{0, "No"}, {1, "Yes"}, {2, "Default"}})
	pb.EnumParam("allow-exposures", uint32(allowExposures), []EnumName{{0, "No"}, {1, "Yes"}, {2, "Default"}})
	return nil
}

func decodeChangeHosts(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	family, _ := r.u8()
	r.skip(1)
	addrLen, _ := r.u16()
	addr, _ := r.bytes(int(addrLen))
	r.skip(pad4(int(addrLen)) - int(addrLen))
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Insert"}, {1, "Delete"}})
	pb.EnumParam("family", uint32(family), []EnumName{{0, "Internet"}, {1, "DECnet"}, {2, "Chaos"}, {6, "InternetV6"}, {5, "ServerInterpreted"}})
	pb.Param("address", TypeHexString, addr)
	return nil
}

func decodeSetAccessControl(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Disable"}, {1, "Enable"}})
	return nil
}

func decodeSetCloseDownMode(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Destroy"}, {1, "RetainPermanent"}, {2, "RetainTemporary"}})
	return nil
}

func decodeKillClient(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	resource, _ := r.u32()
	pb.ParamSentinel("resource", TypeHex32, resource, []SentinelName{{0, "AllTemporary"}})
	return nil
}

func decodeRotateProperties(c *Connection, pb *ParamBuilder, r *reader, detail uint8) any {
	w, _ := r.u32()
	numProps, _ := r.u16()
	delta, _ := r.i16()
	pb.Param("window", TypeWindow, w)
	pb.Param("delta", TypeDec16, delta)
	pb.SetBegin("properties")
	for i := 0; i < int(numProps); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		a, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeAtom, a)
	}
	pb.SetEnd()
	return nil
}

func decodeForceScreenSaver(c *Connection, pb *ParamBuilder, r *reader, mode uint8) any {
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Reset"}, {1, "Active"}})
	return nil
}

func decodeSetPointerMapping(c *Connection, pb *ParamBuilder, r *reader, n uint8) any {
	mapping, _ := r.bytes(int(n))
	r.skip(pad4(int(n)) - int(n))
	pb.Param("map", TypeHexString, mapping)
	return nil
}

func decodeSetModifierMapping(c *Connection, pb *ParamBuilder, r *reader, keycodesPerModifier uint8) any {
	keycodes, _ := r.bytes(int(keycodesPerModifier) * 8)
	pb.Param("keycodes-per-modifier", TypeDec8, keycodesPerModifier)
	pb.Param("keycodes", TypeHexString, keycodes)
	return nil
}
