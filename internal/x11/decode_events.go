package x11

// eventDecodeFunc renders an event's parameters into pb. detail is data[1]
// (meaning varies per event: keycode, button, a Notify/Hint enum, or
// unused); r is positioned at byte 4, covering the remaining 28 bytes of
// the fixed 32-byte event packet.
type eventDecodeFunc func(c *Connection, pb *ParamBuilder, detail uint8, r *reader)

// CoreEventTable is indexed by the core event code with the synthetic bit
// (0x80) already stripped.
var CoreEventTable = map[int]struct {
	Name   string
	Decode eventDecodeFunc
}{
	2:  {"KeyPress", decodeInputEvent},
	3:  {"KeyRelease", decodeInputEvent},
	4:  {"ButtonPress", decodeInputEvent},
	5:  {"ButtonRelease", decodeInputEvent},
	6:  {"MotionNotify", decodeInputEvent},
	7:  {"EnterNotify", decodeCrossingEvent},
	8:  {"LeaveNotify", decodeCrossingEvent},
	9:  {"FocusIn", decodeFocusEvent},
	10: {"FocusOut", decodeFocusEvent},
	11: {"KeymapNotify", decodeKeymapNotify},
	12: {"Expose", decodeExpose},
	17: {"DestroyNotify", decodeDestroyNotify},
	18: {"UnmapNotify", decodeUnmapNotify},
	19: {"MapNotify", decodeMapNotify},
	22: {"ConfigureNotify", decodeConfigureNotify},
	28: {"PropertyNotify", decodePropertyNotify},
	33: {"ClientMessage", decodeClientMessage},
	34: {"MappingNotify", decodeMappingNotify},
}

func decodeInputEvent(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	t, _ := r.u32()
	root, _ := r.u32()
	event, _ := r.u32()
	child, _ := r.u32()
	rootX, _ := r.i16()
	rootY, _ := r.i16()
	eventX, _ := r.i16()
	eventY, _ := r.i16()
	state, _ := r.u16()
	sameScreen, _ := r.u8()

	pb.Param("detail", TypeDecU, detail)
	pb.Param("time", TypeDecU, t)
	pb.Param("root", TypeWindow, root)
	pb.Param("event", TypeWindow, event)
	pb.ParamSentinel("child", TypeWindow, child, []SentinelName{{0, "None"}})
	pb.Param("root-x", TypeDec16, rootX)
	pb.Param("root-y", TypeDec16, rootY)
	pb.Param("event-x", TypeDec16, eventX)
	pb.Param("event-y", TypeDec16, eventY)
	pb.MaskParam("state", TypeKeyMask, uint32(state), keyButMaskTable)
	pb.Param("same-screen", TypeBoolean, sameScreen != 0)
}

func decodeCrossingEvent(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	t, _ := r.u32()
	root, _ := r.u32()
	event, _ := r.u32()
	child, _ := r.u32()
	rootX, _ := r.i16()
	rootY, _ := r.i16()
	eventX, _ := r.i16()
	eventY, _ := r.i16()
	state, _ := r.u16()
	mode, _ := r.u8()
	flags, _ := r.u8()

	pb.EnumParam("detail", uint32(detail), []EnumName{{0, "Ancestor"}, {1, "Virtual"}, {2, "Inferior"}, {3, "Nonlinear"}, {4, "NonlinearVirtual"}})
	pb.Param("time", TypeDecU, t)
	pb.Param("root", TypeWindow, root)
	pb.Param("event", TypeWindow, event)
	pb.ParamSentinel("child", TypeWindow, child, []SentinelName{{0, "None"}})
	pb.Param("root-x", TypeDec16, rootX)
	pb.Param("root-y", TypeDec16, rootY)
	pb.Param("event-x", TypeDec16, eventX)
	pb.Param("event-y", TypeDec16, eventY)
	pb.MaskParam("state", TypeKeyMask, uint32(state), keyButMaskTable)
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Normal"}, {1, "Grab"}, {2, "Ungrab"}})
	pb.Param("focus", TypeBoolean, flags&1 != 0)
	pb.Param("same-screen", TypeBoolean, flags&2 != 0)
}

func decodeFocusEvent(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	window, _ := r.u32()
	mode, _ := r.u8()

	pb.EnumParam("detail", uint32(detail), []EnumName{{0, "Ancestor"}, {1, "Virtual"}, {2, "Inferior"}, {3, "Nonlinear"}, {4, "NonlinearVirtual"}, {5, "Pointer"}, {6, "PointerRoot"}, {7, "None"}})
	pb.Param("window", TypeWindow, window)
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Normal"}, {1, "Grab"}, {2, "Ungrab"}, {3, "WhileGrabbed"}})
}

func decodeKeymapNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	keys, _ := r.bytes(31)
	pb.Param("keys", TypeHexString, keys)
}

func decodeExpose(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	window, _ := r.u32()
	x, _ := r.u16()
	y, _ := r.u16()
	width, _ := r.u16()
	height, _ := r.u16()
	count, _ := r.u16()

	pb.Param("window", TypeWindow, window)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("count", TypeDecU, count)
}

func decodeDestroyNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	event, _ := r.u32()
	window, _ := r.u32()
	pb.Param("event", TypeWindow, event)
	pb.Param("window", TypeWindow, window)
}

func decodeUnmapNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	event, _ := r.u32()
	window, _ := r.u32()
	fromConfigure, _ := r.u8()
	pb.Param("event", TypeWindow, event)
	pb.Param("window", TypeWindow, window)
	pb.Param("from-configure", TypeBoolean, fromConfigure != 0)
}

func decodeMapNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	event, _ := r.u32()
	window, _ := r.u32()
	overrideRedirect, _ := r.u8()
	pb.Param("event", TypeWindow, event)
	pb.Param("window", TypeWindow, window)
	pb.Param("override-redirect", TypeBoolean, overrideRedirect != 0)
}

func decodeConfigureNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	event, _ := r.u32()
	window, _ := r.u32()
	aboveSibling, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	borderWidth, _ := r.u16()
	overrideRedirect, _ := r.u8()

	pb.Param("event", TypeWindow, event)
	pb.Param("window", TypeWindow, window)
	pb.ParamSentinel("above-sibling", TypeWindow, aboveSibling, []SentinelName{{0, "None"}})
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("border-width", TypeDec16, borderWidth)
	pb.Param("override-redirect", TypeBoolean, overrideRedirect != 0)
}

func decodePropertyNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	window, _ := r.u32()
	atom, _ := r.u32()
	t, _ := r.u32()
	state, _ := r.u8()

	pb.Param("window", TypeWindow, window)
	pb.Param("atom", TypeAtom, atom)
	pb.Param("time", TypeDecU, t)
	pb.EnumParam("state", uint32(state), []EnumName{{0, "NewValue"}, {1, "Deleted"}})
}

func decodeClientMessage(c *Connection, pb *ParamBuilder, format uint8, r *reader) {
	window, _ := r.u32()
	typ, _ := r.u32()
	data, _ := r.bytes(20)

	pb.Param("format", TypeDec8, format)
	pb.Param("window", TypeWindow, window)
	pb.Param("type", TypeAtom, typ)
	pb.Param("data", TypeHexString, data)
}

func decodeMappingNotify(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	request, _ := r.u8()
	firstKeycode, _ := r.u8()
	count, _ := r.u8()

	pb.EnumParam("request", uint32(request), []EnumName{{0, "Modifier"}, {1, "Keyboard"}, {2, "Pointer"}})
	pb.Param("first-keycode", TypeDec8, firstKeycode)
	pb.Param("count", TypeDec8, count)
}

// shmEventTable holds the single event MIT-SHM defines, keyed relative to
// the extension's first-event allocation.
var shmEventTable = map[int]struct {
	Name   string
	Decode eventDecodeFunc
}{
	0: {"ShmCompletion", decodeShmCompletion},
}

func decodeShmCompletion(c *Connection, pb *ParamBuilder, detail uint8, r *reader) {
	drawable, _ := r.u32()
	minorEvent, _ := r.u16()
	majorEvent, _ := r.u8()
	r.skip(1)
	shmseg, _ := r.u32()
	offset, _ := r.u32()

	pb.Param("drawable", TypeDrawable, drawable)
	pb.Param("minor-event", TypeDecU, minorEvent)
	pb.Param("major-event", TypeDecU, majorEvent)
	pb.Param("shmseg", TypeDecU, shmseg)
	pb.Param("offset", TypeDecU, offset)
}
