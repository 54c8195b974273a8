package x11

// replyDecodeFunc renders a reply's parameters into pb. r is positioned at
// byte 8 of the reply packet (the first byte after sequence number and
// reply-length word) and covers the fixed 24-byte body plus any trailing
// data. req is the matched outstanding request, carrying whatever payload
// its request decoder stashed.
type replyDecodeFunc func(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader)

// CoreReplyTable is keyed by the matched request's core opcode. Requests
// with ReplyNone never reach here; requests with no entry print only the
// reply body's length (decodeUnknownReply).
var CoreReplyTable = map[int]replyDecodeFunc{
	3:   decodeGetWindowAttributesReply,
	14:  decodeGetGeometryReply,
	15:  decodeQueryTreeReply,
	16:  decodeInternAtomReply,
	17:  decodeGetAtomNameReply,
	20:  decodeGetPropertyReply,
	21:  decodeListPropertiesReply,
	23:  decodeGetSelectionOwnerReply,
	26:  decodeGrabStatusReply,
	31:  decodeGrabStatusReply,
	38:  decodeQueryPointerReply,
	39:  decodeGetMotionEventsReply,
	40:  decodeTranslateCoordinatesReply,
	43:  decodeGetInputFocusReply,
	44:  decodeQueryKeymapReply,
	73:  decodeGetImageReply,
	83:  decodeListInstalledColormapsReply,
	84:  decodeAllocColorReply,
	85:  decodeAllocNamedColorReply,
	86:  decodeAllocColorCellsReply,
	87:  decodeAllocColorPlanesReply,
	91:  decodeQueryColorsReply,
	92:  decodeLookupColorReply,
	97:  decodeQueryBestSizeReply,
	98:  decodeQueryExtensionReply,
	99:  decodeListExtensionsReply,
	101: decodeGetKeyboardMappingReply,
	103: decodeGetKeyboardControlReply,
	106: decodeGetPointerControlReply,
	108: decodeGetScreenSaverReply,
	110: decodeListHostsReply,
	116: decodeSetPointerMappingReply,
	117: decodeGetPointerMappingReply,
	118: decodeSetPointerMappingReply,
	119: decodeGetModifierMappingReply,
}

func decodeGetWindowAttributesReply(c *Connection, pb *ParamBuilder, req *Request, backingStore uint8, r *reader) {
	visual, _ := r.u32()
	class, _ := r.u16()
	bitGravity, _ := r.u8()
	winGravity, _ := r.u8()
	backingPlanes, _ := r.u32()
	backingPixel, _ := r.u32()
	saveUnder, _ := r.u8()
	mapIsInstalled, _ := r.u8()
	mapState, _ := r.u8()
	overrideRedirect, _ := r.u8()
	colormap, _ := r.u32()
	allEventMasks, _ := r.u32()
	yourEventMask, _ := r.u32()
	doNotPropagateMask, _ := r.u16()

	pb.EnumParam("backing-store", uint32(backingStore), []EnumName{{0, "NotUseful"}, {1, "WhenMapped"}, {2, "Always"}})
	pb.Param("visual", TypeVisualID, visual)
	pb.EnumParam("class", uint32(class), []EnumName{{1, "InputOutput"}, {2, "InputOnly"}})
	pb.EnumParam("bit-gravity", uint32(bitGravity), bitGravityTable)
	pb.EnumParam("win-gravity", uint32(winGravity), winGravityTable)
	pb.Param("backing-planes", TypeHex32, backingPlanes)
	pb.Param("backing-pixel", TypeHex32, backingPixel)
	pb.Param("save-under", TypeBoolean, saveUnder != 0)
	pb.Param("map-is-installed", TypeBoolean, mapIsInstalled != 0)
	pb.EnumParam("map-state", uint32(mapState), []EnumName{{0, "Unmapped"}, {1, "Unviewable"}, {2, "Viewable"}})
	pb.Param("override-redirect", TypeBoolean, overrideRedirect != 0)
	pb.ParamSentinel("colormap", TypeColormap, colormap, []SentinelName{{0, "None"}})
	pb.MaskParam("all-event-masks", TypeEventMask, allEventMasks, eventMaskTable)
	pb.MaskParam("your-event-mask", TypeEventMask, yourEventMask, eventMaskTable)
	pb.MaskParam("do-not-propagate-mask", TypeEventMask, uint32(doNotPropagateMask), eventMaskTable)
}

func decodeGetGeometryReply(c *Connection, pb *ParamBuilder, req *Request, depth uint8, r *reader) {
	root, _ := r.u32()
	x, _ := r.i16()
	y, _ := r.i16()
	width, _ := r.u16()
	height, _ := r.u16()
	borderWidth, _ := r.u16()

	pb.Param("depth", TypeDec8, depth)
	pb.Param("root", TypeWindow, root)
	pb.Param("x", TypeDec16, x)
	pb.Param("y", TypeDec16, y)
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
	pb.Param("border-width", TypeDec16, borderWidth)
}

func decodeQueryTreeReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	root, _ := r.u32()
	parent, _ := r.u32()
	numChildren, _ := r.u16()
	r.skip(14)

	pb.Param("root", TypeWindow, root)
	pb.ParamSentinel("parent", TypeWindow, parent, []SentinelName{{0, "None"}})
	pb.SetBegin("children")
	for i := 0; i < int(numChildren); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		w, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeWindow, w)
	}
	pb.SetEnd()
}

func decodeInternAtomReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	atom, _ := r.u32()
	pb.ParamSentinel("atom", TypeAtom, atom, []SentinelName{{0, "None"}})
}

func decodeGetAtomNameReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	nameLen, _ := r.u16()
	r.skip(22)
	name, _ := r.string(int(nameLen))
	pb.Param("name", TypeString, name)
}

func decodeGetPropertyReply(c *Connection, pb *ParamBuilder, req *Request, format uint8, r *reader) {
	typ, _ := r.u32()
	bytesAfter, _ := r.u32()
	valueLen, _ := r.u32()
	r.skip(12)

	elemBytes := int(format) / 8
	if elemBytes == 0 {
		elemBytes = 1
	}
	total := int(valueLen) * elemBytes
	data, _ := r.bytes(total)

	pb.ParamSentinel("type", TypeAtom, typ, []SentinelName{{0, "AnyPropertyType"}})
	pb.Param("format", TypeDec8, format)
	pb.Param("bytes-after", TypeDecU, bytesAfter)
	if format == 8 {
		pb.Param("value", TypeString, string(data))
	} else {
		pb.Param("value", TypeHexString, data)
	}
}

func decodeQueryPointerReply(c *Connection, pb *ParamBuilder, req *Request, sameScreen uint8, r *reader) {
	root, _ := r.u32()
	child, _ := r.u32()
	rootX, _ := r.i16()
	rootY, _ := r.i16()
	winX, _ := r.i16()
	winY, _ := r.i16()
	mask, _ := r.u16()

	pb.Param("same-screen", TypeBoolean, sameScreen != 0)
	pb.Param("root", TypeWindow, root)
	pb.ParamSentinel("child", TypeWindow, child, []SentinelName{{0, "None"}})
	pb.Param("root-x", TypeDec16, rootX)
	pb.Param("root-y", TypeDec16, rootY)
	pb.Param("win-x", TypeDec16, winX)
	pb.Param("win-y", TypeDec16, winY)
	pb.MaskParam("mask", TypeKeyMask, uint32(mask), keyButMaskTable)
}

func decodeTranslateCoordinatesReply(c *Connection, pb *ParamBuilder, req *Request, sameScreen uint8, r *reader) {
	child, _ := r.u32()
	dstX, _ := r.i16()
	dstY, _ := r.i16()

	pb.Param("same-screen", TypeBoolean, sameScreen != 0)
	pb.ParamSentinel("child", TypeWindow, child, []SentinelName{{0, "None"}})
	pb.Param("dst-x", TypeDec16, dstX)
	pb.Param("dst-y", TypeDec16, dstY)
}

func decodeGetImageReply(c *Connection, pb *ParamBuilder, req *Request, depth uint8, r *reader) {
	visual, _ := r.u32()
	r.skip(20)

	pb.Param("depth", TypeDec8, depth)
	pb.ParamSentinel("visual", TypeVisualID, visual, []SentinelName{{0, "None"}})

	size := r.remaining()
	if p, ok := req.Payload.(*getImagePayload); ok {
		size = imageDataSize(c, p.Format, p.Width, p.Height, depth)
		if size > r.remaining() {
			size = r.remaining()
		}
	}
	data, _ := r.bytes(size)
	elemWidth := elementWidth(bppForDepth(c, depth))
	pb.HexElemParam("data", hexStringType(elemWidth), data, elemWidth, c.ImageByteOrder)
}

func decodeAllocColorReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	red, _ := r.u16()
	green, _ := r.u16()
	blue, _ := r.u16()
	r.skip(2)
	pixel, _ := r.u32()

	pb.Param("red", TypeHex16, red)
	pb.Param("green", TypeHex16, green)
	pb.Param("blue", TypeHex16, blue)
	pb.Param("pixel", TypeHex32, pixel)
}

func decodeQueryExtensionReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	present, _ := r.u8()
	majorOpcode, _ := r.u8()
	firstEvent, _ := r.u8()
	firstError, _ := r.u8()

	pb.Param("present", TypeBoolean, present != 0)
	pb.Param("major-opcode", TypeDecU, majorOpcode)
	pb.Param("first-event", TypeDecU, firstEvent)
	pb.Param("first-error", TypeDecU, firstError)

	if present == 0 {
		return
	}
	p, ok := req.Payload.(*queryExtensionPayload)
	if !ok {
		return
	}
	info := knownExtensionInfo(p.Name, int(majorOpcode), int(firstEvent), int(firstError))
	if info != nil {
		c.RegisterExtension(*info, extensionEventCount(p.Name), extensionErrorCount(p.Name))
	}
}

func decodeGetKeyboardMappingReply(c *Connection, pb *ParamBuilder, req *Request, keysymsPerKeycode uint8, r *reader) {
	r.skip(24)
	p, _ := req.Payload.(*getKeyboardMappingPayload)
	count := 0
	if p != nil {
		count = int(p.Count) * int(keysymsPerKeycode)
	} else {
		count = r.remaining() / 4
	}

	pb.Param("keysyms-per-keycode", TypeDec8, keysymsPerKeycode)
	pb.SetBegin("keysyms")
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
}

func decodeListPropertiesReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numAtoms, _ := r.u16()
	r.skip(22)
	pb.SetBegin("atoms")
	for i := 0; i < int(numAtoms); i++ {
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
}

func decodeGetSelectionOwnerReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	owner, _ := r.u32()
	pb.ParamSentinel("owner", TypeWindow, owner, []SentinelName{{0, "None"}})
}

// decodeGrabStatusReply serves both GrabPointer and GrabKeyboard: both
// reply with nothing but a status code in the detail byte.
func decodeGrabStatusReply(c *Connection, pb *ParamBuilder, req *Request, status uint8, r *reader) {
	pb.EnumParam("status", uint32(status), []EnumName{
		{0, "Success"}, {1, "AlreadyGrabbed"}, {2, "InvalidTime"}, {3, "NotViewable"}, {4, "Frozen"},
	})
}

func decodeGetMotionEventsReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numEvents, _ := r.u32()
	r.skip(20)
	pb.SetBegin("events")
	for i := 0; i < int(numEvents); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		t, ok := r.u32()
		if !ok {
			break
		}
		x, _ := r.i16()
		y, _ := r.i16()
		pb.SetBegin("")
		pb.Param("time", TypeDecU, t)
		pb.Param("x", TypeDec16, x)
		pb.Param("y", TypeDec16, y)
		pb.SetEnd()
	}
	pb.SetEnd()
}

func decodeGetInputFocusReply(c *Connection, pb *ParamBuilder, req *Request, revertTo uint8, r *reader) {
	focus, _ := r.u32()
	pb.EnumParam("revert-to", uint32(revertTo), []EnumName{{0, "None"}, {1, "PointerRoot"}, {2, "Parent"}})
	pb.ParamSentinel("focus", TypeWindow, focus, []SentinelName{{0, "None"}, {1, "PointerRoot"}})
}

func decodeQueryKeymapReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	keys, _ := r.bytes(32)
	pb.Param("keys", TypeHexString, keys)
}

func decodeListInstalledColormapsReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numCmaps, _ := r.u16()
	r.skip(22)
	pb.SetBegin("cmaps")
	for i := 0; i < int(numCmaps); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		cm, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeColormap, cm)
	}
	pb.SetEnd()
}

func decodeAllocNamedColorReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	pixel, _ := r.u32()
	exactRed, _ := r.u16()
	exactGreen, _ := r.u16()
	exactBlue, _ := r.u16()
	screenRed, _ := r.u16()
	screenGreen, _ := r.u16()
	screenBlue, _ := r.u16()

	pb.Param("pixel", TypeHex32, pixel)
	pb.Param("exact-red", TypeHex16, exactRed)
	pb.Param("exact-green", TypeHex16, exactGreen)
	pb.Param("exact-blue", TypeHex16, exactBlue)
	pb.Param("screen-red", TypeHex16, screenRed)
	pb.Param("screen-green", TypeHex16, screenGreen)
	pb.Param("screen-blue", TypeHex16, screenBlue)
}

func decodeAllocColorCellsReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numPixels, _ := r.u16()
	numMasks, _ := r.u16()
	r.skip(20)
	pb.SetBegin("pixels")
	for i := 0; i < int(numPixels); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		px, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeHex32, px)
	}
	pb.SetEnd()
	pb.SetBegin("masks")
	for i := 0; i < int(numMasks); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		m, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeHex32, m)
	}
	pb.SetEnd()
}

func decodeAllocColorPlanesReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numPixels, _ := r.u16()
	r.skip(2)
	redMask, _ := r.u32()
	greenMask, _ := r.u32()
	blueMask, _ := r.u32()
	r.skip(8)

	pb.Param("red-mask", TypeHex32, redMask)
	pb.Param("green-mask", TypeHex32, greenMask)
	pb.Param("blue-mask", TypeHex32, blueMask)
	pb.SetBegin("pixels")
	for i := 0; i < int(numPixels); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		px, ok := r.u32()
		if !ok {
			break
		}
		pb.Param("", TypeHex32, px)
	}
	pb.SetEnd()
}

func decodeQueryColorsReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	numColors, _ := r.u16()
	r.skip(22)
	pb.SetBegin("colors")
	for i := 0; i < int(numColors); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		red, ok := r.u16()
		if !ok {
			break
		}
		green, _ := r.u16()
		blue, _ := r.u16()
		r.skip(2)
		pb.SetBegin("")
		pb.Param("red", TypeHex16, red)
		pb.Param("green", TypeHex16, green)
		pb.Param("blue", TypeHex16, blue)
		pb.SetEnd()
	}
	pb.SetEnd()
}

func decodeLookupColorReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	exactRed, _ := r.u16()
	exactGreen, _ := r.u16()
	exactBlue, _ := r.u16()
	screenRed, _ := r.u16()
	screenGreen, _ := r.u16()
	screenBlue, _ := r.u16()

	pb.Param("exact-red", TypeHex16, exactRed)
	pb.Param("exact-green", TypeHex16, exactGreen)
	pb.Param("exact-blue", TypeHex16, exactBlue)
	pb.Param("screen-red", TypeHex16, screenRed)
	pb.Param("screen-green", TypeHex16, screenGreen)
	pb.Param("screen-blue", TypeHex16, screenBlue)
}

func decodeQueryBestSizeReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	width, _ := r.u16()
	height, _ := r.u16()
	pb.Param("width", TypeDec16, width)
	pb.Param("height", TypeDec16, height)
}

func decodeListExtensionsReply(c *Connection, pb *ParamBuilder, req *Request, numNames uint8, r *reader) {
	r.skip(24)
	pb.SetBegin("names")
	for i := 0; i < int(numNames); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		n, ok := r.u8()
		if !ok {
			break
		}
		name, ok := r.string(int(n))
		if !ok {
			break
		}
		r.skip(pad4(int(n)+1) - int(n) - 1)
		pb.Param("", TypeString, name)
	}
	pb.SetEnd()
}

func decodeGetKeyboardControlReply(c *Connection, pb *ParamBuilder, req *Request, globalAutoRepeat uint8, r *reader) {
	ledMask, _ := r.u32()
	keyClickPercent, _ := r.u8()
	bellPercent, _ := r.u8()
	bellPitch, _ := r.u16()
	bellDuration, _ := r.u16()
	r.skip(2)
	autoRepeats, _ := r.bytes(32)

	pb.EnumParam("global-auto-repeat", uint32(globalAutoRepeat), []EnumName{{0, "Off"}, {1, "On"}})
	pb.Param("led-mask", TypeHex32, ledMask)
	pb.Param("key-click-percent", TypeDecU, keyClickPercent)
	pb.Param("bell-percent", TypeDecU, bellPercent)
	pb.Param("bell-pitch", TypeDecU, bellPitch)
	pb.Param("bell-duration", TypeDecU, bellDuration)
	pb.Param("auto-repeats", TypeHexString, autoRepeats)
}

func decodeGetPointerControlReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	accelNum, _ := r.u16()
	accelDenom, _ := r.u16()
	threshold, _ := r.u16()

	pb.Param("acceleration-numerator", TypeDecU, accelNum)
	pb.Param("acceleration-denominator", TypeDecU, accelDenom)
	pb.Param("threshold", TypeDecU, threshold)
}

func decodeGetScreenSaverReply(c *Connection, pb *ParamBuilder, req *Request, detail uint8, r *reader) {
	timeout, _ := r.u16()
	interval, _ := r.u16()
	preferBlanking, _ := r.u8()
	allowExposures, _ := r.u8()

	pb.Param("timeout", TypeDecU, timeout)
	pb.Param("interval", TypeDecU, interval)
	pb.EnumParam("prefer-blanking", uint32(preferBlanking), []EnumName{{0, "No"}, {1, "Yes"}, {2, "Default"}})
	pb.EnumParam("allow-exposures", uint32(allowExposures), []EnumName{{0, "No"}, {1, "Yes"}, {2, "Default"}})
}

func decodeListHostsReply(c *Connection, pb *ParamBuilder, req *Request, mode uint8, r *reader) {
	numHosts, _ := r.u16()
	r.skip(22)
	pb.EnumParam("mode", uint32(mode), []EnumName{{0, "Disabled"}, {1, "Enabled"}})
	pb.SetBegin("hosts")
	for i := 0; i < int(numHosts); i++ {
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		family, ok := r.u8()
		if !ok {
			break
		}
		r.skip(1)
		addrLen, _ := r.u16()
		addr, _ := r.bytes(int(addrLen))
		r.skip(pad4(int(addrLen)) - int(addrLen))
		pb.SetBegin("")
		pb.EnumParam("family", uint32(family), []EnumName{{0, "Internet"}, {1, "DECnet"}, {2, "Chaos"}, {6, "InternetV6"}, {5, "ServerInterpreted"}})
		pb.Param("address", TypeHexString, addr)
		pb.SetEnd()
	}
	pb.SetEnd()
}

// decodeSetPointerMappingReply serves both SetPointerMapping and
// SetModifierMapping: both reply with nothing but a status code.
func decodeSetPointerMappingReply(c *Connection, pb *ParamBuilder, req *Request, status uint8, r *reader) {
	pb.EnumParam("status", uint32(status), []EnumName{{0, "Success"}, {1, "Busy"}, {2, "Failed"}})
}

func decodeGetPointerMappingReply(c *Connection, pb *ParamBuilder, req *Request, mapLength uint8, r *reader) {
	r.skip(24)
	mapping, _ := r.bytes(int(mapLength))
	pb.Param("map", TypeHexString, mapping)
}

func decodeGetModifierMappingReply(c *Connection, pb *ParamBuilder, req *Request, keycodesPerModifier uint8, r *reader) {
	r.skip(24)
	keycodes, _ := r.bytes(int(keycodesPerModifier) * 8)
	pb.Param("keycodes-per-modifier", TypeDec8, keycodesPerModifier)
	pb.Param("keycodes", TypeHexString, keycodes)
}

// decodeUnknownReply renders a reply for which no named decoder exists
// (including replies to extension requests this tool does not model): the
// raw body length, matching spec.md §7 item 6's "no further structured
// decoding" rule for unrecognised packets in general.
func decodeUnknownReply(c *Connection, pb *ParamBuilder, bodyLen int) {
	pb.Param("reply-length", TypeDecU, bodyLen)
}
