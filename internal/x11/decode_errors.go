package x11

// errorInfo names one error code and how to render its 4-byte value field
// (the "bad resource id" / "bad value", depending on the error).
type errorInfo struct {
	Name   string
	Render func(pb *ParamBuilder, value uint32)
}

func renderResourceErr(tc TypeCode) func(pb *ParamBuilder, value uint32) {
	return func(pb *ParamBuilder, value uint32) {
		pb.Param("bad-resource-id", tc, value)
	}
}

func renderValueErr(pb *ParamBuilder, value uint32) {
	pb.Param("bad-value", TypeHex32, value)
}

func renderUnusedErr(pb *ParamBuilder, value uint32) {}

// CoreErrorTable is indexed by the core error code (1..17).
var CoreErrorTable = map[int]errorInfo{
	1:  {"Request", renderUnusedErr},
	2:  {"Value", renderValueErr},
	3:  {"Window", renderResourceErr(TypeWindow)},
	4:  {"Pixmap", renderResourceErr(TypePixmap)},
	5:  {"Atom", renderResourceErr(TypeAtom)},
	6:  {"Cursor", renderResourceErr(TypeCursor)},
	7:  {"Font", renderResourceErr(TypeFont)},
	8:  {"Match", renderUnusedErr},
	9:  {"Drawable", renderResourceErr(TypeDrawable)},
	10: {"Access", renderUnusedErr},
	11: {"Alloc", renderUnusedErr},
	12: {"Colormap", renderResourceErr(TypeColormap)},
	13: {"GContext", renderResourceErr(TypeGContext)},
	14: {"IDChoice", renderResourceErr(TypeDecU)},
	15: {"Name", renderUnusedErr},
	16: {"Length", renderUnusedErr},
	17: {"Implementation", renderUnusedErr},
}

// mitShmErrorTable and renderErrorTable hold the sub-codes of the two
// extensions this tool decodes structurally; both are keyed relative to
// the extension's first-error allocation (see ExtensionForError).
var mitShmErrorTable = map[int]errorInfo{
	0: {"ShmSeg", renderResourceErr(TypeDecU)},
}

var renderErrorTable = map[int]errorInfo{
	0: {"PictFormat", renderResourceErr(TypePictFormat)},
	1: {"Picture", renderResourceErr(TypePicture)},
	2: {"PictOp", renderValueErr},
	3: {"GlyphSet", renderResourceErr(TypeGlyphSet)},
	4: {"Glyph", renderResourceErr(TypeGlyphable)},
}

// decodeError renders a 32-byte error packet: data[1] is the error code,
// data[4:8] the bad-value/bad-resource field, data[8:10] the minor opcode,
// data[10] the major opcode. Extension errors are resolved through the
// connection's error map; an unresolved code (core or extension) falls
// through to a bare numeric rendering per spec.md §7 item 6.
//
// lookupErrorInfo and renderError are split so the caller can learn the
// error's name (to open the formatter line) before rendering its fields,
// matching the same two-phase dispatch used for requests and events.
func lookupErrorInfo(c *Connection, code int) (name string, info errorInfo, ok bool) {
	if code >= 128 {
		if ext, sub := c.ExtensionForError(code); ext != nil {
			switch ext.Name {
			case "MIT-SHM":
				info, ok = mitShmErrorTable[sub]
			case "RENDER":
				info, ok = renderErrorTable[sub]
			}
			if ok {
				return ext.Name + info.Name, info, true
			}
		}
		return "UnknownError", info, false
	}
	info, ok = CoreErrorTable[code]
	if ok {
		return "Bad" + info.Name, info, true
	}
	return "UnknownError", info, false
}

func renderError(pb *ParamBuilder, code int, majorOpcode uint8, minorOpcode uint16, value uint32, info errorInfo, ok bool) {
	pb.Param("major-opcode", TypeDecU, majorOpcode)
	pb.Param("minor-opcode", TypeDecU, minorOpcode)
	if ok {
		info.Render(pb, value)
	} else {
		pb.Param("code", TypeDecU, code)
		pb.Param("value", TypeHex32, value)
	}
}
