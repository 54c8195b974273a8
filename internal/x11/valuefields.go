package x11

// valueField names one bit of a CreateWindow/ChangeWindowAttributes/
// ConfigureWindow/CreateGC/ChangeGC/RenderCreatePicture value-list and how
// to render the 4-byte value that bit contributes when set, matching the
// original uxxtrace.c's per-attribute attr_* tables rather than dumping
// the list positionally.
type valueField struct {
	Name   string
	Render func(pb *ParamBuilder, name string, raw uint32)
}

func vHex32(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, TypeHex32, raw) }

func vDecU16(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, TypeDec16, uint16(raw)) }

func vDecS16(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, TypeDec16, int16(uint16(raw))) }

func vDecU8(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, TypeDec8, uint8(raw)) }

func vDecS8(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, TypeDec8, int8(uint8(raw))) }

func vBool(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, TypeBoolean, raw != 0) }

func vEnum(table []EnumName) func(pb *ParamBuilder, name string, raw uint32) {
	return func(pb *ParamBuilder, name string, raw uint32) { pb.EnumParam(name, raw, table) }
}

func vMask(tc TypeCode, table []BitName) func(pb *ParamBuilder, name string, raw uint32) {
	return func(pb *ParamBuilder, name string, raw uint32) { pb.MaskParam(name, tc, raw, table) }
}

func vResource(tc TypeCode) func(pb *ParamBuilder, name string, raw uint32) {
	return func(pb *ParamBuilder, name string, raw uint32) { pb.Param(name, tc, raw) }
}

func vResourceNone(tc TypeCode) func(pb *ParamBuilder, name string, raw uint32) {
	return func(pb *ParamBuilder, name string, raw uint32) {
		pb.ParamSentinel(name, tc, raw, []SentinelName{{0, "None"}})
	}
}

func vResourceCopyFromParent(tc TypeCode) func(pb *ParamBuilder, name string, raw uint32) {
	return func(pb *ParamBuilder, name string, raw uint32) {
		pb.ParamSentinel(name, tc, raw, []SentinelName{{0, "CopyFromParent"}})
	}
}

// decodeValueList renders a CreateWindow/ChangeWindowAttributes/
// ConfigureWindow/CreateGC/ChangeGC/RenderCreatePicture-style trailing
// (mask, value...) tail: the mask itself as a GENMASK naming every field
// the caller's table covers, then each set bit's 4-byte value rendered by
// that field's own type, in bit order.
func decodeValueList(pb *ParamBuilder, r *reader, mask uint32, fields []valueField) {
	pb.MaskParam("value-mask", TypeGenMask, mask, genMaskTable(fields))
	pb.SetBegin("values")
	for bit := 0; bit < len(fields); bit++ {
		if mask&(1<<uint(bit)) == 0 {
			continue
		}
		if pb.LimitHit() {
			pb.Overflow()
			break
		}
		v, ok := r.u32()
		if !ok {
			break
		}
		f := fields[bit]
		render := f.Render
		if render == nil {
			render = vHex32
		}
		render(pb, f.Name, v)
	}
	pb.SetEnd()
}

func genMaskTable(fields []valueField) []BitName {
	table := make([]BitName, 0, len(fields))
	for bit, f := range fields {
		if f.Name == "" {
			continue
		}
		table = append(table, BitName{Bit: 1 << uint(bit), Name: f.Name})
	}
	return table
}

// createWindowFields is the 15-bit CreateWindow/ChangeWindowAttributes
// value-mask, per the original's attr_cw_table.
var createWindowFields = []valueField{
	{"background-pixmap", vResourceCopyFromParent(TypePixmap)},
	{"background-pixel", vHex32},
	{"border-pixmap", vResourceCopyFromParent(TypePixmap)},
	{"border-pixel", vHex32},
	{"bit-gravity", vEnum(bitGravityTable)},
	{"win-gravity", vEnum(winGravityTable)},
	{"backing-store", vEnum([]EnumName{{0, "NotUseful"}, {1, "WhenMapped"}, {2, "Always"}})},
	{"backing-planes", vHex32},
	{"backing-pixel", vHex32},
	{"override-redirect", vBool},
	{"save-under", vBool},
	{"event-mask", vMask(TypeEventMask, eventMaskTable)},
	{"do-not-propagate-mask", vMask(TypeEventMask, eventMaskTable)},
	{"colormap", vResourceCopyFromParent(TypeColormap)},
	{"cursor", vResourceNone(TypeCursor)},
}

// configureWindowFields is ConfigureWindow's 7-bit value-mask.
var configureWindowFields = []valueField{
	{"x", vDecS16},
	{"y", vDecS16},
	{"width", vDecU16},
	{"height", vDecU16},
	{"border-width", vDecU16},
	{"sibling", vResource(TypeWindow)},
	{"stack-mode", vEnum([]EnumName{{0, "Above"}, {1, "Below"}, {2, "TopIf"}, {3, "BottomIf"}, {4, "Opposite"}})},
}

// gcFields is CreateGC/ChangeGC's 23-bit value-mask.
var gcFields = []valueField{
	{"function", vEnum(gxFunctionTable)},
	{"plane-mask", vHex32},
	{"foreground", vHex32},
	{"background", vHex32},
	{"line-width", vDecU16},
	{"line-style", vEnum([]EnumName{{0, "Solid"}, {1, "OnOffDash"}, {2, "DoubleDash"}})},
	{"cap-style", vEnum([]EnumName{{0, "NotLast"}, {1, "Butt"}, {2, "Round"}, {3, "Projecting"}})},
	{"join-style", vEnum([]EnumName{{0, "Miter"}, {1, "Round"}, {2, "Bevel"}})},
	{"fill-style", vEnum([]EnumName{{0, "Solid"}, {1, "Tiled"}, {2, "Stippled"}, {3, "OpaqueStippled"}})},
	{"fill-rule", vEnum([]EnumName{{0, "EvenOdd"}, {1, "Winding"}})},
	{"tile", vResource(TypePixmap)},
	{"stipple", vResource(TypePixmap)},
	{"tile-stipple-x-origin", vDecS16},
	{"tile-stipple-y-origin", vDecS16},
	{"font", vResource(TypeFont)},
	{"subwindow-mode", vEnum([]EnumName{{0, "ClipByChildren"}, {1, "IncludeInferiors"}})},
	{"graphics-exposures", vBool},
	{"clip-x-origin", vDecS16},
	{"clip-y-origin", vDecS16},
	{"clip-mask", vResourceNone(TypePixmap)},
	{"dash-offset", vDecU16},
	{"dashes", vDecU8},
	{"arc-mode", vEnum([]EnumName{{0, "Chord"}, {1, "PieSlice"}})},
}

// renderPictureFields is RenderCreatePicture's 13-bit value-mask, per the
// RENDER extension's CPRepeat.. bit assignments.
var renderPictureFields = []valueField{
	{"repeat", vEnum([]EnumName{{0, "None"}, {1, "Normal"}, {2, "Pad"}, {3, "Reflect"}})},
	{"alpha-map", vResourceNone(TypePicture)},
	{"alpha-x-origin", vDecS16},
	{"alpha-y-origin", vDecS16},
	{"clip-x-origin", vDecS16},
	{"clip-y-origin", vDecS16},
	{"clip-mask", vResourceNone(TypePixmap)},
	{"graphics-exposures", vBool},
	{"subwindow-mode", vEnum([]EnumName{{0, "ClipByChildren"}, {1, "IncludeInferiors"}})},
	{"poly-edge", vEnum([]EnumName{{0, "Sharp"}, {1, "Smooth"}})},
	{"poly-mode", vEnum([]EnumName{{0, "Precise"}, {1, "Imprecise"}})},
	{"dither", vResourceNone(TypeAtom)},
	{"component-alpha", vBool},
}

// keyboardControlFields is ChangeKeyboardControl's 8-bit value-mask.
var keyboardControlFields = []valueField{
	{"key-click-percent", vDecS8},
	{"bell-percent", vDecS8},
	{"bell-pitch", vDecS16},
	{"bell-duration", vDecS16},
	{"led", vDecU8},
	{"led-mode", vEnum([]EnumName{{0, "Off"}, {1, "On"}})},
	{"key", vDecU8},
	{"auto-repeat-mode", vEnum([]EnumName{{0, "Off"}, {1, "On"}, {2, "Default"}})},
}

var bitGravityTable = []EnumName{
	{0, "Forget"}, {1, "NorthWest"}, {2, "North"}, {3, "NorthEast"},
	{4, "West"}, {5, "Center"}, {6, "East"},
	{7, "SouthWest"}, {8, "South"}, {9, "SouthEast"}, {10, "Static"},
}

var winGravityTable = []EnumName{
	{0, "Unmap"}, {1, "NorthWest"}, {2, "North"}, {3, "NorthEast"},
	{4, "West"}, {5, "Center"}, {6, "East"},
	{7, "SouthWest"}, {8, "South"}, {9, "SouthEast"}, {10, "Static"},
}

var gxFunctionTable = []EnumName{
	{0, "Clear"}, {1, "And"}, {2, "AndReverse"}, {3, "Copy"},
	{4, "AndInverted"}, {5, "Noop"}, {6, "Xor"}, {7, "Or"},
	{8, "Nor"}, {9, "Equiv"}, {10, "Invert"}, {11, "OrReverse"},
	{12, "CopyInverted"}, {13, "OrInverted"}, {14, "Nand"}, {15, "Set"},
}

// eventMaskTable is the core protocol's 25-bit EVENTMASK, shared by
// CreateWindow/ChangeWindowAttributes' event-mask and
// do-not-propagate-mask fields and by SelectInput-style requests.
var eventMaskTable = []BitName{
	{1 << 0, "KeyPress"},
	{1 << 1, "KeyRelease"},
	{1 << 2, "ButtonPress"},
	{1 << 3, "ButtonRelease"},
	{1 << 4, "EnterWindow"},
	{1 << 5, "LeaveWindow"},
	{1 << 6, "PointerMotion"},
	{1 << 7, "PointerMotionHint"},
	{1 << 8, "Button1Motion"},
	{1 << 9, "Button2Motion"},
	{1 << 10, "Button3Motion"},
	{1 << 11, "Button4Motion"},
	{1 << 12, "Button5Motion"},
	{1 << 13, "ButtonMotion"},
	{1 << 14, "KeymapState"},
	{1 << 15, "Exposure"},
	{1 << 16, "VisibilityChange"},
	{1 << 17, "StructureNotify"},
	{1 << 18, "ResizeRedirect"},
	{1 << 19, "SubstructureNotify"},
	{1 << 20, "SubstructureRedirect"},
	{1 << 21, "FocusChange"},
	{1 << 22, "PropertyChange"},
	{1 << 23, "ColormapChange"},
	{1 << 24, "OwnerGrabButton"},
}

// keyButMaskTable is the core protocol's 13-bit KEYBUTMASK, used by every
// input/crossing event's state field.
var keyButMaskTable = []BitName{
	{1 << 0, "Shift"},
	{1 << 1, "Lock"},
	{1 << 2, "Control"},
	{1 << 3, "Mod1"},
	{1 << 4, "Mod2"},
	{1 << 5, "Mod3"},
	{1 << 6, "Mod4"},
	{1 << 7, "Mod5"},
	{1 << 8, "Button1"},
	{1 << 9, "Button2"},
	{1 << 10, "Button3"},
	{1 << 11, "Button4"},
	{1 << 12, "Button5"},
}
