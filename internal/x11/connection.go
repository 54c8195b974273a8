package x11

// PixmapFormat is one entry of the server's pixmap format table, delivered
// in the setup reply.
type PixmapFormat struct {
	Depth         uint8
	BitsPerPixel  uint8
	ScanlinePad   uint8
}

// ExtensionInfo is what a connection remembers about one extension after
// a QueryExtension reply resolved it: its name, the internal numeric id
// used to key the decoder tables in decode_extensions.go, and the base
// major opcode / first event / first error the server allocated.
type ExtensionInfo struct {
	Name       string
	InternalID int
	MajorBase  int
	FirstEvent int
	FirstError int
}

// Mode selects how a Connection starts: a fresh connection observes the
// full setup handshake; an attached connection (X RECORD) skips straight
// to the main phase.
type Mode int

const (
	ModeFull Mode = iota
	ModeAttached
)

// Connection holds all per-session state needed to interpret X11 bytes:
// handshake progress, byte order, the pixmap format table, the live
// sequence counter, extension maps, and the resource-depth map. One
// Connection is constructed per traced client/server pair.
type Connection struct {
	ID         string
	ClientID   uint32 // 0 until the setup reply's resource-id base is known
	ClientIDKnown bool

	Mode           Mode
	Handshake      HandshakeState
	ByteOrder      ByteOrder
	ImageByteOrder ByteOrder

	BitmapScanlineUnit uint8
	BitmapScanlinePad  uint8
	PixmapFormats      []PixmapFormat

	ResourceIDBase uint32
	ResourceIDMask uint32

	// seq is the connection's running 16-bit request sequence counter.
	// It is assigned to the first request as 1, per spec.
	seq uint16

	// extOpcodes/extEvents/extErrors are indexed by the opcode/event/error
	// number the server allocated to an extension (128..255 for opcodes;
	// 64..127 for events after the synthetic-event bit is stripped; 128..255
	// for errors). A nil entry means "not an extension code".
	extOpcodes [256]*ExtensionInfo
	extEvents  [128]*ExtensionInfo
	extErrors  [256]*ExtensionInfo

	resourceDepth map[uint32]uint8

	Requests *RequestTable

	c2s *demuxState
	s2c *demuxState

	c2sOffset uint64
	s2cOffset uint64
}

// NewConnection builds a Connection in the given mode. An attached
// connection is marked established immediately since it never observes
// the setup handshake.
func NewConnection(id string, mode Mode) *Connection {
	c := &Connection{
		ID:            id,
		Mode:          mode,
		Requests:      NewRequestTable(),
		resourceDepth: make(map[uint32]uint8),
	}
	if mode == ModeAttached {
		c.Handshake = HandshakeEstablished
	} else {
		c.Handshake = HandshakeUnknown
	}
	c.c2s = newDemuxState(mode)
	c.s2c = newDemuxState(mode)
	if mode == ModeFull {
		// Only the client sends the leading byte-order byte; the server's
		// first bytes are always the 8-byte setup-reply header.
		c.s2c.phase = phaseSetupFixed
	}
	return c
}

// NextSeq returns the next sequence number to assign to an outgoing
// request, initialising the counter to 1 on first use.
func (c *Connection) NextSeq() uint16 {
	if c.seq == 0 {
		c.seq = 1
	} else {
		c.seq++
	}
	return c.seq
}

// RegisterExtension records a resolved QueryExtension reply, populating
// the opcode map and, for extensions the decoder recognises by name, the
// event/error maps for every sub-code the extension defines.
func (c *Connection) RegisterExtension(info ExtensionInfo, eventCount, errorCount int) {
	if info.MajorBase >= 0 && info.MajorBase < len(c.extOpcodes) {
		stored := info
		c.extOpcodes[info.MajorBase] = &stored
	}
	for i := 0; i < eventCount; i++ {
		code := info.FirstEvent + i
		if code < 0 || code >= len(c.extEvents) {
			continue
		}
		sub := info
		c.extEvents[code] = &sub
	}
	for i := 0; i < errorCount; i++ {
		code := info.FirstError + i
		if code < 0 || code >= len(c.extErrors) {
			continue
		}
		sub := info
		c.extErrors[code] = &sub
	}
}

// ExtensionForOpcode returns the extension registered at major opcode op,
// or nil if op is a core opcode or an unregistered extension.
func (c *Connection) ExtensionForOpcode(op int) *ExtensionInfo {
	if op < 0 || op >= len(c.extOpcodes) {
		return nil
	}
	return c.extOpcodes[op]
}

// ExtensionForEvent returns the extension registered for the given
// (synthetic-bit-stripped) event code, along with the sub-code within
// that extension's namespace.
func (c *Connection) ExtensionForEvent(code int) (*ExtensionInfo, int) {
	if code < 0 || code >= len(c.extEvents) {
		return nil, 0
	}
	ext := c.extEvents[code]
	if ext == nil {
		return nil, 0
	}
	return ext, code - ext.FirstEvent
}

// ExtensionForError returns the extension registered for the given error
// code, along with the sub-code within that extension's namespace.
func (c *Connection) ExtensionForError(code int) (*ExtensionInfo, int) {
	if code < 0 || code >= len(c.extErrors) {
		return nil, 0
	}
	ext := c.extErrors[code]
	if ext == nil {
		return nil, 0
	}
	return ext, code - ext.FirstError
}

// SetResourceDepth records or replaces the depth for a PICTFORMAT or
// GLYPHSET resource id.
func (c *Connection) SetResourceDepth(id uint32, depth uint8) {
	c.resourceDepth[id] = depth
}

// ResourceDepth looks up a previously recorded resource depth.
func (c *Connection) ResourceDepth(id uint32) (uint8, bool) {
	d, ok := c.resourceDepth[id]
	return d, ok
}

// PixmapFormatForDepth returns the (bits-per-pixel, scanline-pad) pair for
// a given depth, as delivered in the setup reply's format table.
func (c *Connection) PixmapFormatForDepth(depth uint8) (PixmapFormat, bool) {
	for _, f := range c.PixmapFormats {
		if f.Depth == depth {
			return f, true
		}
	}
	return PixmapFormat{}, false
}
