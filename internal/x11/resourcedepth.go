package x11

// Resource-depth tracking lives on Connection (SetResourceDepth /
// ResourceDepth, in connection.go) as a plain map[uint32]uint8, per
// spec.md's Design Notes: "Any standard ordered or hash map suffices" in
// place of the original's handwritten balanced tree (original_source's
// misc/btree.h), since Go has a native map and the connection's decoding
// is serialised by its owner (spec.md §5).
//
// This file holds the two callers that populate the map: a
// RenderQueryPictFormats reply records (PICTFORMAT id -> depth) for every
// format it lists, and RenderCreateGlyphSet/RenderReferenceGlyphSet
// requests record (GLYPHSET id -> depth) copied from the PICTFORMAT they
// reference. Both replace any prior entry for the same id, matching
// spec.md §3's "An entry for a given id replaces any prior one."

// recordPictFormatDepths is called while decoding a RenderQueryPictFormats
// reply; formats is the sequence of (pictformat id, depth) pairs read from
// the packet's PICTFORMINFO list.
func recordPictFormatDepths(c *Connection, formats []pictFormatEntry) {
	for _, e := range formats {
		c.SetResourceDepth(e.id, e.depth)
	}
}

type pictFormatEntry struct {
	id    uint32
	depth uint8
}

// recordGlyphSetDepth is called while decoding RenderCreateGlyphSet /
// RenderReferenceGlyphSet: the new GLYPHSET id inherits the depth already
// recorded for the PICTFORMAT it was created from.
func recordGlyphSetDepth(c *Connection, glyphSetID, pictFormatID uint32) {
	if depth, ok := c.ResourceDepth(pictFormatID); ok {
		c.SetResourceDepth(glyphSetID, depth)
	}
}
