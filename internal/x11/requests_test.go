package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqLessWraparound(t *testing.T) {
	assert.True(t, seqLess(1, 2))
	assert.False(t, seqLess(2, 1))
	assert.False(t, seqLess(5, 5))
	// Near the 16-bit wraparound boundary: 0xFFFF comes before 0x0001.
	assert.True(t, seqLess(0xFFFF, 0x0001))
	assert.False(t, seqLess(0x0001, 0xFFFF))
}

func TestRequestTableRecordAndHead(t *testing.T) {
	tbl := NewRequestTable()
	assert.Nil(t, tbl.Head())

	r1 := &Request{Seq: 1}
	r2 := &Request{Seq: 2}
	tbl.Record(r1)
	tbl.Record(r2)

	require.Equal(t, r1, tbl.Head())
}

func TestMatchReplyOrErrorExactMatch(t *testing.T) {
	tbl := NewRequestTable()
	r1 := &Request{Seq: 1, Reply: ReplySingle}
	tbl.Record(r1)

	matched, released := tbl.MatchReplyOrError(1)
	require.Equal(t, r1, matched)
	assert.Empty(t, released)
	// ReplySingle unlinks on match.
	assert.Nil(t, tbl.Head())
}

func TestMatchReplyOrErrorSkipsOlderNoReplyRecords(t *testing.T) {
	tbl := NewRequestTable()
	r1 := &Request{Seq: 1, Reply: ReplySingle}
	r2 := &Request{Seq: 2, Reply: ReplyNone}
	r3 := &Request{Seq: 3, Reply: ReplySingle}
	tbl.Record(r1)
	tbl.Record(r2)
	tbl.Record(r3)

	// A reply arrives for seq 3 before seq 1 and 2 were ever resolved
	// (seq 1 expected exactly one reply that never came; seq 2 expected
	// none at all).
	matched, released := tbl.MatchReplyOrError(3)
	require.Equal(t, r3, matched)
	require.Len(t, released, 2)
	assert.Equal(t, r1, released[0].Req)
	assert.True(t, released[0].NoReply)
	assert.Equal(t, r2, released[1].Req)
	assert.False(t, released[1].NoReply)
}

func TestMatchReplyOrErrorMultiReply(t *testing.T) {
	tbl := NewRequestTable()
	r1 := &Request{Seq: 1, Reply: ReplyMultiNoneSeen}
	tbl.Record(r1)

	matched, released := tbl.MatchReplyOrError(1)
	require.Equal(t, r1, matched)
	assert.Empty(t, released)
	assert.Equal(t, ReplyMultiSomeSeen, r1.Reply)
	// Still in the table — a multi-reply request is not unlinked by a
	// single matched reply.
	assert.Equal(t, r1, tbl.Head())

	matched2, released2 := tbl.MatchReplyOrError(1)
	require.Equal(t, r1, matched2)
	assert.Empty(t, released2)
	assert.Equal(t, ReplyMultiSomeSeen, r1.Reply)
}

func TestMatchReplyOrErrorNoMatch(t *testing.T) {
	tbl := NewRequestTable()
	r1 := &Request{Seq: 5, Reply: ReplySingle}
	tbl.Record(r1)

	matched, released := tbl.MatchReplyOrError(10)
	assert.Nil(t, matched)
	require.Len(t, released, 1)
	assert.Equal(t, r1, released[0].Req)
}

func TestFlushUpTo(t *testing.T) {
	tbl := NewRequestTable()
	r1 := &Request{Seq: 1, Reply: ReplySingle}
	r2 := &Request{Seq: 2, Reply: ReplyNone}
	r3 := &Request{Seq: 3, Reply: ReplySingle}
	tbl.Record(r1)
	tbl.Record(r2)
	tbl.Record(r3)

	released := tbl.FlushUpTo(3)
	require.Len(t, released, 2)
	assert.Equal(t, r1, released[0].Req)
	assert.True(t, released[0].NoReply)
	assert.Equal(t, r2, released[1].Req)
	assert.False(t, released[1].NoReply)
	// seq 3 itself is left untouched by FlushUpTo.
	assert.Equal(t, r3, tbl.Head())
}
