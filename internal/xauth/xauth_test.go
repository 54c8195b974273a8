package xauth

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildRawEntry(t *testing.T, family uint16, addr, disp, meth, data []byte) []byte {
	t.Helper()
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, family)
	b = append(b, encodeString(addr)...)
	b = append(b, encodeString(disp)...)
	b = append(b, encodeString(meth)...)
	b = append(b, encodeString(data)...)
	return b
}

func TestReadEntriesSingleRecord(t *testing.T) {
	raw := buildRawEntry(t, FamilyLocal, []byte("myhost"), []byte("0"), []byte("MIT-MAGIC-COOKIE-1"), []byte{1, 2, 3, 4})

	entries, err := ReadEntries(raw)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	require.Equal(t, uint16(FamilyLocal), e.Family)
	require.Equal(t, "myhost", string(e.Address))
	require.Equal(t, "0", e.Display)
	require.Equal(t, "MIT-MAGIC-COOKIE-1", e.AuthName)
	require.Equal(t, []byte{1, 2, 3, 4}, e.AuthData)
}

func TestReadEntriesMultipleRecordsConcatenated(t *testing.T) {
	raw := buildRawEntry(t, FamilyLocal, []byte("host-a"), []byte("0"), []byte("MIT-MAGIC-COOKIE-1"), []byte{1})
	raw = append(raw, buildRawEntry(t, FamilyLocal, []byte("host-b"), []byte("1"), []byte("MIT-MAGIC-COOKIE-1"), []byte{2, 2})...)

	entries, err := ReadEntries(raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "host-a", string(entries[0].Address))
	require.Equal(t, "host-b", string(entries[1].Address))
}

func TestReadEntriesTruncatedLengthField(t *testing.T) {
	_, err := ReadEntries([]byte{0, 0, 0})
	require.Error(t, err)
}

func TestReadEntriesTruncatedStringBody(t *testing.T) {
	raw := []byte{0, 0}            // family
	raw = append(raw, 0, 5)        // addr length = 5
	raw = append(raw, []byte("ab")...) // only 2 bytes present
	_, err := ReadEntries(raw)
	require.Error(t, err)
}

func TestFindLocalMatchesHostnameAndDisplay(t *testing.T) {
	entries := []Entry{
		{Family: FamilyLocal, Address: []byte("myhost"), Display: "0", AuthName: "MIT-MAGIC-COOKIE-1", AuthData: []byte{9}},
		{Family: FamilyInternet, Address: []byte("myhost"), Display: "0"},
	}

	found, ok := FindLocal(entries, "myhost", "0")
	require.True(t, ok)
	require.Equal(t, []byte{9}, found.AuthData)

	_, ok = FindLocal(entries, "myhost", "1")
	require.False(t, ok)
}

func TestEntryEncodeRoundTrip(t *testing.T) {
	e := Entry{Family: FamilyLocal, Address: []byte("h"), Display: "3", AuthName: "MIT-MAGIC-COOKIE-1", AuthData: []byte{0xAB, 0xCD}}
	raw := e.Encode()

	entries, err := ReadEntries(raw)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, e, entries[0])
}

func TestParseDisplay(t *testing.T) {
	n, err := ParseDisplay(":0")
	require.NoError(t, err)
	require.Equal(t, "0", n)

	n, err = ParseDisplay(":12.1")
	require.NoError(t, err)
	require.Equal(t, "12", n)

	_, err = ParseDisplay("remotehost:0")
	require.Error(t, err)

	_, err = ParseDisplay(":")
	require.Error(t, err)
}
