package x11

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterPassesEverything(t *testing.T) {
	f := NewFilter()
	assert.True(t, f.Matches("CreateWindow"))
	assert.True(t, f.Matches("anything"))
}

func TestNilFilterPassesEverything(t *testing.T) {
	var f *Filter
	assert.True(t, f.Matches("CreateWindow"))
}

func TestFilterIncludeMode(t *testing.T) {
	f := &Filter{mode: FilterInclude, names: map[string]bool{"CreateWindow": true}}
	assert.True(t, f.Matches("CreateWindow"))
	assert.False(t, f.Matches("MapWindow"))
}

func TestFilterExcludeMode(t *testing.T) {
	f := &Filter{mode: FilterExclude, names: map[string]bool{"CreateWindow": true}}
	assert.False(t, f.Matches("CreateWindow"))
	assert.True(t, f.Matches("MapWindow"))
}

func TestParseFilterTokensDefaultTargetsRequests(t *testing.T) {
	// Plain names accumulate into the fresh filter's exclude set.
	reqFilter, eventFilter, err := ParseFilterTokens(nil, nil, "CreateWindow,MapWindow")
	require.NoError(t, err)
	assert.False(t, reqFilter.Matches("CreateWindow"))
	assert.False(t, reqFilter.Matches("MapWindow"))
	assert.True(t, reqFilter.Matches("DestroyWindow"))
	// Events filter untouched — still passes everything.
	assert.True(t, eventFilter.Matches("AnyEvent"))
}

func TestParseFilterTokensEventsPrefix(t *testing.T) {
	reqFilter, eventFilter, err := ParseFilterTokens(nil, nil, "events=KeyPress,ButtonPress")
	require.NoError(t, err)
	assert.False(t, eventFilter.Matches("KeyPress"))
	assert.True(t, eventFilter.Matches("MotionNotify"))
	assert.True(t, reqFilter.Matches("anything"))
}

func TestParseFilterTokensReqsAliasAndEventAlias(t *testing.T) {
	reqFilter, eventFilter, err := ParseFilterTokens(nil, nil, "reqs=CreateGC event=Expose")
	require.NoError(t, err)
	assert.False(t, reqFilter.Matches("CreateGC"))
	assert.True(t, reqFilter.Matches("FreeGC"))
	assert.False(t, eventFilter.Matches("Expose"))
}

func TestParseFilterTokensBang(t *testing.T) {
	// "!CreateWindow" inverts polarity to include, so the set now names
	// what's included rather than excluded.
	reqFilter, _, err := ParseFilterTokens(nil, nil, "!CreateWindow")
	require.NoError(t, err)
	assert.True(t, reqFilter.Matches("CreateWindow"))
	assert.False(t, reqFilter.Matches("MapWindow"))
}

func TestParseFilterTokensAllClearsAndInverts(t *testing.T) {
	reqFilter := &Filter{mode: FilterInclude, names: map[string]bool{"CreateWindow": true}}
	reqFilter, _, err := ParseFilterTokens(reqFilter, nil, "all")
	require.NoError(t, err)
	// Inverted from include to exclude, with an empty set — passes
	// everything.
	assert.True(t, reqFilter.Matches("CreateWindow"))
	assert.True(t, reqFilter.Matches("anything"))
}

func TestParseSizeLimit(t *testing.T) {
	n, err := ParseSizeLimit("unlimited")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ParseSizeLimit("none")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ParseSizeLimit("256")
	require.NoError(t, err)
	assert.Equal(t, 256, n)

	n, err = ParseSizeLimit("0x100")
	require.NoError(t, err)
	assert.Equal(t, 256, n)

	_, err = ParseSizeLimit("-5")
	assert.Error(t, err)

	_, err = ParseSizeLimit("not-a-number")
	assert.Error(t, err)
}

func TestParseNumRejectsGarbage(t *testing.T) {
	_, err := parseNum("not-a-number")
	assert.Error(t, err)

	_, err = parseNum("0xzz")
	assert.Error(t, err)

	n, err := parseNum("0x1F")
	require.NoError(t, err)
	assert.Equal(t, 31, n)

	n, err = parseNum("42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}
