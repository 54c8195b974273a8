// Package xauth reads and rewrites Xauthority cookie entries so a traced
// client connecting through the proxy's listening display presents a
// cookie the real X server will accept.
package xauth

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

// family values used in the Xauthority wire format.
const (
	FamilyInternet  = 0
	FamilyInternet6 = 6
	FamilyLocal     = 256
)

// Entry is one decoded Xauthority record.
type Entry struct {
	Family      uint16
	Address     []byte
	Display     string
	AuthName    string
	AuthData    []byte
}

// DefaultPath returns the Xauthority file path: $XAUTHORITY if set,
// otherwise ~/.Xauthority.
func DefaultPath() (string, error) {
	if p := os.Getenv("XAUTHORITY"); p != "" {
		if strings.HasPrefix(p, "~/") {
			u, err := user.Current()
			if err != nil {
				return "", err
			}
			return filepath.Join(u.HomeDir, p[2:]), nil
		}
		return p, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(u.HomeDir, ".Xauthority"), nil
}

// ReadEntries parses every record out of an Xauthority file's contents.
// The format is a flat sequence of big-endian-length-prefixed fields:
//
//	uint16 family
//	uint16 addrLen;  byte addr[addrLen]
//	uint16 dispLen;  byte disp[dispLen]
//	uint16 methLen;  byte meth[methLen]
//	uint16 dataLen;  byte data[dataLen]
func ReadEntries(raw []byte) ([]Entry, error) {
	var entries []Entry
	for len(raw) > 0 {
		if len(raw) < 2 {
			break
		}
		family := binary.BigEndian.Uint16(raw)
		raw = raw[2:]

		addr, rest, err := extractString(raw)
		if err != nil {
			return nil, err
		}
		raw = rest

		disp, rest, err := extractString(raw)
		if err != nil {
			return nil, err
		}
		raw = rest

		meth, rest, err := extractString(raw)
		if err != nil {
			return nil, err
		}
		raw = rest

		data, rest, err := extractString(raw)
		if err != nil {
			return nil, err
		}
		raw = rest

		entries = append(entries, Entry{
			Family:   family,
			Address:  addr,
			Display:  string(disp),
			AuthName: string(meth),
			AuthData: data,
		})
	}
	return entries, nil
}

func extractString(b []byte) (value, rest []byte, err error) {
	if len(b) < 2 {
		return nil, nil, fmt.Errorf("xauth: truncated record (length field)")
	}
	n := binary.BigEndian.Uint16(b)
	b = b[2:]
	if len(b) < int(n) {
		return nil, nil, fmt.Errorf("xauth: truncated record (string, want %d have %d)", n, len(b))
	}
	return b[:n], b[n:], nil
}

func encodeString(s []byte) []byte {
	out := make([]byte, 2, 2+len(s))
	binary.BigEndian.PutUint16(out, uint16(len(s)))
	return append(out, s...)
}

// Encode serialises an Entry back into its wire form.
func (e Entry) Encode() []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, e.Family)
	out = append(out, encodeString(e.Address)...)
	out = append(out, encodeString([]byte(e.Display))...)
	out = append(out, encodeString([]byte(e.AuthName))...)
	out = append(out, encodeString(e.AuthData)...)
	return out
}

// FindLocal returns the AF_LOCAL entry matching hostname and displayNum
// (the numeric part of a display spec, e.g. "0" for ":0").
func FindLocal(entries []Entry, hostname, displayNum string) (Entry, bool) {
	for _, e := range entries {
		if e.Family != FamilyLocal {
			continue
		}
		if string(e.Address) != hostname {
			continue
		}
		if e.Display != displayNum {
			continue
		}
		return e, true
	}
	return Entry{}, false
}

// CraftProxyCookie loads the real Xauthority file, finds the entry for
// hostname/display, and returns a cookie rewritten for the proxy's own
// display number so a client pointed at the proxy authenticates with a
// cookie the upstream server still honours when the proxy forwards it
// unchanged.
func CraftProxyCookie(path, hostname, displayNum, proxyDisplayNum string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := ReadEntries(raw)
	if err != nil {
		return nil, err
	}
	entry, ok := FindLocal(entries, hostname, displayNum)
	if !ok {
		return nil, fmt.Errorf("xauth: no AF_LOCAL entry for %s:%s in %s", hostname, displayNum, path)
	}
	entry.Display = proxyDisplayNum
	return entry.Encode(), nil
}

// WriteTemp writes a single-entry Xauthority file to a fresh temp file and
// returns its path, for use as a child process's XAUTHORITY.
func WriteTemp(cookie []byte) (string, error) {
	f, err := os.CreateTemp("", "xtrace-xauth-*")
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(cookie); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Chmod(0600); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// ParseDisplay splits a DISPLAY string of the form ":N" or ":N.S" into its
// numeric display number. Non-local (hostname-prefixed) displays are
// rejected since xtrace only traces local Unix-socket connections.
func ParseDisplay(display string) (string, error) {
	if !strings.HasPrefix(display, ":") {
		return "", fmt.Errorf("xauth: non-local display %q not supported", display)
	}
	rest := strings.TrimPrefix(display, ":")
	var digits []byte
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c < '0' || c > '9' {
			break
		}
		digits = append(digits, c)
	}
	if len(digits) == 0 {
		return "", fmt.Errorf("xauth: could not parse display number from %q", display)
	}
	if _, err := strconv.Atoi(string(digits)); err != nil {
		return "", fmt.Errorf("xauth: invalid display number %q: %w", digits, err)
	}
	return string(digits), nil
}
