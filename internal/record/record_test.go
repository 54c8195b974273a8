package record

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPad4RoundsUpToMultipleOfFour(t *testing.T) {
	require.Equal(t, 0, pad4(0))
	require.Equal(t, 4, pad4(1))
	require.Equal(t, 4, pad4(4))
	require.Equal(t, 8, pad4(6))
	require.Equal(t, 8, pad4(8))
}

func TestCreateContextRequestLayout(t *testing.T) {
	client, server := net.Pipe()
	defer func() { _ = client.Close() }()
	defer func() { _ = server.Close() }()

	done := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 256)
		_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _ := server.Read(buf)
		done <- buf[:n]
	}()

	require.NoError(t, createContext(client, 150, 0x01800000, []uint32{CurrentClients, FutureClients}))

	req := <-done
	require.Equal(t, byte(150), req[0])
	require.Equal(t, byte(recordCreateContext), req[1])

	length := binary.BigEndian.Uint16(req[2:4])
	require.Equal(t, len(req), int(length)*4)

	ctxID := binary.BigEndian.Uint32(req[4:8])
	require.Equal(t, uint32(0x01800000), ctxID)

	nSpecs := binary.BigEndian.Uint32(req[12:16])
	require.Equal(t, uint32(2), nSpecs)
	nRanges := binary.BigEndian.Uint32(req[16:20])
	require.Equal(t, uint32(1), nRanges)

	require.Equal(t, CurrentClients, binary.BigEndian.Uint32(req[20:24]))
	require.Equal(t, FutureClients, binary.BigEndian.Uint32(req[24:28]))

	r := req[28:]
	require.Equal(t, byte(0), r[0])
	require.Equal(t, byte(127), r[1])
	require.Equal(t, byte(1), r[23]) // client-died wanted
}

func TestEnableContextRequestLayout(t *testing.T) {
	client, server := net.Pipe()
	defer func() { _ = client.Close() }()
	defer func() { _ = server.Close() }()

	done := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 16)
		_ = server.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _ := server.Read(buf)
		done <- buf[:n]
	}()

	require.NoError(t, enableContext(client, 150, 0x01800000))
	req := <-done
	require.Equal(t, byte(150), req[0])
	require.Equal(t, byte(recordEnableContext), req[1])
	require.Equal(t, uint32(0x01800000), binary.BigEndian.Uint32(req[4:8]))
}

func TestHandshakeRejectsDeniedConnection(t *testing.T) {
	client, server := net.Pipe()
	defer func() { _ = client.Close() }()

	go func() {
		header := make([]byte, 12)
		_, _ = io.ReadFull(server, header)

		reason := []byte("nope")
		reply := make([]byte, 8+len(reason))
		reply[0] = 0 // failed
		reply[1] = byte(len(reason))
		binary.BigEndian.PutUint16(reply[6:8], uint16(len(reason)/4))
		copy(reply[8:], reason)
		_, _ = server.Write(reply[:8])
		_, _ = server.Write(reply[8:])
		_ = server.Close()
	}()

	_, _, err := handshake(client)
	require.Error(t, err)
}
