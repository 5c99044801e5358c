// internal/poller/modbus/line.go
package modbus

import (
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/goburrow/serial"

	"github.com/tamzrod/inverter-sync/internal/rs485"
)

const (
	rtuMinSize       = 4 // slave + function + crc
	rtuMaxSize       = 256
	rtuExceptionSize = 5
)

// lineTransporter sends RTU frames on a half-duplex line. The driver is
// held in transmit only while the request is on the wire, then switched
// back to receive before the response is read.
type lineTransporter struct {
	cfg serial.Config
	dir rs485.Direction

	// open defaults to serial.Open.
	open func(*serial.Config) (io.ReadWriteCloser, error)
	port io.ReadWriteCloser
}

func openSerial(c *serial.Config) (io.ReadWriteCloser, error) {
	return serial.Open(c)
}

func (t *lineTransporter) Connect() error {
	if t.port != nil {
		return nil
	}
	open := t.open
	if open == nil {
		open = openSerial
	}
	p, err := open(&t.cfg)
	if err != nil {
		return err
	}
	t.port = p
	return nil
}

func (t *lineTransporter) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

// Send implements modbus.Transporter.
func (t *lineTransporter) Send(req []byte) ([]byte, error) {
	if len(req) < rtuMinSize {
		return nil, errors.New("modbus: request frame too short")
	}
	if err := t.Connect(); err != nil {
		return nil, err
	}

	if err := t.dir.Set(rs485.Transmit); err != nil {
		return nil, err
	}
	_, werr := t.port.Write(req)
	if werr == nil {
		// the write returns once the bytes are queued; let the UART drain
		time.Sleep(t.charTime(len(req)))
	}
	if err := t.dir.Set(rs485.Receive); err != nil && werr == nil {
		werr = err
	}
	if werr != nil {
		return nil, werr
	}

	return readFrame(t.port, req)
}

// charTime is the time n characters (11 bit times each) take on the wire.
func (t *lineTransporter) charTime(n int) time.Duration {
	baud := t.cfg.BaudRate
	if baud <= 0 {
		baud = 9600
	}
	return time.Duration(n*11_000_000/baud) * time.Microsecond
}

// readFrame reads the minimum frame, then either the full response or an
// exception frame depending on the returned function code.
func readFrame(r io.Reader, req []byte) ([]byte, error) {
	var buf [rtuMaxSize]byte

	n, err := io.ReadAtLeast(r, buf[:], rtuMinSize)
	if err != nil {
		return nil, err
	}

	want := n
	switch buf[1] {
	case req[1]:
		want = responseLength(req)
	case req[1] | 0x80:
		want = rtuExceptionSize
	}
	if want > rtuMaxSize {
		want = rtuMaxSize
	}

	if n < want {
		m, err := io.ReadFull(r, buf[n:want])
		n += m
		if err != nil {
			return nil, err
		}
	}

	return buf[:n], nil
}

// responseLength is the expected RTU response size for register reads.
func responseLength(req []byte) int {
	switch req[1] {
	case 3, 4:
		if len(req) < 6 {
			return rtuMinSize
		}
		count := int(binary.BigEndian.Uint16(req[4:]))
		return rtuMinSize + 1 + 2*count
	default:
		return rtuMinSize
	}
}
