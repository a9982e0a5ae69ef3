package rx

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// ErrNoBaudrate is returned by ports that have no baudrate.
var ErrNoBaudrate = errors.New("rx: port has no baudrate")

// Port is a bidirectional byte stream to a receiver.
type Port interface {
	io.ReadWriteCloser
	Name() string
	Baudrate() int
	SetBaudrate(int) error
}

// OpenPort opens the named port. Names of the form "tcp://host:port" open a
// TCP connection, all others a serial device with an optional "ser://"
// prefix. An empty name selects the first known serial port.
func OpenPort(name string, baudrate int) (Port, error) {
	// handle TCP
	if addr, ok := strings.CutPrefix(name, "tcp://"); ok {
		conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
		if err != nil {
			return nil, err
		}
		return NewConnPort(name, conn), nil
	}

	// get path
	path := strings.TrimPrefix(name, "ser://")
	if path == "" {
		path = FindPort()
		if path == "" {
			return nil, fmt.Errorf("rx: no serial ports found")
		}
	}

	// open device
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baudrate,
	})
	if err != nil {
		return nil, err
	}

	// set read timeout to allow periodic checks
	err = port.SetReadTimeout(100 * time.Millisecond)
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	return &serialPort{
		name:     "ser://" + path,
		port:     port,
		baudrate: baudrate,
	}, nil
}

type serialPort struct {
	name     string
	port     serial.Port
	baudrate int
	mutex    sync.Mutex
}

func (p *serialPort) Name() string {
	return p.name
}

func (p *serialPort) Read(buf []byte) (int, error) {
	return p.port.Read(buf)
}

func (p *serialPort) Write(buf []byte) (int, error) {
	return p.port.Write(buf)
}

func (p *serialPort) Baudrate() int {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return p.baudrate
}

func (p *serialPort) SetBaudrate(baudrate int) error {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// set mode
	err := p.port.SetMode(&serial.Mode{
		BaudRate: baudrate,
	})
	if err != nil {
		return err
	}

	p.baudrate = baudrate

	return nil
}

func (p *serialPort) Close() error {
	return p.port.Close()
}

// NewConnPort wraps a network connection as a port without baudrate.
func NewConnPort(name string, conn net.Conn) Port {
	return &connPort{name: name, conn: conn}
}

type connPort struct {
	name string
	conn net.Conn
}

func (p *connPort) Name() string {
	return p.name
}

func (p *connPort) Read(buf []byte) (int, error) {
	return p.conn.Read(buf)
}

func (p *connPort) Write(buf []byte) (int, error) {
	return p.conn.Write(buf)
}

func (p *connPort) Baudrate() int {
	return 0
}

func (p *connPort) SetBaudrate(int) error {
	return ErrNoBaudrate
}

func (p *connPort) Close() error {
	return p.conn.Close()
}
