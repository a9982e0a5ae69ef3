// Package rx implements communication with u-blox receivers.
package rx

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/ubloxcfg/ubloxcfg/pkg/parser"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
	"github.com/ubloxcfg/ubloxcfg/pkg/utils"
)

// The receiver errors.
var (
	ErrTimeout  = errors.New("rx: timeout")
	ErrClosed   = errors.New("rx: receiver closed")
	ErrNak      = errors.New("rx: message not acknowledged")
	ErrAutobaud = errors.New("rx: failed to detect baudrate")
)

// Baudrates lists the baudrates tried by Autobaud.
var Baudrates = []int{9600, 38400, 115200, 230400, 460800, 921600}

// Args configures a receiver.
type Args struct {
	// Autobaud detects the baudrate on open.
	Autobaud bool

	// Detect polls and logs the receiver version on open.
	Detect bool

	// Verbose logs every received message.
	Verbose bool

	// Name is used in log messages. Defaults to the port name.
	Name string

	// Baudrate is the initial baudrate. Defaults to 9600.
	Baudrate int

	// QueueSize is the number of buffered messages. Defaults to 1000.
	QueueSize int
}

// DefaultArgs returns the default arguments.
func DefaultArgs() Args {
	return Args{
		Autobaud: true,
		Detect:   true,
	}
}

// Receiver is a connected receiver.
type Receiver struct {
	port    Port
	args    Args
	log     zerolog.Logger
	queue   chan *parser.Message
	done    chan struct{}
	closing atomic.Bool
	dropped atomic.Uint64
	once    sync.Once
	mutex   sync.Mutex
}

// Open opens the named port and connects to the receiver.
func Open(name string, args Args) (*Receiver, error) {
	// set default baudrate
	if args.Baudrate == 0 {
		args.Baudrate = Baudrates[0]
	}

	// open port
	port, err := OpenPort(name, args.Baudrate)
	if err != nil {
		return nil, err
	}

	return OpenWith(port, args)
}

// OpenWith connects to the receiver on the provided port. The port is closed
// if the connection fails.
func OpenWith(port Port, args Args) (*Receiver, error) {
	// set defaults
	if args.Name == "" {
		args.Name = port.Name()
	}
	if args.QueueSize <= 0 {
		args.QueueSize = 1000
	}

	// prepare receiver
	r := &Receiver{
		port:  port,
		args:  args,
		log:   utils.Logger("rx").With().Str("rx", args.Name).Logger(),
		queue: make(chan *parser.Message, args.QueueSize),
		done:  make(chan struct{}),
	}

	// run reader
	go r.reader()

	// detect baudrate
	if args.Autobaud {
		_, err := r.Autobaud()
		if err != nil {
			r.Close()
			return nil, err
		}
	}

	// detect receiver
	if args.Detect {
		ver, err := r.VersionString()
		if err != nil {
			r.Close()
			return nil, err
		}
		r.log.Info().Str("version", ver).Msg("receiver detected")
	}

	return r, nil
}

// Name returns the receiver name.
func (r *Receiver) Name() string {
	return r.args.Name
}

// Dropped returns the number of messages dropped due to a full queue.
func (r *Receiver) Dropped() uint64 {
	return r.dropped.Load()
}

func (r *Receiver) reader() {
	defer close(r.done)

	// prepare parser
	p := parser.New()
	buf := make([]byte, 4096)

	for {
		// read data
		n, err := r.port.Read(buf)
		if err != nil {
			if !r.closing.Load() {
				r.log.Error().Err(err).Msg("read failed")
			}
			return
		} else if r.closing.Load() {
			return
		}

		// process data
		p.Add(buf[:n])
		for {
			msg, ok := p.Process()
			if !ok {
				break
			}
			if r.args.Verbose {
				r.log.Debug().Msg(msg.String())
			}
			r.enqueue(msg)
		}
	}
}

func (r *Receiver) enqueue(msg *parser.Message) {
	// try to queue
	select {
	case r.queue <- msg:
		return
	default:
	}

	// drop oldest message
	select {
	case <-r.queue:
		r.dropped.Add(1)
	default:
	}

	// queue again
	select {
	case r.queue <- msg:
	default:
		r.dropped.Add(1)
	}
}

// NextMessage returns the next received message. A zero timeout returns
// immediately.
func (r *Receiver) NextMessage(timeout time.Duration) (*parser.Message, error) {
	// check queue
	select {
	case msg := <-r.queue:
		return msg, nil
	default:
	}

	// check immediate
	if timeout <= 0 {
		select {
		case <-r.done:
			return nil, ErrClosed
		default:
			return nil, ErrTimeout
		}
	}

	// wait for message
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg := <-r.queue:
		return msg, nil
	case <-r.done:
		return nil, ErrClosed
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Flush discards all queued messages.
func (r *Receiver) Flush() {
	for {
		select {
		case <-r.queue:
		default:
			return
		}
	}
}

// Send writes raw data to the receiver.
func (r *Receiver) Send(data []byte) error {
	// acquire mutex
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// check state
	if r.closing.Load() {
		return ErrClosed
	}

	// write data
	_, err := r.port.Write(data)
	if err != nil {
		return fmt.Errorf("rx: write failed: %w", err)
	}

	return nil
}

// Baudrate returns the port baudrate or zero if the port has none.
func (r *Receiver) Baudrate() int {
	return r.port.Baudrate()
}

// SetBaudrate changes the port baudrate.
func (r *Receiver) SetBaudrate(baudrate int) error {
	return r.port.SetBaudrate(baudrate)
}

// Autobaud finds the receiver baudrate by polling the version at the current
// and then all known baudrates. Ports without baudrate are only polled.
func (r *Receiver) Autobaud() (int, error) {
	// poll only if there is no baudrate
	current := r.port.Baudrate()
	if current == 0 {
		_, err := r.pollVersion(1)
		if err != nil {
			return 0, ErrAutobaud
		}
		return 0, nil
	}

	// try all baudrates
	for _, baudrate := range lo.Uniq(append([]int{current}, Baudrates...)) {
		err := r.port.SetBaudrate(baudrate)
		if err != nil {
			return 0, err
		}
		_, err = r.pollVersion(1)
		if err == nil {
			r.log.Debug().Int("baudrate", baudrate).Msg("baudrate detected")
			return baudrate, nil
		}
	}

	return 0, ErrAutobaud
}

func (r *Receiver) pollVersion(retries int) (ubx.Version, error) {
	// poll version
	msg, err := r.PollUbx(PollParams{
		Class:   ubx.ClassMON,
		ID:      ubx.MonVer,
		Timeout: 500 * time.Millisecond,
		Retries: retries,
		MinSize: 40,
	})
	if err != nil {
		return ubx.Version{}, err
	}

	// parse version
	ver, ok := ubx.ParseVersion(msg)
	if !ok {
		return ubx.Version{}, fmt.Errorf("rx: invalid version message")
	}

	return ver, nil
}

// VersionString polls the receiver version.
func (r *Receiver) VersionString() (string, error) {
	// poll version
	ver, err := r.pollVersion(2)
	if err != nil {
		return "", err
	}

	return ver.String(), nil
}

// Close stops the reader and closes the port. It may be called multiple
// times.
func (r *Receiver) Close() {
	r.once.Do(func() {
		// close port
		r.closing.Store(true)
		err := r.port.Close()
		if err != nil {
			r.log.Warn().Err(err).Msg("close failed")
		}

		// await reader
		<-r.done
	})
}
