package rx

import (
	"errors"
	"time"

	"github.com/ubloxcfg/ubloxcfg/pkg/parser"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

// PollParams describes a UBX poll.
type PollParams struct {
	Class   byte
	ID      byte
	Payload []byte

	// Timeout per attempt. Defaults to 1.5s.
	Timeout time.Duration

	// Retries after the first attempt.
	Retries int

	// MinSize is the minimum response payload size.
	MinSize int
}

// PollUbx sends a UBX poll and waits for the response with the same class and
// id. It returns ErrNak if the receiver rejects the poll.
func (r *Receiver) PollUbx(params PollParams) ([]byte, error) {
	// set default timeout
	if params.Timeout <= 0 {
		params.Timeout = 1500 * time.Millisecond
	}

	// prepare poll
	poll := ubx.Make(params.Class, params.ID, params.Payload)

	for attempt := 0; attempt <= params.Retries; attempt++ {
		// flush and send
		r.Flush()
		err := r.Send(poll)
		if err != nil {
			return nil, err
		}

		// await response
		msg, err := r.await(params.Timeout, func(msg *parser.Message) (bool, error) {
			if ack, ok := ubx.ParseAck(msg.Data); ok && !ack.Ack && ack.Class == params.Class && ack.ID == params.ID {
				return false, ErrNak
			}
			return ubx.Is(msg.Data, params.Class, params.ID) && len(ubx.Payload(msg.Data)) >= params.MinSize, nil
		})
		if errors.Is(err, ErrTimeout) {
			r.log.Debug().Str("msg", ubx.Name(params.Class, params.ID)).Int("attempt", attempt+1).Msg("poll timeout")
			continue
		} else if err != nil {
			return nil, err
		}

		return msg.Data, nil
	}

	return nil, ErrTimeout
}

// SendUbxCfg sends a UBX-CFG message and waits for the acknowledgement. It
// returns ErrNak if the receiver rejects the message.
func (r *Receiver) SendUbxCfg(msg []byte, timeout time.Duration) error {
	// check message
	err := ubx.Check(msg)
	if err != nil {
		return err
	}

	// set default timeout
	if timeout <= 0 {
		timeout = 2500 * time.Millisecond
	}

	// flush and send
	r.Flush()
	err = r.Send(msg)
	if err != nil {
		return err
	}

	// await acknowledgement
	cls, id := ubx.ClassID(msg), ubx.MessageID(msg)
	_, err = r.await(timeout, func(m *parser.Message) (bool, error) {
		ack, ok := ubx.ParseAck(m.Data)
		if !ok || ack.Class != cls || ack.ID != id {
			return false, nil
		}
		if !ack.Ack {
			return false, ErrNak
		}
		return true, nil
	})

	return err
}

func (r *Receiver) await(timeout time.Duration, fn func(*parser.Message) (bool, error)) (*parser.Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		// check deadline
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrTimeout
		}

		// get message
		msg, err := r.NextMessage(remaining)
		if err != nil {
			return nil, err
		}
		if msg.Type != parser.TypeUBX {
			continue
		}

		// check message
		ok, err := fn(msg)
		if err != nil {
			return nil, err
		} else if ok {
			return msg, nil
		}
	}
}
