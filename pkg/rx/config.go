package rx

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubloxcfg"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

// GetConfig reads configuration items from the given layer. Wildcard keys are
// paged until all matching items are read. Keys the receiver does not know
// are omitted from the result.
func (r *Receiver) GetConfig(layer byte, keys []uint32) ([]ubloxcfg.KeyVal, error) {
	var list []ubloxcfg.KeyVal
	for _, chunk := range lo.Chunk(keys, ubx.ValgetMaxK) {
		// check for wildcards
		wildcard := lo.ContainsBy(chunk, func(key uint32) bool {
			return key == ubx.WildcardAll || key&0xffff == 0xffff
		})

		var position uint16
		for {
			// prepare poll
			poll, err := ubx.ValgetPoll(layer, position, chunk...)
			if err != nil {
				return nil, err
			}

			// poll items
			msg, err := r.PollUbx(PollParams{
				Class:   ubx.ClassCFG,
				ID:      ubx.CfgValget,
				Payload: ubx.Payload(poll),
				Retries: 2,
				MinSize: 4,
			})
			if errors.Is(err, ErrNak) {
				break
			} else if err != nil {
				return nil, err
			}

			// decode items
			resp, err := ubx.ParseValget(msg)
			if err != nil {
				return nil, err
			}
			kvs, err := ubloxcfg.DecodeKeyVals(resp.CfgData)
			if err != nil {
				return nil, err
			}
			list = append(list, kvs...)

			// check for more
			if !wildcard || len(kvs) < ubx.ValgetMaxKV {
				break
			}
			position += uint16(len(kvs))
		}
	}

	r.log.Debug().Int("items", len(list)).Str("layer", ubx.LayerString(layer)).Msg("configuration read")

	return list, nil
}

// SetConfig writes configuration items to the given layers.
func (r *Receiver) SetConfig(kvs []ubloxcfg.KeyVal, layers byte) error {
	// make messages
	msgs, err := ubloxcfg.MakeValset(kvs, layers)
	if err != nil {
		return err
	}

	// send messages
	for i, m := range msgs {
		err = r.SendUbxCfg(m.Msg, 0)
		if err != nil {
			return fmt.Errorf("rx: %s (%d/%d) failed: %w", m.Info, i+1, len(msgs), err)
		}
	}

	r.log.Debug().Int("items", len(kvs)).Str("layers", ubx.LayersString(layers)).Msg("configuration written")

	return nil
}

// DeleteConfig deletes configuration items from the BBR and/or Flash layers.
func (r *Receiver) DeleteConfig(keys []uint32, layers byte) error {
	// make messages
	msgs, err := ubloxcfg.MakeValdel(keys, layers)
	if err != nil {
		return err
	}

	// send messages
	for _, m := range msgs {
		err = r.SendUbxCfg(m, 0)
		if err != nil {
			return err
		}
	}

	return nil
}
