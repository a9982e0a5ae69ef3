package ubloxcfg

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

// ParseLayers parses a comma separated list of layers ("RAM", "BBR",
// "FLASH") into a UBX-CFG-VALSET layer mask.
func ParseLayers(str string) (byte, error) {
	var layers byte
	for _, part := range strings.Split(str, ",") {
		switch strings.ToUpper(strings.TrimSpace(part)) {
		case "RAM":
			layers |= ubx.LayerRAM
		case "BBR":
			layers |= ubx.LayerBBR
		case "FLASH":
			layers |= ubx.LayerFlash
		default:
			return 0, fmt.Errorf("%w: %q", ErrBadLayer, part)
		}
	}
	return layers, nil
}

// ParseLayer parses a single layer name ("RAM", "BBR", "FLASH", "DEFAULT")
// into a UBX-CFG-VALGET layer value.
func ParseLayer(str string) (byte, error) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "RAM":
		return ubx.ValgetRAM, nil
	case "BBR":
		return ubx.ValgetBBR, nil
	case "FLASH":
		return ubx.ValgetFlash, nil
	case "DEFAULT":
		return ubx.ValgetDefault, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadLayer, str)
	}
}

// ValsetMessage is one UBX-CFG-VALSET message of a configuration set.
type ValsetMessage struct {
	Msg   []byte
	Items []KeyVal
	Info  string
}

// MakeValset converts the key/value pairs into UBX-CFG-VALSET messages of at
// most 64 items each. Several messages are bound into one transaction.
func MakeValset(kvs []KeyVal, layers byte) ([]ValsetMessage, error) {
	// check layers
	if layers == 0 || layers&^(ubx.LayerRAM|ubx.LayerBBR|ubx.LayerFlash) != 0 {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadLayer, layers)
	}
	if len(kvs) == 0 {
		return nil, fmt.Errorf("%w: no items", ErrBadData)
	}

	// split items
	chunks := lo.Chunk(kvs, ubx.ValsetMaxKV)

	// build messages
	msgs := make([]ValsetMessage, 0, len(chunks))
	for i, chunk := range chunks {
		// determine transaction
		trans, info := ubx.TransactionNone, "no transaction"
		if len(chunks) > 1 {
			switch i {
			case 0:
				trans, info = ubx.TransactionBegin, "transaction begin"
			case len(chunks) - 1:
				trans, info = ubx.TransactionEnd, "transaction end"
			default:
				trans, info = ubx.TransactionContinue, "transaction continue"
			}
		}

		// encode items
		data, err := EncodeKeyVals(chunk)
		if err != nil {
			return nil, err
		}

		msgs = append(msgs, ValsetMessage{
			Msg:   ubx.Valset(layers, trans, data),
			Items: chunk,
			Info:  info,
		})
	}

	return msgs, nil
}

// MakeValdel converts the keys into UBX-CFG-VALDEL messages of at most 64
// keys each.
func MakeValdel(keys []uint32, layers byte) ([][]byte, error) {
	chunks := lo.Chunk(keys, ubx.ValdelMaxK)
	msgs := make([][]byte, 0, len(chunks))
	for i, chunk := range chunks {
		trans := ubx.TransactionNone
		if len(chunks) > 1 {
			switch i {
			case 0:
				trans = ubx.TransactionBegin
			case len(chunks) - 1:
				trans = ubx.TransactionEnd
			default:
				trans = ubx.TransactionContinue
			}
		}
		msg, err := ubx.Valdel(layers, trans, chunk...)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
