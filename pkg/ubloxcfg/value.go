package ubloxcfg

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func parseUint(str string, bits int) (uint64, error) {
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		return strconv.ParseUint(str[2:], 16, bits)
	}
	return strconv.ParseUint(str, 10, bits)
}

func parseInt(str string, bits int) (int64, error) {
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		u, err := strconv.ParseUint(str[2:], 16, bits)
		if err != nil {
			return 0, err
		}
		// sign extend the bit pattern
		shift := 64 - bits
		return int64(u<<shift) >> shift, nil
	}
	return strconv.ParseInt(str, 10, bits)
}

// ValueFromString parses the string representation of a value for the item.
func ValueFromString(item *Item, str string) (Value, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, badValue(item, str, "empty")
	}
	bits := item.Type.Size() * 8

	switch {
	case item.Type == TypeL:
		switch strings.ToLower(str) {
		case "true", "1":
			return 1, nil
		case "false", "0":
			return 0, nil
		}
		return 0, badValue(item, str, "expected true, false, 1 or 0")

	case item.Type.signed():
		v, err := parseInt(str, bits)
		if err != nil {
			return 0, badValue(item, str, "not a signed integer in range")
		}
		return Value(uint64(v)), nil

	case item.Type.bits():
		var v uint64
		for _, part := range strings.Split(str, "|") {
			part = strings.TrimSpace(part)
			if c, ok := findConst(item, part); ok {
				v |= c.Value
				continue
			}
			n, err := parseUint(part, bits)
			if err != nil {
				return 0, badValue(item, str, fmt.Sprintf("unknown bit %q", part))
			}
			v |= n
		}
		return Value(v), nil

	case item.Type.enum():
		if c, ok := findConst(item, str); ok {
			return Value(c.Value), nil
		}
		n, err := parseInt(str, 64)
		if err != nil || n < -(1<<(bits-1)) || n > (1<<bits)-1 {
			return 0, badValue(item, str, "unknown constant")
		}
		return Value(uint64(n) & mask(bits)), nil

	case item.Type.float():
		f, err := strconv.ParseFloat(str, bits)
		if err != nil {
			return 0, badValue(item, str, "not a number")
		}
		if item.Type == TypeR4 {
			return Value(math.Float32bits(float32(f))), nil
		}
		return Value(math.Float64bits(f)), nil

	default:
		n, err := parseUint(str, bits)
		if err != nil {
			return 0, badValue(item, str, "not an unsigned integer in range")
		}
		return Value(n), nil
	}
}

func mask(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}
	return (1 << bits) - 1
}

func findConst(item *Item, name string) (Const, bool) {
	for _, c := range item.Consts {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Const{}, false
}

// FormatValue returns a representation of the value that ValueFromString
// accepts.
func FormatValue(item *Item, v Value) string {
	switch {
	case item.Type == TypeL:
		if v != 0 {
			return "true"
		}
		return "false"
	case item.Type.signed():
		return strconv.FormatInt(int64(v), 10)
	case item.Type.bits():
		return fmt.Sprintf("0x%0*x", item.Type.Size()*2, uint64(v))
	case item.Type.enum():
		for _, c := range item.Consts {
			if c.Value == uint64(v) {
				return c.Name
			}
		}
		return strconv.FormatUint(uint64(v), 10)
	case item.Type == TypeR4:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(v))), 'g', -1, 32)
	case item.Type == TypeR8:
		return strconv.FormatFloat(math.Float64frombits(uint64(v)), 'g', -1, 64)
	default:
		return strconv.FormatUint(uint64(v), 10)
	}
}

// StringifyValue returns a human readable representation of the value that
// includes the names of matching constants.
func StringifyValue(item *Item, v Value) string {
	switch {
	case item.Type.bits():
		str := FormatValue(item, v)
		var names []string
		rest := uint64(v)
		for _, c := range item.Consts {
			if c.Value != 0 && uint64(v)&c.Value == c.Value {
				names = append(names, c.Name)
				rest &^= c.Value
			}
		}
		if rest != 0 && len(names) > 0 {
			names = append(names, fmt.Sprintf("0x%x", rest))
		}
		if len(names) > 0 {
			str += " (" + strings.Join(names, "|") + ")"
		}
		return str
	case item.Type.enum():
		for _, c := range item.Consts {
			if c.Value == uint64(v) {
				return fmt.Sprintf("%d (%s)", uint64(v), c.Name)
			}
		}
		return fmt.Sprintf("%d (n/a)", uint64(v))
	default:
		str := FormatValue(item, v)
		if item.Unit != "" && item.Scale == "" {
			str += " " + item.Unit
		} else if item.Unit != "" {
			str += fmt.Sprintf(" [%s %s]", item.Scale, item.Unit)
		}
		return str
	}
}

// StringifyKeyVal returns a line like "CFG-RATE-MEAS (0x30210001, U2) = 1000".
func StringifyKeyVal(kv KeyVal) string {
	item, err := itemFor(kv.ID)
	if err != nil {
		return fmt.Sprintf("0x%08x = 0x%x", kv.ID, uint64(kv.Value))
	}
	return fmt.Sprintf("%s (0x%08x, %s) = %s", item.Name, item.ID, item.Type, StringifyValue(item, kv.Value))
}

// EncodeKeyVals encodes the key/value pairs as configuration data, that is the
// little endian key followed by the value in the size given by the key.
func EncodeKeyVals(kvs []KeyVal) ([]byte, error) {
	var data []byte
	for _, kv := range kvs {
		size := KeySize(kv.ID).Bytes()
		if size == 0 {
			return nil, fmt.Errorf("%w: key 0x%08x has invalid size", ErrBadData, kv.ID)
		}
		data = binary.LittleEndian.AppendUint32(data, kv.ID)
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(kv.Value))
		data = append(data, buf[:size]...)
	}
	return data, nil
}

// DecodeKeyVals decodes configuration data. Values of signed items are sign
// extended.
func DecodeKeyVals(data []byte) ([]KeyVal, error) {
	var kvs []KeyVal
	for offs := 0; offs < len(data); {
		// read key
		if len(data)-offs < 4 {
			return nil, fmt.Errorf("%w: truncated key at offset %d", ErrBadData, offs)
		}
		id := binary.LittleEndian.Uint32(data[offs:])
		offs += 4

		// read value
		size := KeySize(id).Bytes()
		if size == 0 {
			return nil, fmt.Errorf("%w: key 0x%08x has invalid size", ErrBadData, id)
		}
		if len(data)-offs < size {
			return nil, fmt.Errorf("%w: truncated value for key 0x%08x", ErrBadData, id)
		}
		var buf [8]byte
		copy(buf[:], data[offs:offs+size])
		v := binary.LittleEndian.Uint64(buf[:])
		offs += size

		// sign extend
		if item, ok := ItemByID(id); ok && item.Type.signed() {
			shift := 64 - 8*size
			v = uint64(int64(v<<shift) >> shift)
		}

		kvs = append(kvs, KeyVal{ID: id, Value: Value(v)})
	}
	return kvs, nil
}
