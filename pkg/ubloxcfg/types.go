// Package ubloxcfg provides the u-blox 9 configuration item database together
// with the value codecs and the conversion of key/value sets into UBX
// configuration messages.
package ubloxcfg

import (
	"errors"
	"fmt"
)

// Type is the storage type of a configuration item.
type Type int

// The available item types.
const (
	TypeL Type = iota + 1
	TypeU1
	TypeU2
	TypeU4
	TypeU8
	TypeI1
	TypeI2
	TypeI4
	TypeI8
	TypeX1
	TypeX2
	TypeX4
	TypeX8
	TypeR4
	TypeR8
	TypeE1
	TypeE2
	TypeE4
)

var typeNames = map[Type]string{
	TypeL:  "L",
	TypeU1: "U1",
	TypeU2: "U2",
	TypeU4: "U4",
	TypeU8: "U8",
	TypeI1: "I1",
	TypeI2: "I2",
	TypeI4: "I4",
	TypeI8: "I8",
	TypeX1: "X1",
	TypeX2: "X2",
	TypeX4: "X4",
	TypeX8: "X8",
	TypeR4: "R4",
	TypeR8: "R8",
	TypeE1: "E1",
	TypeE2: "E2",
	TypeE4: "E4",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "?"
}

// Size returns the encoded value size in bytes.
func (t Type) Size() int {
	switch t {
	case TypeL, TypeU1, TypeI1, TypeX1, TypeE1:
		return 1
	case TypeU2, TypeI2, TypeX2, TypeE2:
		return 2
	case TypeU4, TypeI4, TypeX4, TypeR4, TypeE4:
		return 4
	case TypeU8, TypeI8, TypeX8, TypeR8:
		return 8
	default:
		return 0
	}
}

func (t Type) signed() bool {
	return t == TypeI1 || t == TypeI2 || t == TypeI4 || t == TypeI8
}

func (t Type) bits() bool {
	return t == TypeX1 || t == TypeX2 || t == TypeX4 || t == TypeX8
}

func (t Type) enum() bool {
	return t == TypeE1 || t == TypeE2 || t == TypeE4
}

func (t Type) float() bool {
	return t == TypeR4 || t == TypeR8
}

// Size is the storage size encoded in bits 28..30 of a key id.
type Size int

// The available key sizes.
const (
	SizeBit   Size = 0x01
	SizeOne   Size = 0x02
	SizeTwo   Size = 0x03
	SizeFour  Size = 0x04
	SizeEight Size = 0x05
)

// KeySize returns the size encoded in the key id.
func KeySize(id uint32) Size {
	return Size((id >> 28) & 0x07)
}

// KeyGroup returns the group id encoded in the key id.
func KeyGroup(id uint32) uint8 {
	return uint8((id >> 16) & 0xff)
}

// KeyItem returns the item id encoded in the key id.
func KeyItem(id uint32) uint16 {
	return uint16(id & 0x0fff)
}

// MakeKey assembles a key id from its size, group and item.
func MakeKey(size Size, group uint8, item uint16) uint32 {
	return uint32(size)<<28 | uint32(group)<<16 | uint32(item&0x0fff)
}

// Bytes returns the number of value bytes for the size, or zero for invalid
// sizes.
func (s Size) Bytes() int {
	switch s {
	case SizeBit, SizeOne:
		return 1
	case SizeTwo:
		return 2
	case SizeFour:
		return 4
	case SizeEight:
		return 8
	default:
		return 0
	}
}

// Const is a named constant of an enumeration or a bit of a bit field.
type Const struct {
	Name  string
	Value uint64
	Title string
}

// Item describes a configuration item.
type Item struct {
	Name   string
	ID     uint32
	Type   Type
	Scale  string
	Unit   string
	Title  string
	Consts []Const
}

// Value is a configuration value in its raw form. Signed and floating point
// values are stored as their bit pattern sign or float extended to 64 bits.
type Value uint64

// KeyVal is a configuration key together with its value.
type KeyVal struct {
	ID    uint32
	Value Value
}

func (kv KeyVal) String() string {
	return StringifyKeyVal(kv)
}

// The available configuration errors.
var (
	ErrUnknownItem = errors.New("unknown configuration item")
	ErrBadValue    = errors.New("bad value")
	ErrBadLayer    = errors.New("bad layer")
	ErrBadData     = errors.New("bad configuration data")
)

func badValue(item *Item, str string, reason string) error {
	return fmt.Errorf("%w for %s (%s): %q: %s", ErrBadValue, item.Name, item.Type, str, reason)
}
