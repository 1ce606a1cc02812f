package ipkey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net/netip"
)

const (
	V4 = 4
	V6 = 6
)

var (
	ErrInvalidAddress = errors.New("ipkey: invalid address")

	// ErrUnrepresentable is returned for IPv6 addresses whose high 64 bits do
	// not fit a signed 64-bit key. It wraps ErrInvalidAddress.
	ErrUnrepresentable = fmt.Errorf("%w: ipv6 high bits exceed int64 range", ErrInvalidAddress)
)

// Key is the comparable form of an address stored in the range tables.
// IPv4 keys hold the whole address, IPv6 keys only the high 64 bits.
type Key struct {
	Version int
	Value   int64
}

func Encode(raw string) (Key, error) {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	if addr.Zone() != "" {
		return Key{}, fmt.Errorf("%w: zoned address %q", ErrInvalidAddress, raw)
	}
	return FromAddr(addr)
}

func FromAddr(addr netip.Addr) (Key, error) {
	switch {
	case addr.Is4():
		b := addr.As4()
		return Key{Version: V4, Value: int64(binary.BigEndian.Uint32(b[:]))}, nil
	case addr.Is6():
		b := addr.As16()
		high := binary.BigEndian.Uint64(b[:8])
		if high > math.MaxInt64 {
			return Key{}, fmt.Errorf("%w: %s", ErrUnrepresentable, addr)
		}
		return Key{Version: V6, Value: int64(high)}, nil
	default:
		return Key{}, ErrInvalidAddress
	}
}

// Addr returns the address the key stands for. For IPv6 the low 64 bits
// are zero since they are not part of the key.
func (k Key) Addr() netip.Addr {
	if k.Version == V4 {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(k.Value))
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], uint64(k.Value))
	return netip.AddrFrom16(b)
}

func (k Key) String() string {
	return fmt.Sprintf("v%d:%d", k.Version, k.Value)
}
