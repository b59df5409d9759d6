// Package endian converts values between host and network byte order for
// hosts whose byte order may differ per value type, including the mixed
// orders of some older processors.
package endian

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// ErrBadSize is returned when converting a value whose size is not 1, 2, 4 or
// 8 bytes.
var ErrBadSize = errors.New("value size must be 1, 2, 4 or 8")

// Order is a byte order.
type Order int

// Possible values of Order.
const (
	// Most significant byte first. This is the network order.
	Big Order = iota
	// Least significant byte first.
	Little
	// 16-bit words in little-endian order, bytes within each word in
	// big-endian order.
	MiddleBig
	// 16-bit words in big-endian order, bytes within each word in
	// little-endian order.
	MiddleLittle
)

var orderNames = [...]string{
	Big: "big", Little: "little", MiddleBig: "middle-big", MiddleLittle: "middle-little",
}

func (o Order) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("(bad order %d)", int(o))
	}
	return orderNames[o]
}

// HostOrders keeps the byte order of each kind of value on a host.
type HostOrders struct {
	Int16, Int32, Int64, Float, Double Order
}

// Host returns the byte orders of the running host.
func Host() HostOrders {
	o := Little
	if hostIsBig() {
		o = Big
	}
	return HostOrders{o, o, o, o, o}
}

// hostIsBig reports whether the most significant byte of a value is stored
// first in memory.
func hostIsBig() bool {
	var x uint16 = 0x0102
	return *(*byte)(unsafe.Pointer(&x)) == 0x01
}

// HtoN converts value in place from the from order to network order.
func HtoN(value []byte, from Order) error {
	switch len(value) {
	case 1, 2, 4, 8:
	default:
		return ErrBadSize
	}
	switch from {
	case Big:
	case Little:
		reverse(value)
	case MiddleBig:
		reverse(value)
		swapPairs(value)
	case MiddleLittle:
		swapPairs(value)
	default:
		return fmt.Errorf("bad byte order %d", int(from))
	}
	return nil
}

// NtoH converts value in place from network order to the to order. Every
// conversion is its own inverse, so this is the same as HtoN.
func NtoH(value []byte, to Order) error { return HtoN(value, to) }

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func swapPairs(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}

// PutUint16 writes v to b in network order.
func PutUint16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }

// PutUint32 writes v to b in network order.
func PutUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }

// PutUint64 writes v to b in network order.
func PutUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }

// Uint64 reads a value in network order from b.
func Uint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
