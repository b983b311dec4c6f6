// Package regio reads and writes single registers on an I2C device.
//
// Every operation is one bus transaction: the register address frame is
// written and, for reads, the value frame is received before the bus is
// released.
package regio

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Op names the kind of transaction that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// BusError is returned when a transaction on the bus fails. The underlying
// periph error is available through Unwrap.
type BusError struct {
	Op   Op
	Addr uint16
	Reg  uint8
	Err  error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("i2c %s 0x%02X reg 0x%02X: %v", e.Op, e.Addr, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error { return e.Err }

// AddrFrame returns the register address frame: byte 0 is the register.
func AddrFrame(reg uint8) []byte {
	return []byte{reg}
}

// U8Frame returns a write frame for an 8-bit register: byte 0 is the
// register, byte 1 the value.
func U8Frame(reg, val uint8) []byte {
	return []byte{reg, val}
}

// U16Frame returns a write frame for a 16-bit register: byte 0 is the
// register, bytes 1-2 the value, least significant byte first.
func U16Frame(reg uint8, val uint16) []byte {
	return []byte{reg, byte(val), byte(val >> 8)}
}

// Dev is a device at a fixed address on a bus.
type Dev struct {
	d *i2c.Dev
}

// New binds addr on bus.
func New(bus i2c.Bus, addr uint16) *Dev {
	return &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}}
}

// Addr returns the device address.
func (d *Dev) Addr() uint16 {
	return d.d.Addr
}

// ReadU8 reads an 8-bit register.
func (d *Dev) ReadU8(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := d.d.Tx(AddrFrame(reg), buf[:]); err != nil {
		return 0, d.wrap(OpRead, reg, err)
	}
	return buf[0], nil
}

// WriteU8 writes an 8-bit register.
func (d *Dev) WriteU8(reg, val uint8) error {
	if err := d.d.Tx(U8Frame(reg, val), nil); err != nil {
		return d.wrap(OpWrite, reg, err)
	}
	return nil
}

// ReadU16 reads a 16-bit register sent least significant byte first.
func (d *Dev) ReadU16(reg uint8) (uint16, error) {
	var buf [2]byte
	if err := d.d.Tx(AddrFrame(reg), buf[:]); err != nil {
		return 0, d.wrap(OpRead, reg, err)
	}
	return uint16(buf[0]) | uint16(buf[1])<<8, nil
}

// WriteU16 writes a 16-bit register, least significant byte first.
func (d *Dev) WriteU16(reg uint8, val uint16) error {
	if err := d.d.Tx(U16Frame(reg, val), nil); err != nil {
		return d.wrap(OpWrite, reg, err)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s(0x%02X)", d.d.Bus, d.d.Addr)
}

func (d *Dev) wrap(op Op, reg uint8, err error) error {
	return &BusError{Op: op, Addr: d.d.Addr, Reg: reg, Err: err}
}
