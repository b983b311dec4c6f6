package regio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr uint16 = 0x6B

func TestFrames(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"addr", AddrFrame(0x02), []byte{0x02}},
		{"u8", U8Frame(0x02, 0x60), []byte{0x02, 0x60}},
		{"u16", U16Frame(0x09, 0xC800), []byte{0x09, 0x00, 0xC8}},
	}
	for _, tt := range tests {
		if !bytes.Equal(tt.got, tt.want) {
			t.Errorf("%s frame = %#v, want %#v", tt.name, tt.got, tt.want)
		}
	}
}

func TestReadWrite(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{0x02}, R: []byte{0x60}},
			{Addr: addr, W: []byte{0x02, 0x21}},
			{Addr: addr, W: []byte{0x06}, R: []byte{0x00, 0x32}},
			{Addr: addr, W: []byte{0x06, 0x34, 0x12}},
		},
		DontPanic: true,
	}
	d := New(bus, addr)
	if d.Addr() != addr {
		t.Errorf("Addr() = 0x%02X", d.Addr())
	}

	v8, err := d.ReadU8(0x02)
	if err != nil {
		t.Fatal(err)
	}
	if v8 != 0x60 {
		t.Errorf("ReadU8 = 0x%02X, want 0x60", v8)
	}
	if err := d.WriteU8(0x02, 0x21); err != nil {
		t.Fatal(err)
	}
	v16, err := d.ReadU16(0x06)
	if err != nil {
		t.Fatal(err)
	}
	if v16 != 0x3200 {
		t.Errorf("ReadU16 = 0x%04X, want 0x3200", v16)
	}
	if err := d.WriteU16(0x06, 0x1234); err != nil {
		t.Fatal(err)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBusError(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	d := New(bus, addr)

	tests := []struct {
		name string
		op   Op
		reg  uint8
		call func() error
	}{
		{"ReadU8", OpRead, 0x02, func() error { _, err := d.ReadU8(0x02); return err }},
		{"WriteU8", OpWrite, 0x02, func() error { return d.WriteU8(0x02, 0) }},
		{"ReadU16", OpRead, 0x09, func() error { _, err := d.ReadU16(0x09); return err }},
		{"WriteU16", OpWrite, 0x09, func() error { return d.WriteU16(0x09, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var be *BusError
			if !errors.As(err, &be) {
				t.Fatalf("Expected *BusError, got %v", err)
			}
			if be.Op != tt.op || be.Reg != tt.reg || be.Addr != addr {
				t.Errorf("Unexpected detail %+v", be)
			}
			if be.Unwrap() == nil {
				t.Error("Expected wrapped cause")
			}
			if !strings.Contains(err.Error(), "reg 0x") {
				t.Errorf("Unexpected message %q", err.Error())
			}
		})
	}
}
