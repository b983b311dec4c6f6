// Package bq24193 controls a Texas Instruments BQ24193 battery charger over
// an I2C bus.
//
// # Datasheet
//
// https://www.ti.com/lit/ds/symlink/bq24193.pdf
package bq24193

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"battd/internal/regio"
)

const Addr = 0x6B

const (
	RegChargeCurrentControl uint8 = 0x02
	RegSystemStatus         uint8 = 0x08
)

// ChargeState is CHRG_STAT of the system status register.
type ChargeState uint8

const (
	NotCharging ChargeState = iota
	PreCharge
	FastCharging
	ChargeDone
)

func (c ChargeState) String() string {
	switch c {
	case NotCharging:
		return "Not Charging"
	case PreCharge:
		return "Pre-Charge"
	case FastCharging:
		return "Fast Charging"
	case ChargeDone:
		return "Charge Done"
	}
	return fmt.Sprintf("ChargeState(%d)", uint8(c))
}

// VBusSource is VBUS_STAT of the system status register.
type VBusSource uint8

const (
	VBusUnknown VBusSource = iota
	VBusUSBHost
	VBusAdapter
	VBusOTG
)

func (v VBusSource) String() string {
	switch v {
	case VBusUnknown:
		return "Unknown"
	case VBusUSBHost:
		return "USB Host"
	case VBusAdapter:
		return "Adapter"
	case VBusOTG:
		return "OTG"
	}
	return fmt.Sprintf("VBusSource(%d)", uint8(v))
}

// Status is a decoded snapshot of the charger.
type Status struct {
	VBus        VBusSource
	Charge      ChargeState
	PowerGood   bool
	LimitMilliA uint32
}

// Charging reports whether the charger is actively putting current into the
// battery.
func (s *Status) Charging() bool {
	return s.Charge == PreCharge || s.Charge == FastCharging
}

// BQ24193 is a handle to the charger.
type BQ24193 struct {
	mu  sync.Mutex
	dev *regio.Dev
}

func NewBQ24193(bus i2c.Bus) (*BQ24193, error) {
	return &BQ24193{dev: regio.New(bus, Addr)}, nil
}

func (b *BQ24193) String() string {
	return "BQ24193{" + b.dev.String() + "}"
}

// FastChargeCurrentLimit reads the fast-charge current limit in mA.
func (b *BQ24193) FastChargeCurrentLimit() (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.limit()
}

// SetFastChargeCurrentLimit writes the fast-charge current limit. Values out
// of range are capped, see EncodeChargeCurrent.
func (b *BQ24193) SetFastChargeCurrentLimit(ma uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dev.WriteU8(RegChargeCurrentControl, EncodeChargeCurrent(ma))
}

// FastChargeCurrent is FastChargeCurrentLimit in physic units.
func (b *BQ24193) FastChargeCurrent() (physic.ElectricCurrent, error) {
	ma, err := b.FastChargeCurrentLimit()
	if err != nil {
		return 0, err
	}
	return physic.ElectricCurrent(ma) * physic.MilliAmpere, nil
}

// GetStatus reads the system status register and the current limit.
func (b *BQ24193) GetStatus() (*Status, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw, err := b.dev.ReadU8(RegSystemStatus)
	if err != nil {
		return nil, err
	}
	limit, err := b.limit()
	if err != nil {
		return nil, err
	}
	return &Status{
		VBus:        VBusSource(raw >> 6),
		Charge:      ChargeState((raw >> 4) & 0b11),
		PowerGood:   (raw>>2)&1 == 1,
		LimitMilliA: limit,
	}, nil
}

func (b *BQ24193) limit() (uint32, error) {
	raw, err := b.dev.ReadU8(RegChargeCurrentControl)
	if err != nil {
		return 0, err
	}
	return DecodeChargeCurrent(raw), nil
}
