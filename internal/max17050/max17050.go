// Package max17050 reads a Maxim MAX17050 fuel gauge over an I2C bus.
//
// # Datasheet
//
// https://datasheets.maximintegrated.com/en/ds/MAX17047-MAX17050.pdf
package max17050

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"battd/internal/regio"
)

const Addr = 0x36

const (
	RegStatus     uint8 = 0x00
	RegRepCap     uint8 = 0x05
	RegRepSOC     uint8 = 0x06
	RegTemp       uint8 = 0x08
	RegVCell      uint8 = 0x09
	RegCurrent    uint8 = 0x0A
	RegAvgCurrent uint8 = 0x0B
	RegFullCap    uint8 = 0x10
)

// Opts holds the board configuration of the gauge.
type Opts struct {
	// SenseResistor is the current sense resistor in µΩ.
	SenseResistor uint32
	// CurrentGain is the board calibration applied to current readings.
	CurrentGain float64
}

// DefaultOpts holds the values for a 5mΩ sense resistor board.
var DefaultOpts = Opts{
	SenseResistor: 5000,
	CurrentGain:   1.99993,
}

// Status is a converted snapshot of the gauge.
type Status struct {
	SOC        float64 // percent
	Voltage    physic.ElectricPotential
	Current    physic.ElectricCurrent // positive while charging
	AvgCurrent physic.ElectricCurrent
	Temp       physic.Temperature
	RepCapMAh  float64
	FullCapMAh float64
}

type MAX17050 struct {
	mu   sync.Mutex
	dev  *regio.Dev
	opts Opts
}

// NewMAX17050 returns a handle to the gauge. The Opts can be nil.
func NewMAX17050(bus i2c.Bus, opts *Opts) (*MAX17050, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.SenseResistor == 0 {
		return nil, fmt.Errorf("max17050: sense resistor must be non-zero")
	}
	if opts.CurrentGain <= 0 {
		return nil, fmt.Errorf("max17050: current gain must be positive, got %g", opts.CurrentGain)
	}
	return &MAX17050{dev: regio.New(bus, Addr), opts: *opts}, nil
}

func (m *MAX17050) String() string {
	return "MAX17050{" + m.dev.String() + "}"
}

// ReadReg reads a raw 16-bit register.
func (m *MAX17050) ReadReg(reg uint8) (uint16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev.ReadU16(reg)
}

// GetStatus reads and converts the reported SOC, cell voltage, current,
// temperature and capacities.
func (m *MAX17050) GetStatus() (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	regs := [...]uint8{RegRepSOC, RegVCell, RegCurrent, RegAvgCurrent, RegTemp, RegRepCap, RegFullCap}
	var raw [len(regs)]uint16
	for i, reg := range regs {
		v, err := m.dev.ReadU16(reg)
		if err != nil {
			return nil, err
		}
		raw[i] = v
	}

	return &Status{
		SOC:        socPercent(raw[0]),
		Voltage:    cellVoltage(raw[1]),
		Current:    m.current(raw[2]),
		AvgCurrent: m.current(raw[3]),
		Temp:       temperature(raw[4]),
		RepCapMAh:  m.capacity(raw[5]),
		FullCapMAh: m.capacity(raw[6]),
	}, nil
}

// 1/256 % per LSB.
func socPercent(raw uint16) float64 {
	return float64(raw) / 256
}

// 78.125µV per LSB.
func cellVoltage(raw uint16) physic.ElectricPotential {
	return physic.ElectricPotential(raw) * 78125 * physic.NanoVolt
}

// Signed, 1/256 °C per LSB.
func temperature(raw uint16) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(int16(raw))*3906250*physic.NanoKelvin
}

// Signed, 1.5625µV/Rsense per LSB, divided by the board gain.
func (m *MAX17050) current(raw uint16) physic.ElectricCurrent {
	milliOhm := float64(m.opts.SenseResistor) / 1000
	ma := float64(int16(raw)) * 1.5625 / (milliOhm * m.opts.CurrentGain)
	return physic.ElectricCurrent(ma * float64(physic.MilliAmpere))
}

// 5.0µVh/Rsense per LSB.
func (m *MAX17050) capacity(raw uint16) float64 {
	milliOhm := float64(m.opts.SenseResistor) / 1000
	return float64(raw) * 5 / milliOhm
}
