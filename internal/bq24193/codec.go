package bq24193

// Fast-charge current range of the normal encoding, in mA.
const (
	MinChargeCurrent uint32 = 512
	MaxChargeCurrent uint32 = 4544
)

const (
	// Requests at or below this are encoded in low-range mode.
	lowRangeCeiling = MinChargeCurrent - 64
	// Offset subtracted before bucketing the step field.
	stepOffset = MinChargeCurrent - 64

	bitLowRange byte = 1 << 0
)

// EncodeChargeCurrent converts a fast-charge current limit in mA to the
// charge current control register value.
//
// Requests above MaxChargeCurrent are capped. Requests at or below 448 mA
// select low-range mode (bit 0) and are scaled by 5 first. The result is
// rounded down to 100 mA and bucketed into 64 mA steps, so different inputs
// share a code. The offset subtraction saturates at zero.
func EncodeChargeCurrent(ma uint32) byte {
	var raw byte
	if ma > MaxChargeCurrent {
		ma = MaxChargeCurrent
	}
	if ma <= lowRangeCeiling {
		ma *= 5
		raw |= bitLowRange
	}
	ma -= ma % 100
	if ma > stepOffset {
		ma -= stepOffset
	} else {
		ma = 0
	}
	raw |= byte(ma>>6) << 2
	return raw
}

// DecodeChargeCurrent converts a charge current control register value to
// mA. Every input decodes; bit 1 is ignored.
//
// The low-range path scales by 20/100 after the 512 mA base is added, so it
// does not exactly invert EncodeChargeCurrent.
func DecodeChargeCurrent(raw byte) uint32 {
	ma := uint32(raw>>2)<<6 + MinChargeCurrent
	if raw&bitLowRange != 0 {
		ma = ma * 20 / 100
	}
	return ma
}
