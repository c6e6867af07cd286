// Package word holds the modular arithmetic helpers that define the
// machine's fixed bit widths: an 8-bit data word and a 4-bit address space.
// Every register write and every memory index computation goes through one
// of these masks, so overflow and underflow are silent wrap-around rather
// than errors.
package word

// U8 reduces v modulo 256.
func U8(v int) uint8 {
	return uint8(v & 0xFF)
}

// U4 reduces v modulo 16.
func U4(v int) uint8 {
	return uint8(v & 0x0F)
}
