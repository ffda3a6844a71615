// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package at24cxx

// Variant is the type denoting a specific part of the family.
type Variant string

const (
	AT24C01  Variant = "AT24C01"  // AT24C01  1 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C01
	AT24C02  Variant = "AT24C02"  // AT24C02  2 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C02
	AT24C04  Variant = "AT24C04"  // AT24C04  4 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C04
	AT24C08  Variant = "AT24C08"  // AT24C08  8 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C08
	AT24C16  Variant = "AT24C16"  // AT24C16  16 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C16
	AT24C32  Variant = "AT24C32"  // AT24C32  32 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C32
	AT24C64  Variant = "AT24C64"  // AT24C64  64 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C64
	AT24C128 Variant = "AT24C128" // AT24C128 128 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C128
	AT24C256 Variant = "AT24C256" // AT24C256 256 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C256
	AT24C512 Variant = "AT24C512" // AT24C512 512 Kbit EEPROM. Datasheet: https://www.microchip.com/en-us/product/AT24C512
)

// chip describes the geometry of one part: array capacity, write page
// size, how many word-address bytes go on the wire, and how many high
// address bits overflow into the device-address byte because the part
// holds more than a single word-address byte can reach.
type chip struct {
	capacity  int
	pageSize  int
	addrBytes int
	ovBits    uint
}

var variants = map[Variant]chip{
	AT24C01:  {capacity: 128, pageSize: 8, addrBytes: 1, ovBits: 0},
	AT24C02:  {capacity: 256, pageSize: 8, addrBytes: 1, ovBits: 0},
	AT24C04:  {capacity: 512, pageSize: 16, addrBytes: 1, ovBits: 1},
	AT24C08:  {capacity: 1024, pageSize: 16, addrBytes: 1, ovBits: 2},
	AT24C16:  {capacity: 2048, pageSize: 16, addrBytes: 1, ovBits: 3},
	AT24C32:  {capacity: 4096, pageSize: 32, addrBytes: 2, ovBits: 0},
	AT24C64:  {capacity: 8192, pageSize: 32, addrBytes: 2, ovBits: 0},
	AT24C128: {capacity: 16384, pageSize: 64, addrBytes: 2, ovBits: 0},
	AT24C256: {capacity: 32768, pageSize: 64, addrBytes: 2, ovBits: 0},
	AT24C512: {capacity: 65536, pageSize: 128, addrBytes: 2, ovBits: 0},
}

// ovMask returns the device-address bits reserved for overflowing
// address bits, as a mask.
func (c chip) ovMask() uint16 {
	return uint16(1)<<c.ovBits - 1
}
