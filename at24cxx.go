// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package at24cxx controls the AT24Cxx family of I²C serial EEPROMs,
// 1 Kbit through 512 Kbit.
//
// The family presents a flat byte array but the parts are not wire
// compatible: page size and word-address width vary with capacity, and
// the 4/8/16 Kbit parts carry their high address bits inside the
// device-address byte. The driver hides the differences. Write and
// Read take a logical address and a byte slice and the engine produces
// the correct transaction sequence, including the page splits and the
// 5ms write cycle delay the chips require.
//
// An optional GPIO pin can be wired to the chip's write-protect input;
// see Opts.WP, SetWriteProtect and ClearWriteProtect.
//
// Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/doc0134.pdf
package at24cxx

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

const (
	// baseAddress is the fixed high nibble of every device address in
	// the family. The low three bits come from the A2..A0 straps and,
	// on parts with overflow bits, from the logical address itself.
	baseAddress = 0x50

	// defaultWriteCycleTime is the worst case internal write cycle of
	// the family. The engine sleeps this long after every write
	// transaction.
	defaultWriteCycleTime = 5 * time.Millisecond

	// defaultBusBufferSize matches the 32 byte transfer buffer of the
	// microcontroller I²C stacks these chips are usually wired to.
	// Hosts without that limit can raise it through Opts.
	defaultBusBufferSize = 32
)

// Opts holds the configuration for a device.
type Opts struct {
	// Select is the value of the A2..A0 address straps, 0 to 7. Strap
	// bits claimed by the part for address overflow are ignored.
	Select uint8
	// WP, when set, is the pin wired to the chip's write-protect
	// input. New drives it low so the device starts writable.
	WP gpio.PinOut
	// WriteCycleTime is the delay after each write transaction.
	// Zero selects the family worst case of 5ms.
	WriteCycleTime time.Duration
	// BusBufferSize bounds a single bus transaction, word-address
	// bytes included. Zero selects the default of 32.
	BusBufferSize int
	// TxTimeout bounds each bus transaction. Zero disables the
	// watchdog.
	TxTimeout time.Duration
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	WriteCycleTime: defaultWriteCycleTime,
	BusBufferSize:  defaultBusBufferSize,
}

// Dev is a handle to an AT24Cxx EEPROM on an I²C bus.
//
// All methods are synchronous and blocking. The zero Dev is not
// usable; obtain one from New. The driver does not serialize access to
// a bus shared between devices.
type Dev struct {
	bus        i2c.Bus
	variant    Variant
	chip       chip
	base       uint16 // 7-bit device address with the overflow bits cleared
	wp         gpio.PinOut
	writeCycle time.Duration
	busBuf     int
	txTimeout  time.Duration
}

// New returns a handle to the EEPROM variant on bus.
//
// opts can be nil, in which case DefaultOpts is used. When a
// write-protect pin is supplied it is driven low, leaving the chip
// writable.
func New(bus i2c.Bus, variant Variant, opts *Opts) (*Dev, error) {
	c, ok := variants[variant]
	if !ok {
		return nil, fmt.Errorf("at24cxx: unknown variant %q", variant)
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	writeCycle := opts.WriteCycleTime
	if writeCycle == 0 {
		writeCycle = defaultWriteCycleTime
	}
	busBuf := opts.BusBufferSize
	if busBuf == 0 {
		busBuf = defaultBusBufferSize
	}
	if busBuf <= c.addrBytes {
		return nil, fmt.Errorf("at24cxx: bus buffer of %d cannot carry a %d byte word address", busBuf, c.addrBytes)
	}
	d := &Dev{
		bus:        bus,
		variant:    variant,
		chip:       c,
		base:       (baseAddress | uint16(opts.Select&0x07)) &^ c.ovMask(),
		wp:         opts.WP,
		writeCycle: writeCycle,
		busBuf:     busBuf,
		txTimeout:  opts.TxTimeout,
	}
	if d.wp != nil {
		if err := d.wp.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("at24cxx: releasing write protect: %w", err)
		}
	}
	return d, nil
}

// Capacity returns the size of the array in bytes.
func (d *Dev) Capacity() int {
	return d.chip.capacity
}

// PageSize returns the write page size in bytes.
func (d *Dev) PageSize() int {
	return d.chip.pageSize
}

// IsConnected probes the device address with an empty write and
// reports whether the chip acknowledged. It reports false on a zero
// Dev without touching any bus. A chip in the middle of its write
// cycle does not acknowledge, so avoid polling this at high frequency.
func (d *Dev) IsConnected() bool {
	if d.bus == nil {
		return false
	}
	return d.tx(d.base, nil, nil) == nil
}

// Write copies p into the array starting at addr.
//
// The engine splits the transfer on page boundaries and sleeps for the
// write cycle time after every transaction, so the data is stable in
// the array once Write returns. If a transaction fails the error is
// returned and the remaining bytes are not written.
func (d *Dev) Write(addr uint16, p []byte) error {
	if err := d.check(int(addr), len(p)); err != nil {
		return err
	}
	pageSize := d.effectivePageSize(len(p))
	cursor := int(addr)
	for len(p) > 0 {
		n := pageSize - cursor%pageSize
		if n > len(p) {
			n = len(p)
		}
		w := make([]byte, 0, d.chip.addrBytes+n)
		w = d.appendWordAddress(w, cursor)
		w = append(w, p[:n]...)
		if err := d.tx(d.deviceAddress(cursor), w, nil); err != nil {
			return err
		}
		time.Sleep(d.writeCycle)
		cursor += n
		p = p[n:]
	}
	return nil
}

// WriteByte writes a single byte at addr.
func (d *Dev) WriteByte(addr uint16, b byte) error {
	return d.Write(addr, []byte{b})
}

// WriteString writes the bytes of s at addr.
func (d *Dev) WriteString(addr uint16, s string) error {
	return d.Write(addr, []byte(s))
}

// Read fills p from the array starting at addr.
//
// The first transaction sets the read cursor with a repeated start and
// the following chunks use current-address reads. On parts that carry
// address bits in the device address the transfer is re-addressed at
// every 256 byte window crossing, where the chip's internal counter
// would otherwise wrap back to the start of the window.
func (d *Dev) Read(addr uint16, p []byte) error {
	if err := d.check(int(addr), len(p)); err != nil {
		return err
	}
	windowed := d.chip.ovBits > 0
	cursor := int(addr)
	issueAddress := true
	for len(p) > 0 {
		n := len(p)
		if n > d.busBuf {
			n = d.busBuf
		}
		if windowed {
			if left := 256 - cursor%256; n > left {
				n = left
			}
		}
		var w []byte
		if issueAddress {
			w = d.appendWordAddress(make([]byte, 0, d.chip.addrBytes), cursor)
		}
		if err := d.tx(d.deviceAddress(cursor), w, p[:n]); err != nil {
			return err
		}
		cursor += n
		p = p[n:]
		issueAddress = windowed && cursor%256 == 0
	}
	return nil
}

// ReadByte returns the byte at addr.
func (d *Dev) ReadByte(addr uint16) (byte, error) {
	var b [1]byte
	if err := d.Read(addr, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// EraseChip overwrites the whole array with 0xFF, the erased state of
// the family. It takes one write cycle per page.
func (d *Dev) EraseChip() error {
	if d.bus == nil {
		return ErrNotInitialized
	}
	page := bytes.Repeat([]byte{0xFF}, d.chip.pageSize)
	for a := 0; a < d.chip.capacity; a += d.chip.pageSize {
		if err := d.Write(uint16(a), page); err != nil {
			return err
		}
	}
	return nil
}

// SetWriteProtect asserts the hardware write-protect line, making the
// array read only. It is a no-op when no WP pin was configured.
func (d *Dev) SetWriteProtect() error {
	if d.bus == nil {
		return ErrNotInitialized
	}
	if d.wp == nil {
		return nil
	}
	return d.wp.Out(gpio.High)
}

// ClearWriteProtect releases the hardware write-protect line. It is a
// no-op when no WP pin was configured.
func (d *Dev) ClearWriteProtect() error {
	if d.bus == nil {
		return ErrNotInitialized
	}
	if d.wp == nil {
		return nil
	}
	return d.wp.Out(gpio.Low)
}

// ReadAt implements io.ReaderAt. A read truncated by the end of the
// array returns io.EOF.
func (d *Dev) ReadAt(p []byte, off int64) (int, error) {
	if d.bus == nil {
		return 0, ErrNotInitialized
	}
	if off < 0 {
		return 0, ErrOutOfRange
	}
	if off >= int64(d.chip.capacity) {
		return 0, io.EOF
	}
	n := len(p)
	if rest := int64(d.chip.capacity) - off; int64(n) > rest {
		n = int(rest)
	}
	if err := d.Read(uint16(off), p[:n]); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. A write that would run past the end
// of the array fails whole with ErrOutOfRange.
func (d *Dev) WriteAt(p []byte, off int64) (int, error) {
	if d.bus == nil {
		return 0, ErrNotInitialized
	}
	if off < 0 || int64(len(p)) > int64(d.chip.capacity)-off {
		return 0, ErrOutOfRange
	}
	if err := d.Write(uint16(off), p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (d *Dev) String() string {
	if d.bus == nil {
		return "at24cxx{uninitialized}"
	}
	return fmt.Sprintf("%s{%s, 0x%02x}", d.variant, d.bus, d.base)
}

// Halt implements conn.Resource. When a write-protect pin was
// configured it is asserted, leaving the array protected.
func (d *Dev) Halt() error {
	if d.wp != nil {
		return d.wp.Out(gpio.High)
	}
	return nil
}

func (d *Dev) check(addr, n int) error {
	if d.bus == nil {
		return ErrNotInitialized
	}
	if addr+n > d.chip.capacity {
		return ErrOutOfRange
	}
	return nil
}

// effectivePageSize returns the page granularity for a write of n
// bytes. A transfer that fits the bus buffer uses the chip's full
// page. Larger transfers are capped to the biggest power of two that
// leaves room for the word address, which keeps every chunk page
// aligned. With the default 32 byte buffer this caps wide-address
// parts at 16 bytes per transaction, narrow parts are never capped.
func (d *Dev) effectivePageSize(n int) int {
	avail := d.busBuf - d.chip.addrBytes
	if n <= avail {
		return d.chip.pageSize
	}
	p := 1
	for p*2 <= avail {
		p *= 2
	}
	if p > d.chip.pageSize {
		p = d.chip.pageSize
	}
	return p
}

// deviceAddress returns the 7-bit device address for a transaction at
// the given logical address. On parts with overflow bits the low bits
// of the device address carry address bits 8 and up.
func (d *Dev) deviceAddress(cursor int) uint16 {
	m := d.chip.ovMask()
	if m == 0 {
		return d.base
	}
	return d.base | uint16(cursor>>8)&m
}

// appendWordAddress appends the word-address bytes for the given
// logical address, most significant byte first.
func (d *Dev) appendWordAddress(w []byte, cursor int) []byte {
	if d.chip.addrBytes == 2 {
		w = append(w, byte(cursor>>8))
	}
	return append(w, byte(cursor))
}

// tx runs one bus transaction, under the watchdog when one is
// configured. On expiry the transaction goroutine is abandoned; the
// bus may still be wedged, the timeout only unblocks the caller.
func (d *Dev) tx(addr uint16, w, r []byte) error {
	if d.txTimeout <= 0 {
		if err := d.bus.Tx(addr, w, r); err != nil {
			return fmt.Errorf("at24cxx: %w", err)
		}
		return nil
	}
	done := make(chan error, 1)
	go func() {
		done <- d.bus.Tx(addr, w, r)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("at24cxx: %w", err)
		}
		return nil
	case <-time.After(d.txTimeout):
		return ErrTimeout
	}
}

var _ conn.Resource = &Dev{}
var _ io.ReaderAt = &Dev{}
var _ io.WriterAt = &Dev{}
