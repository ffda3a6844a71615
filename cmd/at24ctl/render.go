// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maruel/ansi256"
	"golang.org/x/image/font/gofont/goregular"
)

// hexDump writes a classic hex and ASCII dump. Erased 0xff bytes are
// dimmed so programmed regions stand out.
func hexDump(w io.Writer, addr int, buf []byte) error {
	var b bytes.Buffer
	for row := 0; row < len(buf); row += 16 {
		fmt.Fprintf(&b, "%04x ", addr+row)
		end := row + 16
		if end > len(buf) {
			end = len(buf)
		}
		for i := row; i < row+16; i++ {
			if i%8 == 0 {
				b.WriteByte(' ')
			}
			if i >= end {
				b.WriteString("   ")
				continue
			}
			if buf[i] == 0xff {
				fmt.Fprintf(&b, "\033[2m%02x\033[0m ", buf[i])
			} else {
				fmt.Fprintf(&b, "%02x ", buf[i])
			}
		}
		b.WriteString(" |")
		for i := row; i < end; i++ {
			if buf[i] >= 0x20 && buf[i] < 0x7f {
				b.WriteByte(buf[i])
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	_, err := b.WriteTo(w)
	return err
}

// heatMap draws one colored terminal block per byte, brightness
// tracking the byte value, 64 bytes per row.
func heatMap(w io.Writer, addr int, buf []byte) error {
	var b bytes.Buffer
	for i, v := range buf {
		if i%64 == 0 {
			if i != 0 {
				b.WriteString("\033[0m\n")
			}
			fmt.Fprintf(&b, "%04x  ", addr+i)
		}
		b.WriteString(ansi256.Default.Block(color.NRGBA{R: v, G: v, B: v, A: 255}))
	}
	b.WriteString("\033[0m\n")
	_, err := b.WriteTo(w)
	return err
}

const (
	mapBytesPerRow = 128
	mapCell        = 4
	mapMarginLeft  = 56
	mapMarginTop   = 26
)

// memoryMap renders the array as a grid of cells, one byte each.
// Erased bytes are light gray, programmed bytes are shaded by value.
// Row addresses are labeled every 16 rows.
func memoryMap(buf []byte) (*gg.Context, error) {
	rows := (len(buf) + mapBytesPerRow - 1) / mapBytesPerRow
	dc := gg.NewContext(mapMarginLeft+mapBytesPerRow*mapCell+8, mapMarginTop+rows*mapCell+8)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 11}))

	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("%d bytes, %d per row", len(buf), mapBytesPerRow), mapMarginLeft, 17)
	for i, v := range buf {
		row := i / mapBytesPerRow
		col := i % mapBytesPerRow
		if col == 0 && row%16 == 0 {
			dc.SetRGB(0, 0, 0)
			dc.DrawString(fmt.Sprintf("%04x", i), 6, float64(mapMarginTop+row*mapCell+10))
		}
		if v == 0xff {
			dc.SetRGB(0.93, 0.93, 0.93)
		} else {
			shade := float64(v) / 255
			dc.SetRGB(0.15, 0.25+0.55*shade, 0.85-0.55*shade)
		}
		dc.DrawRectangle(float64(mapMarginLeft+col*mapCell), float64(mapMarginTop+row*mapCell), mapCell, mapCell)
		dc.Fill()
	}
	return dc, nil
}
