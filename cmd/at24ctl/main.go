// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// at24ctl inspects and programs AT24Cxx serial EEPROMs.
//
// Examples:
//
//	at24ctl -chip AT24C256 probe
//	at24ctl -chip AT24C64 dump 0 256
//	at24ctl -chip AT24C64 write 0x100 firmware.bin
//	at24ctl -chip AT24C64 -wp GPIO22 erase -yes
//	at24ctl -chip AT24C64 map eeprom.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/GermanBionicSystems/at24cxx"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	busName   = flag.String("bus", "", "I²C bus name or number, empty for the first available")
	chipName  = flag.String("chip", "AT24C256", "chip variant, AT24C01 through AT24C512")
	selectArg = flag.Int("select", 0, "value of the A2..A0 address straps")
	wpName    = flag.String("wp", "", "GPIO pin wired to the write-protect input")
	bufSize   = flag.Int("buffer", 0, "bus transfer buffer size, 0 for the default")
	txTimeout = flag.Duration("timeout", 0, "per transaction timeout, 0 to disable")
	yes       = flag.Bool("yes", false, "confirm destructive commands")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: at24ctl [flags] command [args]\n\n")
	fmt.Fprintf(os.Stderr, "commands:\n")
	fmt.Fprintf(os.Stderr, "  probe            check the chip answers and print its geometry\n")
	fmt.Fprintf(os.Stderr, "  dump [addr [n]]  hex dump a range, whole chip by default\n")
	fmt.Fprintf(os.Stderr, "  heat [addr [n]]  draw a range as colored blocks, one per byte\n")
	fmt.Fprintf(os.Stderr, "  read addr n out  save a range to a binary file\n")
	fmt.Fprintf(os.Stderr, "  write addr file  program a file, or - for stdin, at addr\n")
	fmt.Fprintf(os.Stderr, "  verify addr file compare chip contents with a file\n")
	fmt.Fprintf(os.Stderr, "  erase            fill the chip with 0xff, needs -yes\n")
	fmt.Fprintf(os.Stderr, "  map out.png      render the array as a PNG memory map\n\n")
	fmt.Fprintf(os.Stderr, "flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}
	if err := mainImpl(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "at24ctl: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl(cmd string, args []string) error {
	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer b.Close()

	opts := at24cxx.Opts{
		Select:        uint8(*selectArg),
		BusBufferSize: *bufSize,
		TxTimeout:     *txTimeout,
	}
	if *wpName != "" {
		pin := gpioreg.ByName(*wpName)
		if pin == nil {
			return fmt.Errorf("no GPIO pin named %q", *wpName)
		}
		opts.WP = pin
	}
	dev, err := at24cxx.New(b, at24cxx.Variant(*chipName), &opts)
	if err != nil {
		return err
	}
	defer dev.Halt()

	switch cmd {
	case "probe":
		if len(args) != 0 {
			return errors.New("probe takes no arguments")
		}
		return probe(dev)
	case "dump", "heat":
		addr, n, err := rangeArgs(args, dev.Capacity())
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		if err := dev.Read(addr, buf); err != nil {
			return err
		}
		w := colorable.NewColorableStdout()
		if cmd == "heat" {
			return heatMap(w, int(addr), buf)
		}
		return hexDump(w, int(addr), buf)
	case "read":
		if len(args) != 3 {
			return errors.New("read needs an address, a length and an output file")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		n, err := parseNum(args[1])
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		if err := dev.Read(addr, buf); err != nil {
			return err
		}
		if err := ioutil.WriteFile(args[2], buf, 0644); err != nil {
			return err
		}
		fmt.Printf("saved %d bytes at %#04x into %s\n", n, addr, args[2])
		return nil
	case "write":
		if len(args) != 2 {
			return errors.New("write needs an address and an input file")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		return program(dev, addr, args[1])
	case "verify":
		if len(args) != 2 {
			return errors.New("verify needs an address and a reference file")
		}
		addr, err := parseAddr(args[0])
		if err != nil {
			return err
		}
		return verify(dev, addr, args[1])
	case "erase":
		if len(args) != 0 {
			return errors.New("erase takes no arguments")
		}
		if !*yes {
			return errors.New("erase overwrites the whole chip, pass -yes to confirm")
		}
		if err := dev.EraseChip(); err != nil {
			return err
		}
		fmt.Printf("erased %d bytes\n", dev.Capacity())
		return nil
	case "map":
		if len(args) != 1 {
			return errors.New("map needs an output file")
		}
		buf := make([]byte, dev.Capacity())
		if err := dev.Read(0, buf); err != nil {
			return err
		}
		dc, err := memoryMap(buf)
		if err != nil {
			return err
		}
		if err := dc.SavePNG(args[0]); err != nil {
			return err
		}
		fmt.Printf("rendered %d bytes into %s\n", len(buf), args[0])
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func probe(dev *at24cxx.Dev) error {
	fmt.Printf("%s: %d bytes in %d byte pages\n", dev, dev.Capacity(), dev.PageSize())
	if !dev.IsConnected() {
		return errors.New("no acknowledgment from the chip")
	}
	fmt.Println("chip acknowledged")
	return nil
}

func program(dev *at24cxx.Dev, addr uint16, path string) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = ioutil.ReadAll(os.Stdin)
	} else {
		data, err = ioutil.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if err := dev.Write(addr, data); err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes at %#04x\n", len(data), addr)
	return nil
}

func verify(dev *at24cxx.Dev, addr uint16, path string) error {
	want, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	got := make([]byte, len(want))
	if err := dev.Read(addr, got); err != nil {
		return err
	}
	w := colorable.NewColorableStdout()
	diffs := 0
	for i := range want {
		if got[i] != want[i] {
			if diffs < 16 {
				fmt.Fprintf(w, "\033[31m%04x: chip %02x file %02x\033[0m\n", int(addr)+i, got[i], want[i])
			}
			diffs++
		}
	}
	if diffs == 0 {
		fmt.Fprintf(w, "\033[32mok\033[0m: %d bytes match\n", len(want))
		return nil
	}
	if diffs > 16 {
		fmt.Fprintf(w, "(%d more)\n", diffs-16)
	}
	return fmt.Errorf("%d of %d bytes differ", diffs, len(want))
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", s)
	}
	return uint16(v), nil
}

func parseNum(s string) (int, error) {
	v, err := strconv.ParseUint(s, 0, 31)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return int(v), nil
}

// rangeArgs parses the optional [addr [n]] arguments of dump and heat,
// defaulting to the whole array.
func rangeArgs(args []string, capacity int) (uint16, int, error) {
	if len(args) > 2 {
		return 0, 0, errors.New("too many arguments")
	}
	addr := uint16(0)
	var err error
	if len(args) >= 1 {
		if addr, err = parseAddr(args[0]); err != nil {
			return 0, 0, err
		}
	}
	n := capacity - int(addr)
	if len(args) == 2 {
		if n, err = parseNum(args[1]); err != nil {
			return 0, 0, err
		}
	}
	if n <= 0 {
		return 0, 0, errors.New("empty range")
	}
	return addr, n, nil
}
