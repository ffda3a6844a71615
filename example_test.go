// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package at24cxx_test

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/at24cxx"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	// A 256 Kbit EEPROM with the address straps grounded.
	dev, err := at24cxx.New(b, at24cxx.AT24C256, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	if err := dev.WriteString(0, "Hello, EEPROM"); err != nil {
		log.Fatal(err)
	}
	buf := make([]byte, 13)
	if err := dev.Read(0, buf); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", buf)
}
