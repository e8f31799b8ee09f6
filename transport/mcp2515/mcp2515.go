// go-canview
// Copyright (c) 2025 The CanView Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-canview.
//
// go-canview is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-canview is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-canview; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package mcp2515 provides a frame source for SPI-attached MCP2515 CAN
// controllers (16 MHz oscillator). The driver is receive-oriented: both
// RX buffers accept any frame and are drained through ReadFrame.
package mcp2515

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	canview "github.com/CanViewProject/go-canview"
)

// SPI instruction set.
const (
	cmdReset      = 0xC0
	cmdRead       = 0x03
	cmdWrite      = 0x02
	cmdReadStatus = 0xA0
	cmdBitModify  = 0x05
	cmdReadRX0    = 0x90
	cmdReadRX1    = 0x94
)

// Register addresses.
const (
	regCNF3     = 0x28
	regCNF2     = 0x29
	regCNF1     = 0x2A
	regCANINTE  = 0x2B
	regCANINTF  = 0x2C
	regCANCTRL  = 0x0F
	regCANSTAT  = 0x0E
	regRXB0CTRL = 0x60
	regRXB1CTRL = 0x70
)

// CANCTRL request modes (bits 7..5).
const (
	modeNormal     = 0x00
	modeListenOnly = 0x60
	modeConfig     = 0x80
	modeMask       = 0xE0
)

// Read-status bits for the two receive buffers.
const (
	statRX0Full = 0x01
	statRX1Full = 0x02
)

// rxAnyFrame turns off the receive filters on a buffer control register.
const rxAnyFrame = 0x60

const spiClock = 10 * physic.MegaHertz

// cnfPresets holds CNF1..CNF3 timing presets for a 16 MHz oscillator.
var cnfPresets = map[int][3]byte{
	125000:  {0x03, 0xF0, 0x86},
	250000:  {0x41, 0xF1, 0x85},
	500000:  {0x00, 0xF0, 0x86},
	1000000: {0x00, 0xD0, 0x82},
}

// Source reads frames from an MCP2515 over SPI.
type Source struct {
	port  spi.PortCloser
	conn  spi.Conn
	epoch time.Time
}

// New opens the SPI port ("SPI0.0", "/dev/spidev0.0"), resets the
// controller, programs the bit timing for the bitrate and enters normal
// mode. Use NewListenOnly for a bus-silent viewer.
func New(portName string, bitrate int) (*Source, error) {
	return open(portName, bitrate, modeNormal)
}

// NewListenOnly opens the controller in listen-only mode: no ACK slots
// and no error frames are driven onto the bus.
func NewListenOnly(portName string, bitrate int) (*Source, error) {
	return open(portName, bitrate, modeListenOnly)
}

func open(portName string, bitrate int, mode byte) (*Source, error) {
	cnf, ok := cnfPresets[bitrate]
	if !ok {
		return nil, &canview.SourceError{
			Op:     "open",
			Source: canview.SourceMCP2515,
			Err:    fmt.Errorf("unsupported bitrate %d", bitrate),
		}
	}

	if _, err := host.Init(); err != nil {
		return nil, &canview.SourceError{Op: "init", Source: canview.SourceMCP2515, Err: err}
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, &canview.SourceError{Op: "open", Source: canview.SourceMCP2515, Err: err}
	}
	conn, err := port.Connect(spiClock, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, &canview.SourceError{Op: "connect", Source: canview.SourceMCP2515, Err: err}
	}

	s := &Source{port: port, conn: conn, epoch: time.Now()}
	if err := s.setup(cnf, mode); err != nil {
		_ = port.Close()
		return nil, err
	}
	return s, nil
}

func (s *Source) setup(cnf [3]byte, mode byte) error {
	if err := s.tx([]byte{cmdReset}); err != nil {
		return err
	}
	// The controller needs a moment to come back in configuration mode.
	time.Sleep(10 * time.Millisecond)

	if err := s.writeReg(regCNF1, cnf[0]); err != nil {
		return err
	}
	if err := s.writeReg(regCNF2, cnf[1]); err != nil {
		return err
	}
	if err := s.writeReg(regCNF3, cnf[2]); err != nil {
		return err
	}
	if err := s.writeReg(regRXB0CTRL, rxAnyFrame); err != nil {
		return err
	}
	if err := s.writeReg(regRXB1CTRL, rxAnyFrame); err != nil {
		return err
	}
	// Interrupt pins are unused; ReadFrame polls the status register.
	if err := s.writeReg(regCANINTE, 0); err != nil {
		return err
	}

	if err := s.bitModify(regCANCTRL, modeMask, mode); err != nil {
		return err
	}
	stat, err := s.readReg(regCANSTAT)
	if err != nil {
		return err
	}
	if stat&modeMask != mode {
		return &canview.SourceError{
			Op:     "setup",
			Source: canview.SourceMCP2515,
			Err:    fmt.Errorf("mode change refused, CANSTAT=0x%02X", stat),
		}
	}
	return nil
}

// ReadFrame drains the next full receive buffer, or returns
// canview.ErrNoFrame when both buffers are empty.
func (s *Source) ReadFrame() (canview.Frame, error) {
	status, err := s.readStatus()
	if err != nil {
		return canview.Frame{}, err
	}

	var cmd byte
	switch {
	case status&statRX0Full != 0:
		cmd = cmdReadRX0
	case status&statRX1Full != 0:
		cmd = cmdReadRX1
	default:
		return canview.Frame{}, canview.ErrNoFrame
	}

	// SIDH SIDL EID8 EID0 DLC D0..D7; the buffer-read instruction
	// clears the buffer's full flag on CS release.
	buf := make([]byte, 14)
	write := make([]byte, 14)
	write[0] = cmd
	if err := s.conn.Tx(write, buf); err != nil {
		return canview.Frame{}, &canview.SourceError{Op: "read", Source: canview.SourceMCP2515, Err: err}
	}

	f := decodeRXBuffer(buf[1:])
	f.Timestamp = time.Since(s.epoch).Seconds()
	return f, nil
}

// Close puts the controller back into configuration mode and closes the
// SPI port.
func (s *Source) Close() error {
	_ = s.bitModify(regCANCTRL, modeMask, modeConfig)
	if err := s.port.Close(); err != nil {
		return &canview.SourceError{Op: "close", Source: canview.SourceMCP2515, Err: err}
	}
	return nil
}

// Type returns the source backend type.
func (*Source) Type() canview.SourceType {
	return canview.SourceMCP2515
}

// decodeRXBuffer converts the 13 receive-buffer registers into a frame.
func decodeRXBuffer(b []byte) canview.Frame {
	var f canview.Frame
	std := uint32(b[0])<<3 | uint32(b[1])>>5
	if b[1]&0x08 != 0 {
		f.Extended = true
		f.ID = std<<18 | uint32(b[1]&0x03)<<16 | uint32(b[2])<<8 | uint32(b[3])
		f.RTR = b[4]&0x40 != 0
	} else {
		f.ID = std
		f.RTR = b[1]&0x10 != 0
	}

	dlc := int(b[4] & 0x0F)
	if dlc > 8 {
		dlc = 8
	}
	if !f.RTR {
		f.Data = make([]byte, dlc)
		copy(f.Data, b[5:5+dlc])
	}
	return f
}

func (s *Source) tx(w []byte) error {
	if err := s.conn.Tx(w, nil); err != nil {
		return &canview.SourceError{Op: "tx", Source: canview.SourceMCP2515, Err: err}
	}
	return nil
}

func (s *Source) writeReg(reg, val byte) error {
	return s.tx([]byte{cmdWrite, reg, val})
}

func (s *Source) readReg(reg byte) (byte, error) {
	r := make([]byte, 3)
	if err := s.conn.Tx([]byte{cmdRead, reg, 0}, r); err != nil {
		return 0, &canview.SourceError{Op: "read", Source: canview.SourceMCP2515, Err: err}
	}
	return r[2], nil
}

func (s *Source) readStatus() (byte, error) {
	r := make([]byte, 2)
	if err := s.conn.Tx([]byte{cmdReadStatus, 0}, r); err != nil {
		return 0, &canview.SourceError{Op: "status", Source: canview.SourceMCP2515, Err: err}
	}
	return r[1], nil
}

func (s *Source) bitModify(reg, mask, val byte) error {
	return s.tx([]byte{cmdBitModify, reg, mask, val})
}
