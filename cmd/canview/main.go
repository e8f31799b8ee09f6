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

// canview is a terminal CAN bus viewer: one row per arbitration id with
// frame counters, timing, CANopen classification and decoded values.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	canview "github.com/CanViewProject/go-canview"
	"github.com/CanViewProject/go-canview/layout"
	"github.com/CanViewProject/go-canview/session"
	"github.com/CanViewProject/go-canview/transport/candump"
	"github.com/CanViewProject/go-canview/transport/cborlog"
	"github.com/CanViewProject/go-canview/transport/mcp2515"
	"github.com/CanViewProject/go-canview/transport/slcan"
	"github.com/CanViewProject/go-canview/transport/socketcan"
)

type config struct {
	channel       *string
	backend       *string
	bitrate       *int
	decode        *string
	filter        *string
	record        *string
	ignoreCANopen *bool
}

func parseFlags() *config {
	cfg := &config{
		channel: flag.String("c", "can0",
			"Channel: interface name (socketcan), device path (slcan, mcp2515) or log file (candump, cbor)"),
		backend: flag.String("i", "socketcan",
			"Backend interface: socketcan, slcan, mcp2515, candump, cbor"),
		bitrate: flag.Int("b", 0, "Bitrate for slcan/mcp2515 backends (0 leaves the adapter as configured)"),
		decode: flag.String("d", "",
			"Decode spec: comma-separated <id>:<format>[:<scale>...] entries, or a file with one entry per line"),
		filter: flag.String("f", "",
			"Comma-separated filters: <id>:<mask> matches, <id>~<mask> inverts; hex values"),
		record:        flag.String("record", "", "Record received frames to a CBOR capture file"),
		ignoreCANopen: flag.Bool("ignore-canopen", false, "Do not show CANopen information"),
	}
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "canview:", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	filters, err := canview.ParseFilters(*cfg.filter)
	if err != nil {
		return err
	}

	table, err := loadDecodeTable(*cfg.decode)
	if err != nil {
		return err
	}

	src, err := openSource(cfg, filters)
	if err != nil {
		return err
	}
	defer src.Close()

	if *cfg.record != "" {
		w, err := cborlog.Create(*cfg.record)
		if err != nil {
			return err
		}
		src = cborlog.NewRecordingSource(src, w)
	}

	opts := []session.Option{
		session.WithLayoutTable(table),
		session.WithFilters(filters),
	}
	if *cfg.ignoreCANopen {
		opts = append(opts, session.WithoutCANopen())
	}
	sess, err := session.New(opts...)
	if err != nil {
		return err
	}

	return view(src, sess, table != nil && table.Len() > 0, !*cfg.ignoreCANopen)
}

// loadDecodeTable builds the layout table from the -d flag: a file path
// or comma-separated entries. An empty flag yields a nil table.
func loadDecodeTable(spec string) (*layout.Table, error) {
	if spec == "" {
		return nil, nil
	}
	if f, err := os.Open(spec); err == nil {
		defer f.Close()
		return layout.ParseFile(f)
	}
	table := layout.NewTable()
	for _, entry := range strings.Split(spec, ",") {
		id, l, err := layout.ParseEntry(strings.TrimSpace(entry))
		if err != nil {
			return nil, err
		}
		table.Add(l, id)
	}
	return table, nil
}

func openSource(cfg *config, filters []canview.Filter) (canview.Source, error) {
	switch *cfg.backend {
	case "socketcan":
		return socketcan.New(*cfg.channel, filters...)
	case "slcan":
		return slcan.New(*cfg.channel, *cfg.bitrate)
	case "mcp2515":
		if *cfg.bitrate == 0 {
			return nil, errors.New("mcp2515 backend needs -b bitrate")
		}
		return mcp2515.NewListenOnly(*cfg.channel, *cfg.bitrate)
	case "candump":
		return candump.Open(*cfg.channel)
	case "cbor":
		return cborlog.Open(*cfg.channel)
	default:
		return nil, fmt.Errorf("unknown backend %q", *cfg.backend)
	}
}

// drain moves pending frames into the session. It reports whether the
// source is exhausted.
func drain(src canview.Source, sess *session.Session, paused bool) (bool, error) {
	for i := 0; i < framesPerTick; i++ {
		f, err := src.ReadFrame()
		switch {
		case errors.Is(err, canview.ErrNoFrame):
			return false, nil
		case errors.Is(err, io.EOF):
			return true, nil
		case err != nil:
			return false, err
		}
		if !paused {
			sess.OnFrame(f)
		}
	}
	return false, nil
}
