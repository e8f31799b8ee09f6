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

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	canview "github.com/CanViewProject/go-canview"
	"github.com/CanViewProject/go-canview/session"
)

const (
	// framesPerTick bounds the work done between redraws so a busy bus
	// cannot starve the keyboard.
	framesPerTick = 512

	redrawInterval = 50 * time.Millisecond
)

const (
	keyEscape = 0x1B
	keyUp     = 'A'
	keyDown   = 'B'
)

// view runs the interactive loop: drain the source, handle keys,
// redraw. Without a terminal it drains a finite source and prints the
// final table once.
func view(src canview.Source, sess *session.Session, showValues, showCANopen bool) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return headless(src, sess, showValues, showCANopen)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Print("\x1b[?25h") // restore cursor
	}()
	fmt.Print("\x1b[?25l") // hide cursor

	keys := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(keys)
				return
			}
			if n > 0 {
				keys <- buf[0]
			}
		}
	}()

	var (
		paused  bool
		scroll  int
		drained bool
	)
	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	for {
		if !drained {
			done, err := drain(src, sess, paused)
			if err != nil {
				return err
			}
			drained = done
		}

		select {
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			switch key {
			case 'q':
				return nil
			case keyEscape:
				// Either a bare ESC (quit) or the start of an arrow
				// sequence ESC [ A/B.
				if dir, ok := arrowKey(keys); ok {
					scroll = adjustScroll(scroll, dir, sess.Len())
				} else {
					return nil
				}
			case 'c':
				sess.Clear()
				scroll = 0
			case ' ':
				paused = !paused
			}
		case <-ticker.C:
		}

		render(os.Stdout, sess, scroll, showValues, showCANopen, true)
	}
}

// headless processes a finite source without terminal control.
func headless(src canview.Source, sess *session.Session, showValues, showCANopen bool) error {
	for {
		done, err := drain(src, sess, false)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	render(os.Stdout, sess, 0, showValues, showCANopen, false)
	return nil
}

// arrowKey consumes the '[' and direction bytes of an ANSI arrow
// sequence if they are already pending.
func arrowKey(keys <-chan byte) (byte, bool) {
	select {
	case b, ok := <-keys:
		if !ok || b != '[' {
			return 0, false
		}
	case <-time.After(10 * time.Millisecond):
		return 0, false
	}
	select {
	case b, ok := <-keys:
		if ok && (b == keyUp || b == keyDown) {
			return b, true
		}
	case <-time.After(10 * time.Millisecond):
	}
	return 0, false
}

func adjustScroll(scroll int, dir byte, rows int) int {
	switch dir {
	case keyUp:
		if scroll > 0 {
			scroll--
		}
	case keyDown:
		if scroll < rows-1 {
			scroll++
		}
	}
	return scroll
}

// render draws the table. In raw mode lines end with CRLF and the
// screen is cleared first.
func render(w *os.File, sess *session.Session, scroll int, showValues, showCANopen, raw bool) {
	eol := "\n"
	var b strings.Builder
	if raw {
		eol = "\r\n"
		b.WriteString("\x1b[H\x1b[2J")
	}

	b.WriteString(fmt.Sprintf("%-8s %-14s %-11s %-11s %-4s %-24s", "Count", "Time", "dt", "ID", "DLC", "Data"))
	if showCANopen {
		b.WriteString(fmt.Sprintf(" %-10s %-8s", "Func code", "Node ID"))
	}
	if showValues {
		b.WriteString(" Parsed values")
	}
	b.WriteString(eol)

	height := 0
	if raw {
		if _, h, err := term.GetSize(int(w.Fd())); err == nil {
			height = h - 1
		}
	}

	rows := sess.Rows()
	for i, row := range rows {
		if i < scroll {
			continue
		}
		if height > 0 && i-scroll >= height {
			break
		}
		b.WriteString(fmt.Sprintf("%-8d %-14.6f %-11.6f %-11s %-4d %-24s",
			row.Count, row.Time, row.Dt, row.Frame.IDString(), row.Frame.DLC(), row.Frame.DataString()))
		if showCANopen {
			b.WriteString(fmt.Sprintf(" %-10s %-8s", row.Function, row.Node))
		}
		if showValues {
			b.WriteString(" " + row.ValuesString())
		}
		b.WriteString(eol)
	}
	fmt.Fprint(w, b.String())
}
