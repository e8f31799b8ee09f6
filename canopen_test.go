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

package canview

import "testing"

func std(id uint32, data ...byte) Frame {
	return Frame{ID: id, Data: data}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	pdo8 := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	tests := []struct {
		name     string
		frame    Frame
		wantFunc string
		wantNode string
		wantOK   bool
	}{
		{
			name:     "NMT stop node 1",
			frame:    std(CANopenNMT, 2, 1),
			wantFunc: "NMT", wantNode: "0x01", wantOK: true,
		},
		{
			name:     "NMT start all nodes",
			frame:    std(CANopenNMT, 1, 0),
			wantFunc: "NMT", wantNode: "ALL", wantOK: true,
		},
		{
			name:  "NMT invalid target byte",
			frame: std(CANopenNMT, 2, 128),
		},
		{
			name:  "NMT with node bits set",
			frame: std(CANopenNMT+1, 2, 1),
		},
		{
			name:  "NMT wrong length",
			frame: std(CANopenNMT, 2, 1, 0),
		},
		{
			name:     "SYNC",
			frame:    std(CANopenSyncEmcy),
			wantFunc: "SYNC", wantOK: true,
		},
		{
			name:  "SYNC with node bits",
			frame: std(CANopenSyncEmcy + 1),
		},
		{
			name:  "SYNC base with EMCY length but node 0",
			frame: std(CANopenSyncEmcy, pdo8...),
		},
		{
			name:     "EMCY node 1",
			frame:    std(CANopenSyncEmcy+1, pdo8...),
			wantFunc: "EMCY", wantNode: "0x01", wantOK: true,
		},
		{
			name:  "EMCY wrong length",
			frame: std(CANopenSyncEmcy+1, 1, 2, 3, 4, 5, 6, 7),
		},
		{
			name:  "EMCY node id out of range",
			frame: std(CANopenSyncEmcy+128, pdo8...),
		},
		{
			name:     "TIME",
			frame:    std(CANopenTime, 1, 2, 3, 4, 5, 6),
			wantFunc: "TIME", wantOK: true,
		},
		{
			name:  "TIME with node bits set",
			frame: std(CANopenTime+1, 1, 2, 3, 4, 5, 6),
		},
		{
			name:     "SDO_TX node 0x10",
			frame:    std(CANopenSDOTX+0x10, pdo8...),
			wantFunc: "SDO_TX", wantNode: "0x10", wantOK: true,
		},
		{
			name:  "SDO_TX wrong length",
			frame: std(CANopenSDOTX+0x10, 1, 2, 3, 4),
		},
		{
			name:     "SDO_RX node 0x20",
			frame:    std(CANopenSDORX+0x20, pdo8...),
			wantFunc: "SDO_RX", wantNode: "0x20", wantOK: true,
		},
		{
			name:     "HEARTBEAT operational",
			frame:    std(CANopenHeartbeat+0x7F, 0x05),
			wantFunc: "HEARTBEAT", wantNode: "0x7F", wantOK: true,
		},
		{
			name:     "LSS_TX",
			frame:    std(CANopenLSSTX, pdo8...),
			wantFunc: "LSS_TX", wantOK: true,
		},
		{
			name:     "LSS_RX",
			frame:    std(CANopenLSSRX, pdo8...),
			wantFunc: "LSS_RX", wantOK: true,
		},
		{
			name:  "LSS wrong length",
			frame: std(CANopenLSSTX, 1, 2, 3),
		},
		{
			name:  "unknown id past LSS",
			frame: std(CANopenLSSRX+1, pdo8...),
		},
		{
			name:  "PDO node id out of range",
			frame: std(CANopenTPDO1+128, pdo8...),
		},
		{
			name:  "non-CANopen id",
			frame: std(0x101, pdo8...),
		},
		{
			name:  "non-CANopen id other length",
			frame: std(0x101, 1, 2, 3, 4, 5, 6),
		},
		{
			name:  "extended id never classifies",
			frame: Frame{ID: 0x123456, Extended: true, Data: pdo8},
		},
		{
			name:  "extended id with NMT bit pattern",
			frame: Frame{ID: CANopenNMT, Extended: true, Data: []byte{2, 1}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Classify(tt.frame)
			if ok != tt.wantOK {
				t.Fatalf("Classify(%#v) ok = %v, want %v", tt.frame, ok, tt.wantOK)
			}
			if got.Function != tt.wantFunc {
				t.Errorf("Function = %q, want %q", got.Function, tt.wantFunc)
			}
			if got.Node != tt.wantNode {
				t.Errorf("Node = %q, want %q", got.Node, tt.wantNode)
			}
		})
	}
}

func TestClassifyPDOFamily(t *testing.T) {
	t.Parallel()

	bases := map[uint32]string{
		CANopenTPDO1: "TPDO1",
		CANopenRPDO1: "RPDO1",
		CANopenTPDO2: "TPDO2",
		CANopenRPDO2: "RPDO2",
		CANopenTPDO3: "TPDO3",
		CANopenRPDO3: "RPDO3",
		CANopenTPDO4: "TPDO4",
		CANopenRPDO4: "RPDO4",
	}
	node := uint32(0)
	for base, want := range bases {
		node++
		got, ok := Classify(std(base+node, 1, 2, 3, 4, 5, 6, 7, 8))
		if !ok {
			t.Fatalf("Classify(0x%03X) did not match", base+node)
		}
		if got.Function != want {
			t.Errorf("Classify(0x%03X).Function = %q, want %q", base+node, got.Function, want)
		}
		wantNode := nodeLabel(uint8(node))
		if got.Node != wantNode {
			t.Errorf("Classify(0x%03X).Node = %q, want %q", base+node, got.Node, wantNode)
		}

		// PDOs have no fixed length; a short payload still matches.
		if short, ok := Classify(std(base+node, 1, 2)); !ok || short.Function != want {
			t.Errorf("Classify(0x%03X) with DLC 2 = (%q, %v), want (%q, true)", base+node, short.Function, ok, want)
		}
	}
}

func TestClassifySyncEmcyProperty(t *testing.T) {
	t.Parallel()

	// Over the whole shared 0x080 base: SYNC iff dlc==0 and node==0,
	// EMCY iff dlc==8 and node 1..127, nothing else matches.
	for node := uint32(0); node <= 127; node++ {
		for dlc := 0; dlc <= 8; dlc++ {
			f := std(CANopenSyncEmcy + node)
			f.Data = make([]byte, dlc)
			got, ok := Classify(f)

			switch {
			case dlc == 0 && node == 0:
				if !ok || got.Function != "SYNC" {
					t.Fatalf("node %d dlc %d: got (%q, %v), want SYNC", node, dlc, got.Function, ok)
				}
			case dlc == 8 && node >= 1:
				if !ok || got.Function != "EMCY" {
					t.Fatalf("node %d dlc %d: got (%q, %v), want EMCY", node, dlc, got.Function, ok)
				}
			default:
				if ok {
					t.Fatalf("node %d dlc %d: got (%q, %v), want no match", node, dlc, got.Function, ok)
				}
			}
		}
	}
}
