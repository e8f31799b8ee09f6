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

import "fmt"

// CANopen communication-object base identifiers per CiA 301. PDO bases
// and most services carry the 7-bit node id in the low bits; NMT, SYNC
// and TIME use the base id as-is, and the two LSS services use fixed full
// identifiers.
const (
	CANopenNMT       uint32 = 0x000
	CANopenSyncEmcy  uint32 = 0x080
	CANopenTime      uint32 = 0x100
	CANopenTPDO1     uint32 = 0x180
	CANopenRPDO1     uint32 = 0x200
	CANopenTPDO2     uint32 = 0x280
	CANopenRPDO2     uint32 = 0x300
	CANopenTPDO3     uint32 = 0x380
	CANopenRPDO3     uint32 = 0x400
	CANopenTPDO4     uint32 = 0x480
	CANopenRPDO4     uint32 = 0x500
	CANopenSDOTX     uint32 = 0x580
	CANopenSDORX     uint32 = 0x600
	CANopenHeartbeat uint32 = 0x700
	CANopenLSSTX     uint32 = 0x7E4
	CANopenLSSRX     uint32 = 0x7E5

	// CANopenFunctionMask extracts the 4-bit function code base from an
	// 11-bit identifier; CANopenNodeMask extracts the 7-bit node id.
	CANopenFunctionMask uint32 = 0x780
	CANopenNodeMask     uint32 = 0x07F
)

// Classification is the result of matching a frame against the CANopen
// communication-object model. Node is empty for services that do not
// address a node.
type Classification struct {
	Function string
	Node     string
}

// functionEntry is one entry of the constant function-code table. The
// three variants cover every service: a single name valid for any DLC
// (PDOs), names keyed by exact DLC (NMT, TIME, SDO, heartbeat, LSS), and
// the shared 0x080 base disambiguated by DLC and node id (SYNC/EMCY).
type functionEntry interface {
	functionEntry()
}

type fixedName string

type lengthKeyed map[int]string

type sharedAmbiguous struct {
	// empty is the name for DLC 0 with node id 0; full is the name for
	// DLC 8 with node id 1..127.
	empty, full string
}

func (fixedName) functionEntry()       {}
func (lengthKeyed) functionEntry()     {}
func (sharedAmbiguous) functionEntry() {}

// functionCodes maps base ids (and the two fixed LSS ids) to their table
// entries. All services except the PDOs have a fixed length per CiA 301,
// which is checked to confirm the frame really is that service.
var functionCodes = map[uint32]functionEntry{
	CANopenNMT:       lengthKeyed{2: "NMT"},
	CANopenSyncEmcy:  sharedAmbiguous{empty: "SYNC", full: "EMCY"},
	CANopenTime:      lengthKeyed{6: "TIME"},
	CANopenTPDO1:     fixedName("TPDO1"),
	CANopenRPDO1:     fixedName("RPDO1"),
	CANopenTPDO2:     fixedName("TPDO2"),
	CANopenRPDO2:     fixedName("RPDO2"),
	CANopenTPDO3:     fixedName("TPDO3"),
	CANopenRPDO3:     fixedName("RPDO3"),
	CANopenTPDO4:     fixedName("TPDO4"),
	CANopenRPDO4:     fixedName("RPDO4"),
	CANopenSDOTX:     lengthKeyed{8: "SDO_TX"},
	CANopenSDORX:     lengthKeyed{8: "SDO_RX"},
	CANopenHeartbeat: lengthKeyed{1: "HEARTBEAT"},
	CANopenLSSTX:     lengthKeyed{8: "LSS_TX"},
	CANopenLSSRX:     lengthKeyed{8: "LSS_RX"},
}

// Classify matches a frame against the CANopen communication-object
// model. It is total: a frame that matches no service returns ok=false,
// never an error.
func Classify(f Frame) (Classification, bool) {
	// CANopen node ids fit in 7 bits on an 11-bit base; extended-id
	// frames are never CANopen.
	if f.Extended {
		return Classification{}, false
	}

	function := f.ID & CANopenFunctionMask
	node := f.ID & CANopenNodeMask
	dlc := len(f.Data)

	entry, ok := functionCodes[function]
	if !ok {
		// The LSS services use fixed full identifiers outside the masked
		// bases.
		if f.ID == CANopenLSSTX || f.ID == CANopenLSSRX {
			if name, ok := functionCodes[f.ID].(lengthKeyed)[dlc]; ok {
				return Classification{Function: name}, true
			}
		}
		return Classification{}, false
	}

	var name string
	switch e := entry.(type) {
	case sharedAmbiguous:
		// SYNC and EMCY share the base; the DLC and node id combination
		// decides which one it is before any generic length rule.
		switch {
		case dlc == 0 && node == 0:
			name = e.empty
		case dlc == 8 && validNode(node):
			name = e.full
		}
	case lengthKeyed:
		// NMT and TIME do not carry the node id in the identifier; any
		// node bits mean the frame is not that service.
		if (function == CANopenNMT || function == CANopenTime) && node != 0 {
			return Classification{}, false
		}
		name = e[dlc]
	case fixedName:
		// PDOs accept any length but require an addressed node.
		if validNode(node) {
			name = string(e)
		}
	}
	if name == "" {
		return Classification{}, false
	}

	c := Classification{Function: name}
	switch {
	case validNode(node):
		c.Node = nodeLabel(uint8(node))
	case function == CANopenNMT:
		// NMT addresses its target through the second payload byte;
		// zero means all nodes. An out-of-range byte invalidates the
		// whole classification.
		target := f.Data[1]
		switch {
		case target == 0:
			c.Node = "ALL"
		case target <= 127:
			c.Node = nodeLabel(target)
		default:
			return Classification{}, false
		}
	}
	return c, true
}

func validNode(node uint32) bool {
	return node >= 1 && node <= 127
}

func nodeLabel(node uint8) string {
	return fmt.Sprintf("0x%02X", node)
}
