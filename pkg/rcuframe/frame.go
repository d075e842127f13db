// Package rcuframe assembles and validates the binary payload frames pushed
// to RCU units during DALI address-space reconciliation. Transport is the
// controller client's concern; this package only builds the bytes.
package rcuframe

import (
	"fmt"
)

const (
	// AddressMappingSize is the fixed slot count of the DALI address space.
	AddressMappingSize = 64
	// RCUMappingSize is the RCU mapping frame length: 64 device group
	// addresses followed by 16 DALI group addresses.
	RCUMappingSize = 80
	// GroupCount is the fixed number of DALI groups.
	GroupCount = 16
	// DeleteAllSentinel requests deletion of every short address.
	DeleteAllSentinel = 0xFF
)

// EncodeAddressMapping validates and encodes a 64-slot address mapping.
// The mapping must be a total bijection over 0..63: every slot filled,
// every address used exactly once.
func EncodeAddressMapping(mapping []int) ([]byte, error) {
	if len(mapping) != AddressMappingSize {
		return nil, fmt.Errorf("address mapping must have %d entries, got %d", AddressMappingSize, len(mapping))
	}

	frame := make([]byte, AddressMappingSize)
	var seen [AddressMappingSize]bool
	for slot, address := range mapping {
		if address < 0 || address >= AddressMappingSize {
			return nil, fmt.Errorf("slot %d: address %d out of range 0-%d", slot, address, AddressMappingSize-1)
		}
		if seen[address] {
			return nil, fmt.Errorf("slot %d: address %d assigned twice", slot, address)
		}
		seen[address] = true
		frame[slot] = byte(address)
	}
	return frame, nil
}

// EncodeRCUMapping encodes the 80-byte RCU mapping frame: one lighting
// group address per device slot, then one lighting group address per DALI
// group.
func EncodeRCUMapping(deviceGroups [AddressMappingSize]int, groupAddresses [GroupCount]int) ([]byte, error) {
	frame := make([]byte, RCUMappingSize)
	for slot, addr := range deviceGroups {
		if addr < 0 || addr > 255 {
			return nil, fmt.Errorf("device slot %d: group address %d out of byte range", slot, addr)
		}
		frame[slot] = byte(addr)
	}
	for group, addr := range groupAddresses {
		if addr < 0 || addr > 255 {
			return nil, fmt.Errorf("group %d: address %d out of byte range", group, addr)
		}
		frame[AddressMappingSize+group] = byte(addr)
	}
	return frame, nil
}
