package export

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed label tables for aircon scene values. Encoding and decoding use the
// same tables so CSV round-trips.
var (
	acModeLabels = map[int]string{
		0: "Cool",
		1: "Heat",
		2: "Ventilation",
		3: "Dry",
	}
	acFanLabels = map[int]string{
		0: "Low",
		1: "Medium",
		2: "High",
		3: "Auto",
	}
	acSwingLabels = map[int]string{
		0: "Off",
		1: "On",
	}
)

func labelFor(table map[int]string, value int) string {
	if label, ok := table[value]; ok {
		return label
	}
	return strconv.Itoa(value)
}

func valueFor(table map[int]string, label string) (int, bool) {
	for value, candidate := range table {
		if strings.EqualFold(candidate, label) {
			return value, true
		}
	}
	return 0, false
}

// EncodeItemValue renders a scene item value human-readable for CSV export.
// Lighting values (0-255) render as a percentage, aircon values via the
// fixed label tables, curtain values as the motion command.
func EncodeItemValue(objectType string, value int) string {
	switch objectType {
	case "lighting":
		return fmt.Sprintf("%d%%", (value*100+127)/255)
	case "ac_power":
		if value != 0 {
			return "On"
		}
		return "Off"
	case "ac_mode":
		return labelFor(acModeLabels, value)
	case "ac_fan_speed":
		return labelFor(acFanLabels, value)
	case "ac_swing":
		return labelFor(acSwingLabels, value)
	case "ac_temperature":
		return fmt.Sprintf("%d°C", value)
	case "curtain":
		switch value {
		case 1:
			return "Open"
		case 2:
			return "Close"
		default:
			return "Stop"
		}
	default:
		return strconv.Itoa(value)
	}
}

// DecodeItemValue parses a CSV value back into the stored integer, the
// inverse of EncodeItemValue.
func DecodeItemValue(objectType, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	switch objectType {
	case "lighting":
		percent, err := strconv.Atoi(strings.TrimSuffix(raw, "%"))
		if err != nil {
			return 0, fmt.Errorf("invalid lighting value %q", raw)
		}
		return (percent*255 + 50) / 100, nil
	case "ac_power":
		if strings.EqualFold(raw, "On") {
			return 1, nil
		}
		if strings.EqualFold(raw, "Off") {
			return 0, nil
		}
		return 0, fmt.Errorf("invalid power value %q", raw)
	case "ac_mode":
		if value, ok := valueFor(acModeLabels, raw); ok {
			return value, nil
		}
	case "ac_fan_speed":
		if value, ok := valueFor(acFanLabels, raw); ok {
			return value, nil
		}
	case "ac_swing":
		if value, ok := valueFor(acSwingLabels, raw); ok {
			return value, nil
		}
	case "ac_temperature":
		value, err := strconv.Atoi(strings.TrimSuffix(raw, "°C"))
		if err != nil {
			return 0, fmt.Errorf("invalid temperature value %q", raw)
		}
		return value, nil
	case "curtain":
		switch {
		case strings.EqualFold(raw, "Open"):
			return 1, nil
		case strings.EqualFold(raw, "Close"):
			return 2, nil
		case strings.EqualFold(raw, "Stop"):
			return 0, nil
		}
		return 0, fmt.Errorf("invalid curtain value %q", raw)
	}

	// Unknown labels and default types fall back to plain integers.
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", objectType, raw)
	}
	return value, nil
}
