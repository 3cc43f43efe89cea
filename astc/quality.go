package astc

import (
	"fmt"
	"strings"
)

// EncodeQuality controls encoder search effort.
//
// The numeric values match the quality levels accepted by the prebuilt
// encoder's Encode entry point.
type EncodeQuality uint8

const (
	EncodeFastest EncodeQuality = iota
	EncodeFast
	EncodeMedium
	EncodeThorough
	EncodeVeryThorough
	EncodeExhaustive
)

var qualityNames = [...]string{"fastest", "fast", "medium", "thorough", "verythorough", "exhaustive"}

func (q EncodeQuality) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("quality(%d)", uint8(q))
}

// Valid reports whether q is one of the defined presets.
func (q EncodeQuality) Valid() bool { return int(q) < len(qualityNames) }

// ParseQuality parses a preset name such as "medium" or "very-thorough".
func ParseQuality(s string) (EncodeQuality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fastest":
		return EncodeFastest, nil
	case "fast":
		return EncodeFast, nil
	case "medium":
		return EncodeMedium, nil
	case "thorough":
		return EncodeThorough, nil
	case "verythorough", "very-thorough":
		return EncodeVeryThorough, nil
	case "exhaustive":
		return EncodeExhaustive, nil
	default:
		return 0, fmt.Errorf("astc: invalid quality %q (want fastest|fast|medium|thorough|verythorough|exhaustive)", s)
	}
}
