package imaging

import (
	"fmt"
	"strings"
)

// Mode selects the cleaning strategy applied before tracing.
type Mode int

const (
	// ModeAuto resolves to ModeColor or ModeBW from a saturation probe.
	ModeAuto Mode = iota
	// ModeColor posterizes gradients to flat regions before thresholding.
	ModeColor
	// ModeBW thresholds a flattened grayscale copy.
	ModeBW
)

var modeNames = map[Mode]string{
	ModeAuto:  "auto",
	ModeColor: "color",
	ModeBW:    "bw",
}

// ParseMode converts a user-supplied selector into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "color":
		return ModeColor, nil
	case "bw":
		return ModeBW, nil
	default:
		return ModeAuto, fmt.Errorf("invalid mode %q (want auto, color, or bw)", value)
	}
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Set implements pflag.Value.
func (m *Mode) Set(value string) error {
	parsed, err := ParseMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Mode) Type() string { return "mode" }

// Resolved reports whether m is a concrete strategy rather than ModeAuto.
func (m Mode) Resolved() bool {
	return m == ModeColor || m == ModeBW
}

// Invert toggles negation of the levelled image.
type Invert int

const (
	InvertOff Invert = iota
	InvertOn
)

// ParseInvert converts "on"/"off" into an Invert.
func ParseInvert(value string) (Invert, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "off":
		return InvertOff, nil
	case "on":
		return InvertOn, nil
	default:
		return InvertOff, fmt.Errorf("invalid invert %q (want on or off)", value)
	}
}

func (i Invert) String() string {
	if i == InvertOn {
		return "on"
	}
	return "off"
}

// Set implements pflag.Value.
func (i *Invert) Set(value string) error {
	parsed, err := ParseInvert(value)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Type implements pflag.Value.
func (i *Invert) Type() string { return "invert" }

// Enabled reports whether negation is requested.
func (i Invert) Enabled() bool { return i == InvertOn }
