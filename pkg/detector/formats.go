package detector

import (
	"fmt"
	"strings"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// FormatAuto selects the format by inspecting the text.
const FormatAuto = "auto"

// DefaultFormats returns the supported export formats in detection order.
// The bracketed form is checked first because its markers are more specific.
func DefaultFormats() []parser.Parser {
	return []parser.Parser{
		parser.NewBracketed(),
		parser.NewDashed(),
	}
}

// FormatNames returns the accepted values for a format option.
func FormatNames() []string {
	names := []string{FormatAuto}
	for _, f := range DefaultFormats() {
		names = append(names, f.Name())
	}
	return names
}

// ByName returns the format with the given name.
func ByName(name string) (parser.Parser, error) {
	for _, f := range DefaultFormats() {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown format %q (must be one of %s)", name, strings.Join(FormatNames(), ", "))
}

// ForName returns a detector honouring a format option: "auto" or "" detects,
// any other value forces that single format.
func ForName(name string) (*Detector, error) {
	if name == "" || name == FormatAuto {
		return New(), nil
	}
	f, err := ByName(name)
	if err != nil {
		return nil, err
	}
	return New(WithFormats(f)), nil
}
