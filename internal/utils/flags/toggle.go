package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue  = "true"
	toggleFalseCanonicalValue = "false"
	toggleTypeName            = "bool"
	toggleParseErrorTemplate  = "invalid toggle value %q"
	toggleTruePlaceholder     = "<YES|no>"
	toggleFalsePlaceholder    = "<yes|NO>"
	toggleUsageTemplate       = "`%s` %s"
)

var (
	trueLiterals  = map[string]struct{}{"true": {}, "yes": {}, "y": {}, "on": {}, "1": {}, "t": {}}
	falseLiterals = map[string]struct{}{"false": {}, "no": {}, "n": {}, "off": {}, "0": {}, "f": {}}
)

// AddToggleFlag registers a boolean flag accepting yes/no style values. A bare flag means true.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleValue(defaultValue, target), name, formatToggleUsage(usage, defaultValue))
	if flag := flagSet.Lookup(name); flag != nil {
		flag.NoOptDefVal = toggleTrueCanonicalValue
	}
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleFalsePlaceholder
	if defaultValue {
		placeholder = toggleTruePlaceholder
	}
	return strings.TrimSpace(fmt.Sprintf(toggleUsageTemplate, placeholder, strings.TrimSpace(description)))
}

type toggleValue struct {
	current bool
	target  *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{current: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsed, parseError := ParseToggle(rawValue)
	if parseError != nil {
		return parseError
	}
	value.current = parsed
	if value.target != nil {
		*value.target = parsed
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.current {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleTypeName
}

// ParseToggle interprets yes/no, on/off, true/false, and 1/0 case-insensitively. Empty input means true.
func ParseToggle(rawValue string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalized) == 0 {
		return true, nil
	}
	if _, isTrue := trueLiterals[normalized]; isTrue {
		return true, nil
	}
	if _, isFalse := falseLiterals[normalized]; isFalse {
		return false, nil
	}
	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}
