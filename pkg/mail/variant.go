package mail

import "fmt"

// Variant selects the reminder template.
type Variant string

const (
	Morning Variant = "morning"
	Evening Variant = "evening"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Morning, Evening:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown email type %q (want %s or %s)", s, Morning, Evening)
}

func (v Variant) String() string {
	return string(v)
}
