package smartscript

import (
	"fmt"
)

// Script is document source held in a config value or struct field.
type Script string

func (s Script) Validate() error {
	if _, err := Parse(string(s)); err != nil {
		return fmt.Errorf("invalid smartscript document: %w", err)
	}
	return nil
}

// Format returns the normalized form of the document.
func (s Script) Format(opts ...Option) (string, error) {
	doc, err := Parse(string(s), opts...)
	if err != nil {
		return "", fmt.Errorf("parsing smartscript document: %w", err)
	}
	return Serialize(doc), nil
}

// CheckRoundTrip parses src, serializes the tree and parses the result
// again, failing if the two trees differ.
func CheckRoundTrip(src string, opts ...Option) error {
	first, err := Parse(src, opts...)
	if err != nil {
		return err
	}
	out := Serialize(first)
	second, err := Parse(out, opts...)
	if err != nil {
		return fmt.Errorf("re-parsing serialized document: %w", err)
	}
	if !Equal(first, second) {
		return fmt.Errorf("round trip changed the tree:\n%s\nbecame\n%s", Pretty(first), Pretty(second))
	}
	return nil
}
