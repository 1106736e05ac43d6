package cli

import "fmt"

type invalidValueError struct {
	key      string
	value    string
	expected string
}

func (e invalidValueError) Error() string {
	return fmt.Sprintf("invalid %s: %q (expected %s)", e.key, e.value, e.expected)
}

type unknownKeyError struct {
	kind string
	key  string
	keys string
}

func (e unknownKeyError) Error() string {
	return fmt.Sprintf("unknown %s key: %s (expected %s)", e.kind, e.key, e.keys)
}

func errUnknownKey(kind, key, keys string) error {
	return unknownKeyError{kind: kind, key: key, keys: keys}
}
