package config

import "os"

// Resolve returns the first defined candidate, scanning in the order given.
// Callers list candidates by precedence: CLI override first, then config-file
// value, then environment variable, then built-in default. The function knows
// nothing about where a candidate came from or what setting it belongs to.
func Resolve[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

// Opt converts a possibly-empty string into an optional value. An empty
// string counts as undefined.
func Opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// OptInt converts a possibly-zero integer into an optional value. Zero counts
// as undefined; every integer setting in this layer is required to be
// positive.
func OptInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// EnvOpt reads an environment variable as an optional value. An unset or
// empty variable, or an empty name, counts as undefined.
func EnvOpt(name string) *string {
	if name == "" {
		return nil
	}
	return Opt(os.Getenv(name))
}
