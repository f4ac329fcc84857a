// Package secrets loads and checks the two access PINs that gate the
// document store: the clerk PIN and the bishopric PIN.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

const (
	ClerkPINEnv     = "WARDMINUTES_CLERK_PIN"
	BishopricPINEnv = "WARDMINUTES_BISHOPRIC_PIN"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// PINs holds the configured access PINs.
type PINs struct {
	Clerk     string
	Bishopric string
}

// LoadEnv loads variables from the given dotenv files into the process
// environment. Missing files are ignored; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv reads both PINs from the environment.
func FromEnv() PINs {
	return PINs{
		Clerk:     os.Getenv(ClerkPINEnv),
		Bishopric: os.Getenv(BishopricPINEnv),
	}
}

// Validate reports every missing or malformed PIN.
func (p PINs) Validate() error {
	var errs []error
	check := func(name, v string) {
		switch {
		case v == "":
			errs = append(errs, fmt.Errorf("%s is not set", name))
		case !pinPattern.MatchString(v):
			errs = append(errs, fmt.Errorf("%s must be exactly 4 digits", name))
		}
	}
	check(ClerkPINEnv, p.Clerk)
	check(BishopricPINEnv, p.Bishopric)
	return errors.Join(errs...)
}
