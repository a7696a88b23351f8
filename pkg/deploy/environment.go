package deploy

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds of the experimental environment numbers
const (
	MinEnvironment = 1
	MaxEnvironment = 6
)

// targetPrefix is prepended to the environment number in the target input
const targetPrefix = "experimental"

// Environment is an experimental deployment target, 1 through 6.
type Environment int

// ParseEnvironment validates a CLI argument as an environment number
func ParseEnvironment(raw string) (Environment, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ValidationError{Field: "environment", Value: raw, Reason: "must be a number"}
	}
	env := Environment(n)
	if err := env.Validate(); err != nil {
		return 0, err
	}
	return env, nil
}

// Validate checks the environment is within MinEnvironment..MaxEnvironment
func (e Environment) Validate() error {
	if e < MinEnvironment || e > MaxEnvironment {
		return &ValidationError{
			Field:  "environment",
			Value:  strconv.Itoa(int(e)),
			Reason: fmt.Sprintf("must be between %d and %d", MinEnvironment, MaxEnvironment),
		}
	}
	return nil
}

// Target returns the dispatch input value, e.g. "experimental3"
func (e Environment) Target() string {
	return targetPrefix + strconv.Itoa(int(e))
}

func (e Environment) String() string {
	return e.Target()
}
