// Package environment names the runtime mode of the service. The mode picks
// the settings overlay file and the logging defaults.
package environment

import (
	"fmt"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	// Development enables text logs, debug level and the reload endpoint.
	Development Environment = "development"
	// Testing is used by integration environments.
	Testing Environment = "testing"
	// Production for production environment.
	Production Environment = "production"
)

// Parse maps common spellings ("dev", "Production", "TEST") onto an
// Environment. An empty string means Development.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return Development, nil
	case "test", "testing":
		return Testing, nil
	case "prod", "production":
		return Production, nil
	}
	return "", fmt.Errorf("unknown environment %q", s)
}

func (e Environment) String() string { return string(e) }

func (e Environment) IsDevelopment() bool { return e == Development }

func (e Environment) IsProduction() bool { return e == Production }
