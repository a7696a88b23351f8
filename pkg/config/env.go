package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables read at startup
const (
	TokenEnv     = "GITHUB_TOKEN"
	OrgEnv       = "GITHUB_ORG"
	RepoEnv      = "GITHUB_REPO"
	WorkflowEnv  = "DEPLOY_EXPERIMENTAL_WORKFLOW_ID"
	APIURLEnv    = "GITHUB_API_URL"
	LogLevelEnv  = "EXPDEPLOY_LOG_LEVEL"
	LogFormatEnv = "EXPDEPLOY_LOG_FORMAT"
)

// DefaultEnvFile is read from the working directory when present
const DefaultEnvFile = ".env"

// requiredVars are checked in this order; the first missing one is reported
var requiredVars = []string{TokenEnv, OrgEnv, RepoEnv}

var optionalVars = []string{WorkflowEnv, APIURLEnv, LogLevelEnv, LogFormatEnv}

// ErrMissingVariable is matched by errors.Is for an absent required variable
var ErrMissingVariable = errors.New("required variable is not set")

// Error is a configuration failure tied to one variable or file
type Error struct {
	Variable string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Variable, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Secret is a string that never prints its value
type Secret string

// String redacts the secret for fmt and loggers
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

// Value returns the secret in clear text
func (s Secret) Value() string {
	return string(s)
}

// Env is the configuration read from the environment and .env file.
// It is built once and treated as read-only afterwards.
type Env struct {
	Token     Secret
	Org       string
	Repo      string
	Workflow  string // optional; empty means choose interactively
	APIURL    string // optional; empty means api.github.com
	LogLevel  string
	LogFormat string

	// EnvFileUsed is the .env file that was merged, if any
	EnvFileUsed string
}

// LoadEnv merges the process environment with a .env file and checks the
// required variables. Process environment values win over the file.
//
// With envFile empty, ./.env is used when it exists. A file named
// explicitly must exist.
func LoadEnv(envFile string) (*Env, error) {
	v := viper.New()

	for _, key := range append(append([]string{}, requiredVars...), optionalVars...) {
		if err := v.BindEnv(key); err != nil {
			return nil, &Error{Variable: key, Err: err}
		}
	}

	path := envFile
	if path == "" {
		path = DefaultEnvFile
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	used := ""
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Variable: path, Err: fmt.Errorf("failed to read env file: %w", err)}
		}
		used = v.ConfigFileUsed()
	}

	for _, key := range requiredVars {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, &Error{Variable: key, Err: ErrMissingVariable}
		}
	}

	return &Env{
		Token:       Secret(strings.TrimSpace(v.GetString(TokenEnv))),
		Org:         strings.TrimSpace(v.GetString(OrgEnv)),
		Repo:        strings.TrimSpace(v.GetString(RepoEnv)),
		Workflow:    strings.TrimSpace(v.GetString(WorkflowEnv)),
		APIURL:      strings.TrimSpace(v.GetString(APIURLEnv)),
		LogLevel:    strings.TrimSpace(v.GetString(LogLevelEnv)),
		LogFormat:   strings.TrimSpace(v.GetString(LogFormatEnv)),
		EnvFileUsed: used,
	}, nil
}
