package deploy

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironmentInRange(t *testing.T) {
	for n := MinEnvironment; n <= MaxEnvironment; n++ {
		env, err := ParseEnvironment(strconv.Itoa(n))
		require.NoError(t, err)
		assert.Equal(t, Environment(n), env)
		assert.Equal(t, "experimental"+strconv.Itoa(n), env.Target())
	}
}

func TestParseEnvironmentRejects(t *testing.T) {
	for _, raw := range []string{"0", "7", "-1", "100", "", "three", "1.5", "0x3"} {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			_, err := ParseEnvironment(raw)
			require.Error(t, err)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "environment", vErr.Field)
		})
	}
}

func TestEnvironmentValidate(t *testing.T) {
	for n := -20; n <= 20; n++ {
		err := Environment(n).Validate()
		if n >= MinEnvironment && n <= MaxEnvironment {
			assert.NoError(t, err, "environment %d", n)
		} else {
			assert.Error(t, err, "environment %d", n)
		}
	}
}

func TestShortSHA(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "full sha", in: "abcdef1234567890abcdef1234567890abcdef12", want: "abcdef1"},
		{name: "upper case", in: "ABCDEF1234567890ABCDEF1234567890ABCDEF12", want: "abcdef1"},
		{name: "exactly seven", in: "0123456", want: "0123456"},
		{name: "too short", in: "abc", wantErr: true},
		{name: "not hex", in: "zzzzzzz1234", wantErr: true},
		{name: "hex prefix but bad tail", in: "abcdef1xyz", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShortSHA(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, ShortSHALength)
		})
	}
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "PRsFetched", StagePRsFetched.String())
	assert.Equal(t, "fetching pull requests", StagePRsFetched.Description())
	assert.Equal(t, "Done", StageDone.Description())
	assert.Equal(t, "Unknown", Stage(99).String())
}
