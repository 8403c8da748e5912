package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = ""
	v, err := GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-dev", v)

	Version = "v1.2.3-dirty"
	v, err = GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3-dirty", v)
	major, minor, patch := ParseVersion(v)
	assert.Equal(t, []int{1, 2, 3}, []int{major, minor, patch})

	Version = "nightly"
	_, err = GetVersion()
	assert.Error(t, err)
}

func TestValidVersion(t *testing.T) {
	for v, want := range map[string]bool{
		"0.1.0":       true,
		"v1.2.3":      true,
		"1.2.3-beta1": true,
		"1.2":         false,
		"1.x.3":       false,
		"":            false,
	} {
		assert.Equal(t, want, ValidVersion(v), v)
	}
	assert.Equal(t, "// Code generated by nautilus 1.0.0. DO NOT EDIT.", FileHeader("//", "1.0.0"))
}
