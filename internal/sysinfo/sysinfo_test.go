package sysinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArch(t *testing.T) {
	cases := map[string]string{
		// uname-style machine names
		"x86":         "x86",
		"BePC":        "x86",
		"x86_64":      "x64",
		"aarch64":     "arm64",
		"arm64":       "arm64",
		"armv6l":      "arm",
		"armv7l":      "arm",
		"mips":        "mipsel",
		"mips64":      "mips64el",
		"ppc64":       "ppc64",
		"ppc64le":     "ppc64",
		"s390x":       "s390x",
		"riscv32":     "riscv32",
		"riscv64":     "riscv64",
		"e2k":         "e2k",
		"loongarch64": "loong64",
		// Go's GOARCH vocabulary
		"amd64":    "x64",
		"386":      "x86",
		"arm":      "arm",
		"mipsle":   "mipsel",
		"mips64le": "mips64el",
		"loong64":  "loong64",
	}
	for input, want := range cases {
		got, err := NormalizeArch(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestNormalizeArchUnknown(t *testing.T) {
	_, err := NormalizeArch("vax")
	assert.Error(t, err)
}

func TestHostDetection(t *testing.T) {
	// The test host must be a platform the table covers.
	os, err := HostOS()
	require.NoError(t, err)
	assert.NotEmpty(t, os)

	cpu, err := HostCPU()
	require.NoError(t, err)
	assert.NotEmpty(t, cpu)
}
