// Copyright 2025 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safenum/overflow/rewrite"
)

func TestParsePolicy(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want rewrite.Policy
	}{
		{"default", rewrite.PolicyDefault},
		{"wrap", rewrite.PolicyWrap},
		{"panic", rewrite.PolicyPanic},
		{"saturate", rewrite.PolicySaturate},
	} {
		p, err := rewrite.ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, p, tt.in)
		require.Equal(t, tt.in, p.String())
	}

	_, err := rewrite.ParsePolicy("wrapping")
	require.ErrorContains(t, err, `unknown overflow policy "wrapping"`)
	_, err = rewrite.ParsePolicy("")
	require.Error(t, err)
}

func TestPolicyStringUnknown(t *testing.T) {
	require.Equal(t, "Policy(42)", rewrite.Policy(42).String())
}

func TestConfigPolicyFor(t *testing.T) {
	cfg := &rewrite.Config{
		Default: "wrap",
		Packages: []rewrite.PackageRule{
			{Path: "example.com/api/...", Policy: "panic"},
			{Path: "example.com/api/metrics", Policy: "saturate"},
		},
	}

	for _, tt := range []struct {
		path string
		want rewrite.Policy
	}{
		{"example.com/api/metrics", rewrite.PolicySaturate}, // longest match wins
		{"example.com/api/v2", rewrite.PolicyPanic},
		{"example.com/api", rewrite.PolicyPanic}, // subtree pattern matches its own root
		{"example.com/apiserver", rewrite.PolicyWrap},
		{"example.com/other", rewrite.PolicyWrap},
	} {
		require.Equal(t, tt.want, cfg.PolicyFor(tt.path), tt.path)
	}
}

func TestConfigPolicyForNil(t *testing.T) {
	var cfg *rewrite.Config
	require.Equal(t, rewrite.PolicyDefault, cfg.PolicyFor("example.com/api"))
}

func TestConfigNoDefault(t *testing.T) {
	cfg := &rewrite.Config{
		Packages: []rewrite.PackageRule{
			{Path: "example.com/api", Policy: "panic"},
		},
	}
	require.Equal(t, rewrite.PolicyPanic, cfg.PolicyFor("example.com/api"))
	require.Equal(t, rewrite.PolicyDefault, cfg.PolicyFor("example.com/web"))
}

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".overflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o666))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
default: wrap
packages:
  - path: example.com/billing/...
    policy: panic
  - path: example.com/billing/reports
    policy: saturate
`)
	cfg, err := rewrite.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "wrap", cfg.Default)
	require.Len(t, cfg.Packages, 2)
	require.Equal(t, rewrite.PolicyPanic, cfg.PolicyFor("example.com/billing/ledger"))
	require.Equal(t, rewrite.PolicySaturate, cfg.PolicyFor("example.com/billing/reports"))
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := rewrite.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = rewrite.LoadConfig(writeConfig(t, "default: wrapping\n"))
	require.ErrorContains(t, err, "unknown overflow policy")

	_, err = rewrite.LoadConfig(writeConfig(t, `
packages:
  - path: ""
    policy: wrap
`))
	require.ErrorContains(t, err, "empty path")

	_, err = rewrite.LoadConfig(writeConfig(t, `
packages:
  - path: example.com/x
    policy: clamp
`))
	require.ErrorContains(t, err, "example.com/x")

	_, err = rewrite.LoadConfig(writeConfig(t, "{:::"))
	require.ErrorContains(t, err, "parsing")
}
