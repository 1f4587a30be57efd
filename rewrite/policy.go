// Copyright 2025 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"fmt"
	"go/ast"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Policy selects what the rewriter turns native arithmetic into.
type Policy int

const (
	// PolicyDefault leaves code unchanged. As a file or function directive
	// it switches rewriting off for that scope.
	PolicyDefault Policy = iota
	PolicyWrap
	PolicyPanic
	PolicySaturate
)

var policyNames = map[string]Policy{
	"default":  PolicyDefault,
	"wrap":     PolicyWrap,
	"panic":    PolicyPanic,
	"saturate": PolicySaturate,
}

// ParsePolicy converts the spelling used in directives, config files and
// the -policy flag.
func ParsePolicy(s string) (Policy, error) {
	p, ok := policyNames[s]
	if !ok {
		return PolicyDefault, fmt.Errorf("unknown overflow policy %q", s)
	}
	return p, nil
}

func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "default"
	case PolicyWrap:
		return "wrap"
	case PolicyPanic:
		return "panic"
	case PolicySaturate:
		return "saturate"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// suffix is the policy's contribution to the rewritten call names: AddWrap,
// AddPanic, AddSaturate.
func (p Policy) suffix() string {
	switch p {
	case PolicyWrap:
		return "Wrap"
	case PolicyPanic:
		return "Panic"
	case PolicySaturate:
		return "Saturate"
	}
	return ""
}

// directivePrefix is the comment form that scopes a policy, written with no
// space after the slashes like other tool directives: //overflow:panic
const directivePrefix = "//overflow:"

// directiveIn scans a comment group for an //overflow: directive. A
// malformed policy name is an error rather than a silent skip, so typos
// don't quietly leave code unrewritten.
func directiveIn(g *ast.CommentGroup) (Policy, bool, error) {
	if g == nil {
		return PolicyDefault, false, nil
	}
	for _, c := range g.List {
		rest, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		p, err := ParsePolicy(strings.TrimSpace(rest))
		if err != nil {
			return PolicyDefault, false, err
		}
		return p, true, nil
	}
	return PolicyDefault, false, nil
}

// filePolicy returns the policy declared for the whole file: an
// //overflow: directive in any comment group above the package clause.
func filePolicy(f *ast.File) (Policy, bool, error) {
	for _, g := range f.Comments {
		if g.End() > f.Package {
			break
		}
		if p, ok, err := directiveIn(g); ok || err != nil {
			return p, ok, err
		}
	}
	return PolicyDefault, false, nil
}

// Config is the tool-side configuration, conventionally kept in
// .overflow.yaml at the module root:
//
//	default: wrap
//	packages:
//	  - path: github.com/acme/billing/...
//	    policy: panic
//	  - path: github.com/acme/billing/reports
//	    policy: saturate
//
// Directives in the source always win over the config.
type Config struct {
	// Default applies to every package no rule matches. Empty means no
	// configured default.
	Default string `yaml:"default"`

	// Packages assigns policies per import path. A path matches exactly,
	// or as a subtree when it ends in /... ; the longest matching pattern
	// wins.
	Packages []PackageRule `yaml:"packages"`
}

// A PackageRule binds an import path pattern to a policy.
type PackageRule struct {
	Path   string `yaml:"path"`
	Policy string `yaml:"policy"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Default != "" {
		if _, err := ParsePolicy(c.Default); err != nil {
			return err
		}
	}
	for _, r := range c.Packages {
		if r.Path == "" {
			return fmt.Errorf("package rule with empty path")
		}
		if _, err := ParsePolicy(r.Policy); err != nil {
			return fmt.Errorf("package %s: %w", r.Path, err)
		}
	}
	return nil
}

// PolicyFor resolves the configured policy for an import path: the longest
// matching package rule, then the configured default. A nil config
// resolves everything to PolicyDefault.
func (c *Config) PolicyFor(pkgPath string) Policy {
	if p := c.rulePolicy(pkgPath); p != PolicyDefault {
		return p
	}
	return c.defaultPolicy()
}

func (c *Config) rulePolicy(pkgPath string) Policy {
	if c == nil {
		return PolicyDefault
	}
	best, bestLen := PolicyDefault, -1
	for _, r := range c.Packages {
		n := matchLen(r.Path, pkgPath)
		if n <= bestLen {
			continue
		}
		if p, err := ParsePolicy(r.Policy); err == nil {
			best, bestLen = p, n
		}
	}
	return best
}

func (c *Config) defaultPolicy() Policy {
	if c == nil || c.Default == "" {
		return PolicyDefault
	}
	p, _ := ParsePolicy(c.Default)
	return p
}

// matchLen returns the pattern's length when it matches path, -1 when it
// doesn't. Longer patterns are more specific, so the caller keeps the
// longest match.
func matchLen(pattern, path string) int {
	if prefix, ok := strings.CutSuffix(pattern, "/..."); ok {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return len(pattern)
		}
		return -1
	}
	if pattern == path {
		return len(pattern)
	}
	return -1
}
