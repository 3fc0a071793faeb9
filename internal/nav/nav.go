// Package nav filters the navigation manifest against a user's permissions
// and answers route-level authorization questions.
package nav

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/me/shipdesk/pkg/model"
)

//go:embed manifest.yaml
var defaultManifest []byte

var (
	defaultOnce sync.Once
	defaultM    *model.NavigationManifest
)

// Default returns the embedded manifest. It panics if the embedded file is
// invalid, which the package tests rule out.
func Default() *model.NavigationManifest {
	defaultOnce.Do(func() {
		m, err := Load(bytes.NewReader(defaultManifest))
		if err != nil {
			panic(fmt.Sprintf("nav: embedded manifest: %v", err))
		}
		defaultM = m
	})
	return defaultM
}

// Load parses and validates a manifest.
func Load(r io.Reader) (*model.NavigationManifest, error) {
	var m model.NavigationManifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that group keys and link ids are unique, paths are
// absolute and ids are well-formed permissions.
func Validate(m *model.NavigationManifest) error {
	var errs []error
	keys := make(map[string]bool)
	ids := make(map[model.Permission]bool)
	paths := make(map[string]bool)
	for gi, g := range m.Groups {
		if g.Key == "" {
			errs = append(errs, fmt.Errorf("group %d: missing key", gi))
		} else if keys[g.Key] {
			errs = append(errs, fmt.Errorf("group %q: duplicate key", g.Key))
		}
		keys[g.Key] = true
		if len(g.Links) == 0 {
			errs = append(errs, fmt.Errorf("group %q: no links", g.Key))
		}
		for _, l := range g.Links {
			if !l.ID.Valid() {
				errs = append(errs, fmt.Errorf("group %q: invalid link id %q", g.Key, l.ID))
			}
			if ids[l.ID] {
				errs = append(errs, fmt.Errorf("group %q: duplicate link id %q", g.Key, l.ID))
			}
			ids[l.ID] = true
			if !strings.HasPrefix(l.Path, "/") {
				errs = append(errs, fmt.Errorf("link %q: path %q must start with /", l.ID, l.Path))
			}
			if paths[l.Path] {
				errs = append(errs, fmt.Errorf("link %q: duplicate path %q", l.ID, l.Path))
			}
			paths[l.Path] = true
		}
	}
	return errors.Join(errs...)
}

// Visible returns the part of m that user may see. Links are kept iff the
// user holds their id; groups with no visible link are dropped and groups
// with exactly one collapse to that link. A nil user sees nothing.
func Visible(m *model.NavigationManifest, user *model.User) model.FilteredNavigation {
	var out model.FilteredNavigation
	if m == nil || user == nil {
		return out
	}
	for _, g := range m.Groups {
		var links []model.NavLink
		for _, l := range g.Links {
			if user.Can(l.ID) {
				links = append(links, l)
			}
		}
		switch len(links) {
		case 0:
			continue
		case 1:
			link := links[0]
			out.Entries = append(out.Entries, model.NavEntry{Link: &link})
		default:
			group := g
			group.Links = links
			out.Entries = append(out.Entries, model.NavEntry{Group: &group})
		}
	}
	return out
}

// RequiredPermission returns the permission that gates path, matching the
// longest manifest path that is path itself or a parent of it.
func RequiredPermission(m *model.NavigationManifest, path string) (model.Permission, bool) {
	var (
		best    model.Permission
		bestLen int
	)
	for _, g := range m.Groups {
		for _, l := range g.Links {
			if pathMatches(l.Path, path) && len(l.Path) > bestLen {
				best, bestLen = l.ID, len(l.Path)
			}
		}
	}
	return best, bestLen > 0
}

// Authorized reports whether user may open path. Paths outside the
// manifest are open to any signed-in user.
func Authorized(m *model.NavigationManifest, user *model.User, path string) bool {
	if user == nil {
		return false
	}
	p, ok := RequiredPermission(m, path)
	if !ok {
		return true
	}
	return user.Can(p)
}

func pathMatches(prefix, path string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix) && strings.HasPrefix(path[len(prefix):], "/")
}
