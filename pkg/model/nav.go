package model

// NavLink is one menu entry, gated by the permission in ID.
type NavLink struct {
	ID    Permission `yaml:"id" json:"id"`
	Label string     `yaml:"label" json:"label"`
	Path  string     `yaml:"path" json:"path"`
	Icon  string     `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// NavGroup is a titled group of links in the navigation manifest.
type NavGroup struct {
	Key   string    `yaml:"key" json:"key"`
	Label string    `yaml:"label" json:"label"`
	Icon  string    `yaml:"icon,omitempty" json:"icon,omitempty"`
	Links []NavLink `yaml:"links" json:"links"`
}

// NavigationManifest is the authored, ordered menu structure before
// permission filtering.
type NavigationManifest struct {
	Groups []NavGroup `yaml:"groups" json:"groups"`
}

// NavEntry is one top-level item of a filtered navigation: either a group
// with two or more visible links, or a single flat link.
type NavEntry struct {
	Group *NavGroup `json:"group,omitempty"`
	Link  *NavLink  `json:"link,omitempty"`
}

// IsGroup reports whether the entry renders as a sub-menu.
func (e NavEntry) IsGroup() bool {
	return e.Group != nil
}

// FilteredNavigation is the navigation visible to one user.
type FilteredNavigation struct {
	Entries []NavEntry `json:"entries"`
}

// Links returns every visible link in display order.
func (f FilteredNavigation) Links() []NavLink {
	var out []NavLink
	for _, e := range f.Entries {
		if e.Link != nil {
			out = append(out, *e.Link)
			continue
		}
		out = append(out, e.Group.Links...)
	}
	return out
}

// Empty reports whether nothing is visible.
func (f FilteredNavigation) Empty() bool {
	return len(f.Entries) == 0
}
