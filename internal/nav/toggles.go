package nav

import "github.com/me/shipdesk/pkg/model"

// Toggles reports, per group key, whether perms enable that group in the
// user form. A group is on when perms include its first link.
func Toggles(m *model.NavigationManifest, perms model.PermissionSet) map[string]bool {
	out := make(map[string]bool, len(m.Groups))
	for _, g := range m.Groups {
		out[g.Key] = len(g.Links) > 0 && perms.Has(g.Links[0].ID)
	}
	return out
}

// PermissionsFromToggles returns the union of link ids of every enabled group.
// Unknown keys are ignored.
func PermissionsFromToggles(m *model.NavigationManifest, toggles map[string]bool) model.PermissionSet {
	set := model.NewPermissionSet()
	for _, g := range m.Groups {
		if !toggles[g.Key] {
			continue
		}
		for _, l := range g.Links {
			set.Add(l.ID)
		}
	}
	return set
}

// GroupKeys returns the manifest's group keys in display order.
func GroupKeys(m *model.NavigationManifest) []string {
	keys := make([]string, 0, len(m.Groups))
	for _, g := range m.Groups {
		keys = append(keys, g.Key)
	}
	return keys
}
