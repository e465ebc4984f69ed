package access

import "strings"

// Page is a navigable area of the client along with its role restriction.
type Page struct {
	Path  string
	Roles []string
}

var (
	PageDashboard = Page{Path: PathDashboard}
	PageEmployees = Page{Path: "/employees", Roles: []string{RoleAdmin}}
	PageTasks     = Page{Path: "/tasks", Roles: []string{RoleAdmin}}
	PageMyTasks   = Page{Path: "/my-tasks", Roles: []string{RoleUser}}
)

var pages = []Page{PageDashboard, PageEmployees, PageTasks, PageMyTasks}

// LookupPage returns the registered restriction for path. Unknown paths are
// returned unrestricted.
func LookupPage(path string) Page {
	for _, p := range pages {
		if p.Path == path {
			return p
		}
	}
	return Page{Path: path}
}

// ParseRoles splits a comma separated role list, dropping blanks.
func ParseRoles(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var roles []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
