package rbac

import "go-tasktracker/internal/access"

// ModelText is a plain role/resource/action model. Admin inherits every
// user permission through the g grouping.
const ModelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type Policy struct {
	Role     string `json:"role" gorm:"column:role;type:varchar(20);primaryKey"`
	Resource string `json:"resource" gorm:"column:resource;type:varchar(50);primaryKey"`
	Action   string `json:"action" gorm:"column:action;type:varchar(50);primaryKey"`
}

func (Policy) TableName() string {
	return "role_permissions"
}

// DefaultPolicies is the permission set the service starts with and the
// seed written to role_permissions when the table is empty.
var DefaultPolicies = []Policy{
	{Role: access.RoleUser, Resource: "dashboard", Action: "read"},
	{Role: access.RoleUser, Resource: "access", Action: "resolve"},
	{Role: access.RoleUser, Resource: "profile", Action: "submit"},
	{Role: access.RoleUser, Resource: "task", Action: "read_own"},
	{Role: access.RoleUser, Resource: "task", Action: "update"},

	{Role: access.RoleAdmin, Resource: "employee", Action: "read"},
	{Role: access.RoleAdmin, Resource: "employee", Action: "create"},
	{Role: access.RoleAdmin, Resource: "employee", Action: "update"},
	{Role: access.RoleAdmin, Resource: "employee", Action: "delete"},
	{Role: access.RoleAdmin, Resource: "approval", Action: "approve"},
	{Role: access.RoleAdmin, Resource: "approval", Action: "reject"},
	{Role: access.RoleAdmin, Resource: "task", Action: "read"},
	{Role: access.RoleAdmin, Resource: "task", Action: "create"},
	{Role: access.RoleAdmin, Resource: "task", Action: "delete"},
	{Role: access.RoleAdmin, Resource: "user", Action: "read"},
	{Role: access.RoleAdmin, Resource: "rbac", Action: "read"},
}
