package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// defaultPolicy is the static capability table: one row per (role, resource,
// action). Route handlers never branch on role directly; they ask the enforcer.
var defaultPolicy = [][]string{
	{RoleAdmin, "*", "*"},

	{RoleHR, "user", "read"},
	{RoleHR, "user", "list"},
	{RoleHR, "attendance", "create"},
	{RoleHR, "attendance", "read"},
	{RoleHR, "attendance", "list"},
	{RoleHR, "attendance", "manage"},
	{RoleHR, "attendance", "report"},
	{RoleHR, "leave", "create"},
	{RoleHR, "leave", "read"},
	{RoleHR, "leave", "cancel"},
	{RoleHR, "leave", "list"},
	{RoleHR, "leave", "approve"},
	{RoleHR, "payroll", "read"},

	{RoleEmployee, "user", "read"},
	{RoleEmployee, "attendance", "create"},
	{RoleEmployee, "attendance", "read"},
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "cancel"},
	{RoleEmployee, "payroll", "read"},
}

func newEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range defaultPolicy {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return enforcer, nil
}
