// Package infra builds the casbin enforcer behind the rbac service.
package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Model matches a role against resource globs and action regexps.
const Model = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// Policy grants reviewers everything the review flow does. An admin is a
// reviewer.
var Policy = [][]string{
	{"p", "reviewer", "companies", "^(read|approve|reject)$"},
	{"p", "reviewer", "registrations", "^(read|approve|reject)$"},
	{"g", "admin", "reviewer"},
}

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(Model)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, rule := range Policy {
		switch rule[0] {
		case "p":
			_, err = e.AddPolicy(rule[1], rule[2], rule[3])
		case "g":
			_, err = e.AddGroupingPolicy(rule[1], rule[2])
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}
