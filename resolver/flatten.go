package resolver

import (
	"github.com/teranos/typetransform/ast"
)

// Members returns the members of an interface with the members of the
// interfaces it extends flattened in front, in declaration order. A member
// redeclared by a derived interface replaces the inherited one in place.
// Unresolvable or non-interface bases contribute nothing; cycles are cut.
func (t *Table) Members(iface *ast.InterfaceDecl) []*ast.Member {
	return t.members(iface, map[*ast.InterfaceDecl]bool{})
}

func (t *Table) members(iface *ast.InterfaceDecl, visiting map[*ast.InterfaceDecl]bool) []*ast.Member {
	if visiting[iface] {
		return nil
	}
	visiting[iface] = true
	defer delete(visiting, iface)

	var out []*ast.Member
	pos := make(map[string]int)
	add := func(m *ast.Member) {
		if i, ok := pos[m.Key()]; ok {
			out[i] = m
			return
		}
		pos[m.Key()] = len(out)
		out = append(out, m)
	}

	for _, ext := range iface.Extends {
		base, ok := t.Lookup(ext.Name)
		if !ok {
			continue
		}
		switch base := base.(type) {
		case *ast.InterfaceDecl:
			for _, m := range t.members(base, visiting) {
				add(m)
			}
		case *ast.TypeAliasDecl:
			if obj, ok := base.Type.(*ast.Object); ok {
				for _, m := range obj.Members {
					add(m)
				}
			}
		}
	}
	for _, m := range iface.Members {
		add(m)
	}
	return out
}

// UnusableBases returns the extends targets of iface that cannot contribute
// members: enums, non-object aliases and undeclared names.
func (t *Table) UnusableBases(iface *ast.InterfaceDecl) (unusable []string) {
	for _, ext := range iface.Extends {
		base, ok := t.Lookup(ext.Name)
		if !ok {
			unusable = append(unusable, ext.Name)
			continue
		}
		switch base := base.(type) {
		case *ast.InterfaceDecl:
		case *ast.TypeAliasDecl:
			if _, ok := base.Type.(*ast.Object); !ok {
				unusable = append(unusable, ext.Name)
			}
		default:
			unusable = append(unusable, ext.Name)
		}
	}
	return unusable
}
