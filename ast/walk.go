package ast

// Walk calls fn for t and every type nested inside it in depth-first,
// source order. Returning false from fn skips the children of that node.
func Walk(t TypeExpr, fn func(TypeExpr) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch t := t.(type) {
	case *Optional:
		Walk(t.Inner, fn)
	case *Array:
		Walk(t.Elem, fn)
	case *Map:
		Walk(t.Key, fn)
		Walk(t.Value, fn)
	case *Set:
		Walk(t.Elem, fn)
	case *Union:
		for _, v := range t.Variants {
			Walk(v, fn)
		}
	case *Object:
		for _, m := range t.Members {
			Walk(m.Type, fn)
		}
	case *Function:
		for _, p := range t.Params {
			Walk(p.Type, fn)
		}
		Walk(t.Return, fn)
	}
}

// References returns every type reference in decl in source order,
// including extends clauses and references nested in object literals.
func References(decl Decl) []*Reference {
	var refs []*Reference
	collect := func(t TypeExpr) bool {
		if r, ok := t.(*Reference); ok {
			refs = append(refs, r)
		}
		return true
	}

	switch d := decl.(type) {
	case *InterfaceDecl:
		refs = append(refs, d.Extends...)
		for _, m := range d.Members {
			Walk(m.Type, collect)
		}
	case *TypeAliasDecl:
		Walk(d.Type, collect)
	}
	return refs
}
