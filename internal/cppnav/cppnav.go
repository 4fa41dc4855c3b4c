// Package cppnav walks C++ structure on top of the token cursor: class
// inheritance lists, constructor initializer lists, trailing function
// qualifiers and statement boundaries.
package cppnav

import (
	"github.com/zjrosen/codenav/internal/cursor"
)

var accessSpecifiers = map[string]bool{
	"public":    true,
	"private":   true,
	"protected": true,
}

// Trailing qualifiers that may sit between a parameter list and a body.
var functionQualifiers = map[string]bool{
	"const":    true,
	"volatile": true,
	"noexcept": true,
	"override": true,
	"final":    true,
	"mutable":  true,
	"&":        true,
	"&&":       true,
}

// Keywords whose parenthesised argument is part of a function's suffix.
var parenQualifiers = map[string]bool{
	"noexcept": true,
	"decltype": true,
	"throw":    true,
}

func isKeyword(c cursor.Cursor) bool {
	return c.Type() == "keyword"
}

func isName(c cursor.Cursor) bool {
	return c.HasType("identifier", "constant", "support", "storage")
}

func prev(c cursor.Cursor) (cursor.Cursor, bool) {
	return c.MoveToPreviousToken()
}

// bwdOverQualifiedName steps from the last token of a possibly qualified,
// possibly templated name (ns::Base<T>) to the token before it.
func bwdOverQualifiedName(c cursor.Cursor) (cursor.Cursor, bool) {
	cur := c
	var ok bool
	if cur.Value() == ">" {
		if cur, ok = cur.BwdToMatchingArrow(); !ok {
			return c, false
		}
		if cur, ok = prev(cur); !ok {
			return c, false
		}
	}
	if !isName(cur) {
		return c, false
	}
	if cur, ok = prev(cur); !ok {
		return c, false
	}
	for cur.Value() == "::" {
		if cur, ok = prev(cur); !ok {
			return c, false
		}
		if cur.Value() == ">" {
			if cur, ok = cur.BwdToMatchingArrow(); !ok {
				return c, false
			}
			if cur, ok = prev(cur); !ok {
				return c, false
			}
		}
		if isName(cur) {
			if cur, ok = prev(cur); !ok {
				return c, false
			}
		}
	}
	return cur, true
}

// BwdOverClassySpecifiers steps back from an opening brace or comma over
// one base-class specifier such as "public virtual ns::Base<T>". It lands
// on the token preceding the specifier, which callers expect to be ":" or
// ",".
func BwdOverClassySpecifiers(c cursor.Cursor) (cursor.Cursor, bool) {
	cur, ok := prev(c)
	if !ok {
		return c, false
	}
	if cur, ok = bwdOverQualifiedName(cur); !ok {
		return c, false
	}
	for isKeyword(cur) {
		if cur, ok = prev(cur); !ok {
			return c, false
		}
	}
	return cur, true
}

// BwdOverClassInheritance moves from the opening brace of a class body
// back over its base-class list, e.g.
//
//	class Foo :
//	    public A,
//	    public B<T> {
//
// and lands on the inheritance ":".
func BwdOverClassInheritance(c cursor.Cursor) (cursor.Cursor, bool) {
	cur := c
	for {
		next, ok := BwdOverClassySpecifiers(cur)
		if !ok {
			return c, false
		}
		switch next.Value() {
		case ",":
			cur = next
		case ":":
			return next, true
		default:
			return c, false
		}
	}
}

// bwdOverInitializer steps from "{" or "," over one "name(args)" entry of
// an initializer list and lands on the separator before it.
func bwdOverInitializer(c cursor.Cursor) (cursor.Cursor, bool) {
	cur, ok := prev(c)
	if !ok {
		return c, false
	}
	for isKeyword(cur) {
		if cur, ok = prev(cur); !ok {
			return c, false
		}
	}
	if v := cur.Value(); v != ")" && v != "}" {
		return c, false
	}
	if cur, ok = cur.BwdToMatchingToken(); !ok {
		return c, false
	}
	if cur, ok = prev(cur); !ok {
		return c, false
	}
	if cur, ok = bwdOverQualifiedName(cur); !ok {
		return c, false
	}

	switch cur.Value() {
	case ",":
		return cur, true
	case ":":
		// "public:" followed by a member function is not an initializer list.
		if before, ok := prev(cur); ok && accessSpecifiers[before.Value()] {
			return c, false
		}
		return cur, true
	}
	return c, false
}

// BwdOverInitializationList moves from a constructor body's opening brace
// back over its initializer list,
//
//	Foo() : a_(a),
//	        b_(b) {
//
// landing on the ":" when the whole list was crossed. The second result
// reports whether the cursor moved at all.
func BwdOverInitializationList(c cursor.Cursor) (cursor.Cursor, bool) {
	cur := c
	moved := false
	for {
		next, ok := bwdOverInitializer(cur)
		if !ok {
			break
		}
		cur = next
		moved = true
		if cur.Value() == ":" {
			break
		}
	}
	return cur, moved
}

// BwdOverConstNoexceptDecltype steps back from a function body's opening
// brace (or an initializer list ":") over trailing "const", "noexcept(...)",
// "-> decltype(...)" and similar clauses, landing on the ")" that closes the
// parameter list.
func BwdOverConstNoexceptDecltype(c cursor.Cursor) (cursor.Cursor, bool) {
	cur, ok := prev(c)
	if !ok {
		return c, false
	}
	for {
		v := cur.Value()
		switch {
		case functionQualifiers[v]:
			if cur, ok = prev(cur); !ok {
				return c, false
			}
		case v == ")":
			open, ok := cur.BwdToMatchingToken()
			if !ok {
				return c, false
			}
			before, ok := prev(open)
			if !ok || !parenQualifiers[before.Value()] {
				return cur, true
			}
			if cur, ok = prev(before); !ok {
				return c, false
			}
			if cur.Value() == "->" {
				if cur, ok = prev(cur); !ok {
					return c, false
				}
			}
		case isName(cur) || isKeyword(cur) || v == ">":
			// Trailing return type: "-> std::vector<int>".
			name, ok := bwdOverQualifiedName(cur)
			if !ok && isKeyword(cur) {
				name, ok = prev(cur)
			}
			if !ok || name.Value() != "->" {
				return c, false
			}
			if cur, ok = prev(name); !ok {
				return c, false
			}
		default:
			return c, false
		}
	}
}

var classLikeKeywords = map[string]bool{
	"class":  true,
	"struct": true,
	"union":  true,
	"enum":   true,
}

// NeedsSemicolon reports whether the "{" under c opens a body that must be
// closed with "};": class, struct, union and enum bodies and brace
// initializers. Function bodies and control blocks get no semicolon.
func NeedsSemicolon(c cursor.Cursor) bool {
	if c.Value() != "{" {
		return false
	}
	start := c
	if inh, ok := BwdOverClassInheritance(c); ok {
		start = inh
	}
	cur, ok := prev(start)
	if !ok {
		return false
	}
	if cur.Value() == "=" {
		return true
	}
	if _, ok := BwdOverConstNoexceptDecltype(start); ok {
		return false
	}

	for i := 0; i < 32; i++ {
		v := cur.Value()
		if classLikeKeywords[v] {
			return true
		}
		switch v {
		case ";", "{", "}", ")", "namespace":
			return false
		case ">":
			if cur, ok = cur.BwdToMatchingArrow(); !ok {
				return false
			}
		}
		if cur, ok = prev(cur); !ok {
			return false
		}
	}
	return false
}
