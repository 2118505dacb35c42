// Package scope implements the checker's lexical symbol table: a stack
// of scopes supporting shadowing and innermost-first lookup. §9 permits
// a vector-backed stack of maps in place of the source's
// linked-list-of-linked-lists, provided insertion-order shadowing and
// scope-bounded symbol lifetime are preserved — this implementation
// keeps per-scope symbols in a slice (not a map) so that, within one
// scope, the most recently added binding of a name is found first.
package scope

import "github.com/greenpine82/Zen-C-fork/internal/types"

// Token is duplicated here as a plain location triple so this package
// has no dependency on internal/ast; internal/ast already depends on
// internal/types and the checker package ties both together.
type Token struct {
	File string
	Line int
	Col  int
}

// Symbol is a named binding of an identifier to a type, owned by the
// scope it was declared in. TypeInfo may be nil (unresolved type).
type Symbol struct {
	Name      string
	TypeInfo  *types.Type
	DeclToken Token
}

type scopeFrame struct {
	symbols []*Symbol
}

// Table is the checker's scope stack, rooted at the global scope once
// entered. A zero-value Table has no scopes; Depth reports 0 until
// EnterScope has been called at least once.
type Table struct {
	frames []*scopeFrame
}

// NewTable returns an empty scope stack.
func NewTable() *Table {
	return &Table{}
}

// Depth reports how many scopes are currently pushed.
func (t *Table) Depth() int {
	return len(t.frames)
}

// EnterScope pushes a new, empty scope onto the stack.
func (t *Table) EnterScope() {
	t.frames = append(t.frames, &scopeFrame{})
}

// ExitScope pops the current scope, releasing all of its symbols. It is
// a defensive no-op if the stack is already empty — this should not
// occur on a balanced traversal, but exiting past the root must never
// panic.
func (t *Table) ExitScope() {
	if len(t.frames) == 0 {
		return
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// AddSymbol prepends a symbol to the current scope. Shadowing is
// permitted: if name is already bound in this scope, the new binding
// becomes the one Lookup finds first. AddSymbol is a no-op if no scope
// is currently entered.
func (t *Table) AddSymbol(name string, typ *types.Type, tok Token) {
	if len(t.frames) == 0 {
		return
	}
	frame := t.frames[len(t.frames)-1]
	sym := &Symbol{Name: name, TypeInfo: typ, DeclToken: tok}
	// Prepend so the most recently added symbol is found first,
	// matching the source's "prepend to linked list" shadowing order
	// within a single scope.
	frame.symbols = append([]*Symbol{sym}, frame.symbols...)
}

// Lookup walks scopes innermost-first and returns the first symbol
// named name, or nil if none match in any enclosing scope.
func (t *Table) Lookup(name string) *Symbol {
	for i := len(t.frames) - 1; i >= 0; i-- {
		for _, sym := range t.frames[i].symbols {
			if sym.Name == name {
				return sym
			}
		}
	}
	return nil
}
