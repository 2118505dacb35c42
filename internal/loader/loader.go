// Package loader stands in for the out-of-scope lexer/parser (spec.md
// §1): it reads a JSON-encoded AST fixture — the shape a real Zen
// parser would hand the checker — and builds the internal/ast tree the
// checker core consumes. It also resolves glob patterns over fixture
// files so the CLI driver can check many files in one invocation.
package loader

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/greenpine82/Zen-C-fork/internal/ast"
	"github.com/greenpine82/Zen-C-fork/internal/types"
)

// Resolve expands pattern (a doublestar glob, e.g. "**/*.zenast.json")
// into a sorted list of matching file paths.
func Resolve(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving fixture glob %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadFile reads path and decodes it into an ast.Node tree.
func LoadFile(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading fixture %q", path)
	}
	node, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding fixture %q", path)
	}
	return node, nil
}

// Decode parses a JSON-encoded AST fixture into an ast.Node tree.
func Decode(data []byte) (ast.Node, error) {
	var raw jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid AST fixture JSON")
	}
	return build(&raw)
}

// jsonType is the wire shape of internal/types.Type.
type jsonType struct {
	Kind  string    `json:"kind"`
	Inner *jsonType `json:"inner,omitempty"`
	Name  string    `json:"name,omitempty"`
}

var kindByName = map[string]types.Kind{
	"i8": types.KindI8, "i16": types.KindI16, "i32": types.KindI32,
	"i64": types.KindI64, "i128": types.KindI128, "int": types.KindInt,
	"isize": types.KindISize,
	"u8":    types.KindU8, "u16": types.KindU16, "u32": types.KindU32,
	"u64": types.KindU64, "u128": types.KindU128, "uint": types.KindUint,
	"usize":    types.KindUSize,
	"float":    types.KindFloat,
	"bool":     types.KindBool,
	"void":     types.KindVoid,
	"char":     types.KindChar,
	"string":   types.KindString,
	"pointer":  types.KindPointer,
	"struct":   types.KindStruct,
	"array":    types.KindArray,
	"function": types.KindFunction,
}

func buildType(jt *jsonType) (*types.Type, error) {
	if jt == nil {
		return nil, nil
	}
	k, ok := kindByName[jt.Kind]
	if !ok {
		return nil, errors.Errorf("unknown type kind %q", jt.Kind)
	}
	t := &types.Type{Kind: k, Name: jt.Name}
	if k == types.KindPointer {
		inner, err := buildType(jt.Inner)
		if err != nil {
			return nil, err
		}
		t.Inner = inner
	}
	return t, nil
}

// jsonNode is the wire shape of every internal/ast node kind, unioned
// into one struct for simplicity — unused fields for a given "kind"
// are simply omitted by the producer.
type jsonNode struct {
	Kind string    `json:"kind"`
	Tok  jsonToken `json:"token"`
	Type *jsonType `json:"type,omitempty"`
	Next *jsonNode `json:"next,omitempty"`

	Children *jsonNode `json:"children,omitempty"`

	Statements *jsonNode `json:"statements,omitempty"`

	Name     string    `json:"name,omitempty"`
	InitExpr *jsonNode `json:"init_expr,omitempty"`

	ParamNames []string    `json:"param_names,omitempty"`
	ArgTypes   []*jsonType `json:"arg_types,omitempty"`
	ArgCount   int         `json:"arg_count,omitempty"`
	Body       *jsonNode   `json:"body,omitempty"`

	Value *jsonNode `json:"value,omitempty"`

	Condition *jsonNode `json:"condition,omitempty"`
	ThenBody  *jsonNode `json:"then_body,omitempty"`
	ElseBody  *jsonNode `json:"else_body,omitempty"`

	Init *jsonNode `json:"init,omitempty"`
	Step *jsonNode `json:"step,omitempty"`

	Left  *jsonNode `json:"left,omitempty"`
	Right *jsonNode `json:"right,omitempty"`

	Callee *jsonNode `json:"callee,omitempty"`
	Args   *jsonNode `json:"args,omitempty"`

	StringVal *string `json:"string_val,omitempty"`
	TypeKind  int     `json:"type_kind,omitempty"`
}

type jsonToken struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

func build(n *jsonNode) (ast.Node, error) {
	if n == nil {
		return nil, nil
	}

	typ, err := buildType(n.Type)
	if err != nil {
		return nil, err
	}
	base := ast.Base{
		Tok:  ast.Token{File: n.Tok.File, Line: n.Tok.Line, Col: n.Tok.Col},
		Type: typ,
	}

	var out ast.Node
	switch n.Kind {
	case "root":
		children, err := build(n.Children)
		if err != nil {
			return nil, err
		}
		out = &ast.Root{Base: base, Children: children}
	case "block":
		stmts, err := build(n.Statements)
		if err != nil {
			return nil, err
		}
		out = &ast.Block{Base: base, Statements: stmts}
	case "var_decl":
		initExpr, err := build(n.InitExpr)
		if err != nil {
			return nil, err
		}
		out = &ast.VarDecl{Base: base, Name: n.Name, InitExpr: initExpr}
	case "function":
		argTypes := make([]*types.Type, len(n.ArgTypes))
		for i, jt := range n.ArgTypes {
			at, err := buildType(jt)
			if err != nil {
				return nil, err
			}
			argTypes[i] = at
		}
		body, err := build(n.Body)
		if err != nil {
			return nil, err
		}
		out = &ast.Function{
			Base: base, ParamNames: n.ParamNames, ArgTypes: argTypes,
			ArgCount: n.ArgCount, Body: body,
		}
	case "expr_var":
		out = &ast.ExprVar{Base: base, Name: n.Name}
	case "return":
		val, err := build(n.Value)
		if err != nil {
			return nil, err
		}
		out = &ast.Return{Base: base, Value: val}
	case "if":
		cond, err := build(n.Condition)
		if err != nil {
			return nil, err
		}
		thenBody, err := build(n.ThenBody)
		if err != nil {
			return nil, err
		}
		elseBody, err := build(n.ElseBody)
		if err != nil {
			return nil, err
		}
		out = &ast.If{Base: base, Condition: cond, ThenBody: thenBody, ElseBody: elseBody}
	case "while":
		cond, err := build(n.Condition)
		if err != nil {
			return nil, err
		}
		body, err := build(n.Body)
		if err != nil {
			return nil, err
		}
		out = &ast.While{Base: base, Condition: cond, Body: body}
	case "for":
		initN, err := build(n.Init)
		if err != nil {
			return nil, err
		}
		cond, err := build(n.Condition)
		if err != nil {
			return nil, err
		}
		step, err := build(n.Step)
		if err != nil {
			return nil, err
		}
		body, err := build(n.Body)
		if err != nil {
			return nil, err
		}
		out = &ast.For{Base: base, Init: initN, Condition: cond, Step: step, Body: body}
	case "expr_binary":
		left, err := build(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := build(n.Right)
		if err != nil {
			return nil, err
		}
		out = &ast.ExprBinary{Base: base, Left: left, Right: right}
	case "expr_call":
		callee, err := build(n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := build(n.Args)
		if err != nil {
			return nil, err
		}
		out = &ast.ExprCall{Base: base, Callee: callee, Args: args}
	case "expr_literal":
		out = &ast.ExprLiteral{Base: base, StringVal: n.StringVal, TypeKind: n.TypeKind}
	default:
		return nil, errors.Errorf("unknown AST node kind %q", n.Kind)
	}

	next, err := build(n.Next)
	if err != nil {
		return nil, err
	}
	out.SetNext(next)
	return out, nil
}
