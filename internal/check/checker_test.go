package check

import (
	"testing"

	"github.com/greenpine82/Zen-C-fork/internal/ast"
	"github.com/greenpine82/Zen-C-fork/internal/diag"
	"github.com/greenpine82/Zen-C-fork/internal/scope"
	"github.com/greenpine82/Zen-C-fork/internal/types"
)

func tok(line int) ast.Token { return ast.Token{File: "test.zen", Line: line, Col: 1} }

func chain(nodes ...ast.Node) ast.Node {
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].SetNext(nodes[i+1])
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func block(stmts ...ast.Node) *ast.Block {
	return &ast.Block{Base: ast.Base{Tok: tok(0)}, Statements: chain(stmts...)}
}

func intLit(val string, t *types.Type) *ast.ExprLiteral {
	return &ast.ExprLiteral{Base: ast.Base{Tok: tok(0), Type: t}}
}

func strLit(s string) *ast.ExprLiteral {
	return &ast.ExprLiteral{Base: ast.Base{Tok: tok(0)}, StringVal: &s}
}

func floatLit(t *types.Type) *ast.ExprLiteral {
	return &ast.ExprLiteral{Base: ast.Base{Tok: tok(0), Type: t}, TypeKind: 1}
}

func varDecl(name string, declType *types.Type, init ast.Node) *ast.VarDecl {
	return &ast.VarDecl{Base: ast.Base{Tok: tok(0), Type: declType}, Name: name, InitExpr: init}
}

func exprVar(name string) *ast.ExprVar {
	return &ast.ExprVar{Base: ast.Base{Tok: tok(0)}, Name: name}
}

func runProgram(t *testing.T, root ast.Node, filename string) (int, *diag.MemorySink) {
	t.Helper()
	sink := diag.NewMemorySink()
	ctx := &ParserContext{Filename: filename}
	code := CheckProgram(ctx, root, sink)
	return code, sink
}

// Scenario 1: `fn main() -> void { let x: usize = 0; }` -> (0, []).
func TestScenarioSafeZeroLiteralAssignment(t *testing.T) {
	decl := varDecl("x", types.New(types.KindUSize), intLit("0", nil))
	body := block(decl)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 0 {
		t.Fatalf("expected code 0, got %d; diags=%v", code, sink.Diagnostics())
	}
	if len(sink.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics, got %v", sink.Diagnostics())
	}
}

// Scenario 2: `let x: usize = some_i32;` where some_i32: i32 is in scope.
func TestScenarioSignMismatchVariable(t *testing.T) {
	outerDecl := varDecl("some_i32", types.New(types.KindI32), nil)
	innerDecl := varDecl("x", types.New(types.KindUSize), exprVar("some_i32"))
	body := block(outerDecl, innerDecl)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 1 {
		t.Fatalf("expected code 1, got %d", code)
	}
	diags := sink.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(diags), diags)
	}
	want := "Sign mismatch: cannot implicitly convert 'i32' to 'usize' (use cast or unsigned literal)"
	if diags[0].Msg != want {
		t.Fatalf("message = %q, want %q", diags[0].Msg, want)
	}
}

// Scenario 3: fn f() -> i32 { return 0; } fn g() -> u32 { return f(); }
func TestScenarioSignMismatchOnReturnOfCallResult(t *testing.T) {
	fBody := block(&ast.Return{Base: ast.Base{Tok: tok(1)}, Value: intLit("0", types.New(types.KindI32))})
	fFn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindI32)}, Body: fBody}

	// g calls f(); f's ExprVar resolves to the Function symbol, whose
	// TypeInfo (return type) propagates through ExprCall by convention.
	callF := &ast.ExprCall{Base: ast.Base{Tok: tok(2)}, Callee: exprVar("f")}
	gBody := block(&ast.Return{Base: ast.Base{Tok: tok(2)}, Value: callF})
	gFn := &ast.Function{Base: ast.Base{Tok: tok(2), Type: types.New(types.KindU32)}, Body: gBody}

	fFn.SetNext(gFn)
	root := &ast.Root{Children: fFn}

	// Register f in the global scope before checking g by running the
	// whole program: the dispatcher publishes f's symbol as it
	// processes FUNCTION as a statement... but FUNCTION nodes are not
	// VAR_DECLs, so the source's checker does not itself publish a
	// symbol for top-level functions. To resolve `f` inside g, the
	// parser/resolver phase is responsible for pre-seeding the global
	// scope — this test exercises that by checking g standalone with a
	// pre-populated scope rather than relying on check_program's own
	// traversal to bind top-level function names.
	sink := diag.NewMemorySink()
	ctx := &ParserContext{Filename: "main.zen"}
	c := newChecker(ctx, sink)
	c.scopes.EnterScope()
	c.scopes.AddSymbol("f", types.New(types.KindI32), scope.Token{File: "main.zen", Line: 1})
	c.checkNode(gFn)
	c.scopes.ExitScope()

	if sink.ErrorCount() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", sink.ErrorCount(), sink.Diagnostics())
	}
	want := "Sign mismatch: cannot implicitly convert 'i32' to 'u32' (use cast or unsigned literal)"
	if sink.Diagnostics()[0].Msg != want {
		t.Fatalf("message = %q, want %q", sink.Diagnostics()[0].Msg, want)
	}
	_ = root
}

// Scenario 4: void-pointer symmetry both directions.
func TestScenarioVoidPointerSymmetry(t *testing.T) {
	voidPtr := types.NewPointer(types.New(types.KindVoid))
	i32Ptr := types.NewPointer(types.New(types.KindI32))

	pDecl := varDecl("p", voidPtr, exprVar("null_i32_ptr"))
	qDecl := varDecl("q", i32Ptr, exprVar("p"))

	nullI32 := varDecl("null_i32_ptr", i32Ptr, nil)
	body := block(nullI32, pDecl, qDecl)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 0 {
		t.Fatalf("expected code 0, got %d; diags=%v", code, sink.Diagnostics())
	}
}

// Scenario 5: for-loop scope lifetime, usize > 0 comparison accepted.
func TestScenarioForLoopUnsignedComparesZeroLiteral(t *testing.T) {
	init := varDecl("i", types.New(types.KindUSize), intLit("0", nil))
	cond := &ast.ExprBinary{Base: ast.Base{Tok: tok(1)}, Left: exprVar("i"), Right: intLit("0", nil)}
	step := &ast.ExprBinary{Base: ast.Base{Tok: tok(1)}, Left: exprVar("i"), Right: exprVar("i")}
	forNode := &ast.For{Base: ast.Base{Tok: tok(1)}, Init: init, Condition: cond, Step: step, Body: block()}
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: block(forNode)}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 0 {
		t.Fatalf("expected code 0, got %d; diags=%v", code, sink.Diagnostics())
	}
}

// Negative-literal exemption: usize u = -1 must NOT hit the safe-literal
// escape because a negative literal is UnaryOp(-, Literal), which this
// checker doesn't model as ExprLiteral at all — simulated here by
// directly constructing the non-literal expression the parser would
// produce, an ExprVar standing in for the unary-minus node's inferred
// i32 type.
func TestSafeLiteralExemptionDoesNotCoverNegativeValues(t *testing.T) {
	negative := varDecl("neg", types.New(types.KindI32), nil)
	uDecl := varDecl("u", types.New(types.KindUSize), exprVar("neg"))
	body := block(negative, uDecl)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 1 {
		t.Fatalf("expected code 1 (sign mismatch), got %d", code)
	}
	if sink.Diagnostics()[0].Code != diag.CodeSignMismatch {
		t.Fatalf("expected sign mismatch code, got %v", sink.Diagnostics()[0].Code)
	}
}

// Unknown identifier silence: use(undeclared) emits no diagnostic.
func TestUnknownIdentifierIsSilent(t *testing.T) {
	body := block(&ast.ExprVar{Base: ast.Base{Tok: tok(1)}, Name: "undeclared"})
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	_, sink := runProgram(t, root, "main.zen")
	if len(sink.Diagnostics()) != 0 {
		t.Fatalf("expected no diagnostics for an undeclared identifier, got %v", sink.Diagnostics())
	}
}

// Type mismatch default case: assigning a bool to a declared i32.
func TestDefaultTypeMismatch(t *testing.T) {
	b := varDecl("ok", types.New(types.KindBool), nil)
	x := varDecl("x", types.New(types.KindI32), exprVar("ok"))
	body := block(b, x)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 1 {
		t.Fatalf("expected code 1, got %d", code)
	}
	want := "Type mismatch: expected 'i32', got 'bool'"
	if sink.Diagnostics()[0].Msg != want {
		t.Fatalf("message = %q, want %q", sink.Diagnostics()[0].Msg, want)
	}
}

// Scope balance and monotonic error count across a larger tree with
// multiple nested blocks and errors in several of them.
func TestScopeBalanceAndMonotonicErrorCount(t *testing.T) {
	flag := varDecl("flag", types.New(types.KindBool), nil)
	bad1 := varDecl("a", types.New(types.KindI32), exprVar("flag"))
	innerFlag := varDecl("flag2", types.New(types.KindBool), nil)
	innerBad := varDecl("b", types.New(types.KindI32), exprVar("flag2"))
	innerBlock := block(innerFlag, innerBad)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: block(flag, bad1, innerBlock)}
	root := &ast.Root{Children: fn}

	sink := diag.NewMemorySink()
	ctx := &ParserContext{Filename: "main.zen"}
	c := newChecker(ctx, sink)

	c.scopes.EnterScope()
	prevCount := sink.ErrorCount()
	c.checkNode(root)
	if sink.ErrorCount() < prevCount {
		t.Fatalf("error count decreased")
	}
	if sink.ErrorCount() != 2 {
		t.Fatalf("expected 2 accumulated diagnostics, got %d: %v", sink.ErrorCount(), sink.Diagnostics())
	}
	c.scopes.ExitScope()

	if c.scopes.Depth() != 0 {
		t.Fatalf("expected balanced scopes, depth = %d", c.scopes.Depth())
	}
}

// Determinism: running the same tree twice yields identical diagnostics.
func TestDeterminism(t *testing.T) {
	build := func() ast.Node {
		outerDecl := varDecl("some_i32", types.New(types.KindI32), nil)
		innerDecl := varDecl("x", types.New(types.KindUSize), exprVar("some_i32"))
		body := block(outerDecl, innerDecl)
		fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
		return &ast.Root{Children: fn}
	}

	_, sink1 := runProgram(t, build(), "main.zen")
	_, sink2 := runProgram(t, build(), "main.zen")

	d1, d2 := sink1.Diagnostics(), sink2.Diagnostics()
	if len(d1) != len(d2) {
		t.Fatalf("diagnostic count differs: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Fatalf("diagnostic %d differs: %+v vs %+v", i, d1[i], d2[i])
		}
	}
}

// Float literals never qualify for the safe-integer-literal escape.
func TestFloatLiteralDoesNotQualifyForSafeEscape(t *testing.T) {
	decl := varDecl("u", types.New(types.KindUSize), floatLit(nil))
	body := block(decl)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	// A float literal with no TypeInfo yields "insufficient information"
	// (rule 1), not a mismatch — type_info is nil pre-inference, so this
	// should be silently accepted, exercising the cascade-suppression
	// rule rather than the literal escape itself.
	code, sink := runProgram(t, root, "main.zen")
	if code != 0 {
		t.Fatalf("expected code 0 (nil type_info suppresses diagnosis), got %d: %v", code, sink.Diagnostics())
	}

	// Now give the float literal an explicit (wrong) type_info and
	// confirm it is rejected as a type mismatch, not rescued as a safe
	// literal.
	decl2 := varDecl("u2", types.New(types.KindUSize), floatLit(types.New(types.KindFloat)))
	body2 := block(decl2)
	fn2 := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body2}
	root2 := &ast.Root{Children: fn2}

	code2, sink2 := runProgram(t, root2, "main.zen")
	if code2 != 1 {
		t.Fatalf("expected code 1, got %d", code2)
	}
	if sink2.Diagnostics()[0].Code != diag.CodeTypeMismatch {
		t.Fatalf("expected type mismatch, got %v", sink2.Diagnostics()[0].Code)
	}
}

// String literals never qualify for the safe-integer-literal escape.
func TestStringLiteralDoesNotQualifyForSafeEscape(t *testing.T) {
	lit := strLit("hi")
	lit.SetTypeInfo(types.New(types.KindI32))
	decl := varDecl("u", types.New(types.KindUSize), lit)
	body := block(decl)
	fn := &ast.Function{Base: ast.Base{Tok: tok(1), Type: types.New(types.KindVoid)}, Body: body}
	root := &ast.Root{Children: fn}

	code, sink := runProgram(t, root, "main.zen")
	if code != 1 {
		t.Fatalf("expected code 1, got %d", code)
	}
	if sink.Diagnostics()[0].Code != diag.CodeSignMismatch {
		t.Fatalf("expected sign mismatch, got %v", sink.Diagnostics()[0].Code)
	}
}
