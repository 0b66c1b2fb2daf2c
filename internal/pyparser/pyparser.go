// Package pyparser builds internal/pyast trees from source text, using
// tree-sitter's Python grammar as the concrete syntax tree. This is
// the surface parser spec.md §1 calls out of scope and assumes
// pre-parsed ("the spec assumes a fully parsed syntax tree is
// provided"); SPEC_FULL.md §12 supplies it so the analyser has a real
// front end to run against. Grounded directly on
// vjache-cie/pkg/ingestion/parser_python.go and parser_treesitter.go:
// a *sitter.Parser configured with python.GetLanguage(), a
// field-by-name CST walk, and byte-offset slicing of the source for
// leaf text.
package pyparser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/suadelabs/rattr/internal/pyast"
)

// Parser parses Python source into a *pyast.Module.
type Parser struct {
	file string
}

// New builds a Parser; file is attached to every diagnostic-relevant
// position produced (consumers call pyast.Pos.Loc(file) themselves,
// so Parser only needs file for tree-sitter's own error messages).
func New(file string) *Parser {
	return &Parser{file: file}
}

// ParseFile parses src and returns its module tree.
func (p *Parser) ParseFile(src []byte) (*pyast.Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("pyparser: %s: %w", p.file, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	b := &builder{src: src, file: p.file}
	body := b.block(root)
	return &pyast.Module{Body: body}, nil
}

// builder holds the source bytes shared by every node conversion in
// one parse.
type builder struct {
	src  []byte
	file string
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(b.src[n.StartByte():n.EndByte()])
}

func (b *builder) pos(n *sitter.Node) pyast.Pos {
	start, end := n.StartPoint(), n.EndPoint()
	return pyast.Pos{
		LineNo:       int(start.Row) + 1,
		EndLineNo:    int(end.Row) + 1,
		ColOffset:    int(start.Column),
		EndColOffset: int(end.Column),
	}
}

// block converts every named statement-shaped child of n (a module or
// a `block` node) into pyast.Stmt, unwrapping `decorated_definition`
// wrappers onto the def/class they decorate.
func (b *builder) block(n *sitter.Node) []pyast.Stmt {
	var out []pyast.Stmt
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		stmts := b.stmt(child)
		out = append(out, stmts...)
	}
	return out
}

// stmt converts one CST statement node, possibly to several pyast
// statements (e.g. `import a, b` flattens to one Import with two
// Aliases, but a top-level compound assignment with a trailing simple
// statement sibling on one line is already split by tree-sitter into
// separate nodes, so this always returns exactly one element except
// for the synthetic empty case).
func (b *builder) stmt(n *sitter.Node) []pyast.Stmt {
	switch n.Type() {
	case "function_definition":
		return []pyast.Stmt{b.functionDef(n, nil)}
	case "class_definition":
		return []pyast.Stmt{b.classDef(n, nil)}
	case "decorated_definition":
		return []pyast.Stmt{b.decoratedDef(n)}
	case "expression_statement":
		return b.expressionStatement(n)
	case "return_statement":
		return []pyast.Stmt{b.returnStmt(n)}
	case "delete_statement":
		return []pyast.Stmt{b.deleteStmt(n)}
	case "for_statement":
		return []pyast.Stmt{b.forStmt(n, false)}
	case "while_statement":
		return []pyast.Stmt{b.whileStmt(n)}
	case "if_statement":
		return []pyast.Stmt{b.ifStmt(n)}
	case "try_statement":
		return []pyast.Stmt{b.tryStmt(n)}
	case "with_statement":
		return []pyast.Stmt{b.withStmt(n, false)}
	case "import_statement":
		return []pyast.Stmt{b.importStmt(n)}
	case "import_from_statement":
		return []pyast.Stmt{b.importFromStmt(n)}
	case "global_statement":
		return []pyast.Stmt{b.globalStmt(n)}
	case "nonlocal_statement":
		return []pyast.Stmt{b.nonlocalStmt(n)}
	case "pass_statement":
		return []pyast.Stmt{&pyast.Pass{}}
	case "break_statement":
		return []pyast.Stmt{&pyast.Break{}}
	case "continue_statement":
		return []pyast.Stmt{&pyast.Continue{}}
	case "comment":
		return nil
	default:
		return nil
	}
}

func (b *builder) decoratedDef(n *sitter.Node) pyast.Stmt {
	var decorators []pyast.Decorator
	var inner *sitter.Node

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, b.decorator(child))
			continue
		}
		inner = child
	}
	if inner == nil {
		return &pyast.Pass{}
	}
	switch inner.Type() {
	case "function_definition":
		return b.functionDef(inner, decorators)
	case "class_definition":
		return b.classDef(inner, decorators)
	default:
		return &pyast.Pass{}
	}
}

func (b *builder) decorator(n *sitter.Node) pyast.Decorator {
	// Children after the leading "@" are either a bare dotted name or a
	// call expression.
	target := n.NamedChild(0)
	if target == nil {
		return pyast.Decorator{Pos: b.pos(n)}
	}
	if target.Type() == "call" {
		funcNode := target.ChildByFieldName("function")
		call := b.call(target)
		return pyast.Decorator{Pos: b.pos(n), Name: b.text(funcNode), Call: call}
	}
	return pyast.Decorator{Pos: b.pos(n), Name: b.text(target)}
}

func (b *builder) arguments(n *sitter.Node) pyast.Arguments {
	var out pyast.Arguments
	if n == nil {
		return out
	}
	sawStar := false
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "identifier":
			arg := pyast.Arg{Arg: b.text(p)}
			if sawStar {
				out.KwOnlyArgs = append(out.KwOnlyArgs, arg)
			} else {
				out.Args = append(out.Args, arg)
			}
		case "typed_parameter":
			name := p.NamedChild(0)
			arg := pyast.Arg{Arg: b.text(name)}
			if sawStar {
				out.KwOnlyArgs = append(out.KwOnlyArgs, arg)
			} else {
				out.Args = append(out.Args, arg)
			}
		case "default_parameter", "typed_default_parameter":
			name := p.ChildByFieldName("name")
			arg := pyast.Arg{Arg: b.text(name)}
			if sawStar {
				out.KwOnlyArgs = append(out.KwOnlyArgs, arg)
			} else {
				out.Args = append(out.Args, arg)
			}
		case "list_splat_pattern":
			name := p.NamedChild(0)
			out.Vararg = &pyast.Arg{Arg: b.text(name)}
			sawStar = true
		case "dictionary_splat_pattern":
			name := p.NamedChild(0)
			out.Kwarg = &pyast.Arg{Arg: b.text(name)}
		case "positional_separator":
			out.PosOnlyArgs = out.Args
			out.Args = nil
		case "keyword_separator":
			sawStar = true
		}
	}
	return out
}

func (b *builder) functionDef(n *sitter.Node, decorators []pyast.Decorator) *pyast.FunctionDef {
	name := b.text(n.ChildByFieldName("name"))
	params := b.arguments(n.ChildByFieldName("parameters"))
	body := b.block(n.ChildByFieldName("body"))

	isAsync := false
	if first := n.Child(0); first != nil && b.text(first) == "async" {
		isAsync = true
	}

	return &pyast.FunctionDef{
		Base:       pyast.Base{Pos: b.pos(n)},
		Name:       name,
		Args:       params,
		Body:       body,
		Decorators: decorators,
		IsAsync:    isAsync,
	}
}

func (b *builder) classDef(n *sitter.Node, decorators []pyast.Decorator) *pyast.ClassDef {
	name := b.text(n.ChildByFieldName("name"))
	body := b.block(n.ChildByFieldName("body"))

	var bases []pyast.Expr
	if argList := n.ChildByFieldName("superclasses"); argList != nil {
		count := int(argList.NamedChildCount())
		for i := 0; i < count; i++ {
			bases = append(bases, b.expr(argList.NamedChild(i)))
		}
	}

	return &pyast.ClassDef{
		Base:       pyast.Base{Pos: b.pos(n)},
		Name:       name,
		Bases:      bases,
		Body:       body,
		Decorators: decorators,
	}
}

// expressionStatement converts a bare expression statement, including
// assignments (tree-sitter folds `=`/aug-assign/annotated-assign into
// expression_statement's sole named child rather than giving them
// their own statement-level node type).
func (b *builder) expressionStatement(n *sitter.Node) []pyast.Stmt {
	inner := n.NamedChild(0)
	if inner == nil {
		return nil
	}
	switch inner.Type() {
	case "assignment":
		return []pyast.Stmt{b.assignment(inner)}
	case "augmented_assignment":
		return []pyast.Stmt{b.augAssignment(inner)}
	default:
		return []pyast.Stmt{&pyast.ExprStmt{Base: pyast.Base{Pos: b.pos(n)}, Value: b.expr(inner)}}
	}
}

// assignment handles both `target = value` and `target: type = value`
// (tree-sitter gives the latter its own "type" field on the same node
// type), as well as Python's chained `a = b = value` form (several
// assignment nodes are never nested by the grammar for chained
// assignment — only the left-most level is; the rest arrive as a
// nested `assignment` in the `right` field, so this recurses to
// collect every target level into one Assign).
func (b *builder) assignment(n *sitter.Node) pyast.Stmt {
	target := n.ChildByFieldName("left")
	value := n.ChildByFieldName("right")
	typeNode := n.ChildByFieldName("type")

	if typeNode != nil {
		return &pyast.AnnAssign{
			Base:       pyast.Base{Pos: b.pos(n)},
			Target:     b.expr(target),
			Annotation: b.expr(typeNode),
			Value:      b.exprOrNil(value),
		}
	}

	targets := []pyast.Expr{b.expr(target)}
	for value != nil && value.Type() == "assignment" {
		targets = append(targets, b.expr(value.ChildByFieldName("left")))
		value = value.ChildByFieldName("right")
	}

	return &pyast.Assign{
		Base:    pyast.Base{Pos: b.pos(n)},
		Targets: targets,
		Value:   b.exprOrNil(value),
	}
}

func (b *builder) augAssignment(n *sitter.Node) pyast.Stmt {
	return &pyast.AugAssign{
		Base:   pyast.Base{Pos: b.pos(n)},
		Target: b.expr(n.ChildByFieldName("left")),
		Value:  b.exprOrNil(n.ChildByFieldName("right")),
	}
}

func (b *builder) returnStmt(n *sitter.Node) pyast.Stmt {
	var value pyast.Expr
	if v := n.NamedChild(0); v != nil {
		value = b.expr(v)
	}
	return &pyast.Return{Base: pyast.Base{Pos: b.pos(n)}, Value: value}
}

func (b *builder) deleteStmt(n *sitter.Node) pyast.Stmt {
	var targets []pyast.Expr
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		targets = append(targets, b.expr(n.NamedChild(i)))
	}
	return &pyast.Delete{Base: pyast.Base{Pos: b.pos(n)}, Targets: targets}
}

func (b *builder) forStmt(n *sitter.Node, isAsync bool) pyast.Stmt {
	if first := n.Child(0); first != nil && b.text(first) == "async" {
		isAsync = true
	}
	target := b.exprCtx(n.ChildByFieldName("left"), pyast.Store)
	iter := b.expr(n.ChildByFieldName("right"))
	body := b.block(n.ChildByFieldName("body"))
	orElse := b.alternative(n)

	return &pyast.For{
		Base: pyast.Base{Pos: b.pos(n)}, Target: target, Iter: iter,
		Body: body, OrElse: orElse, IsAsync: isAsync,
	}
}

func (b *builder) whileStmt(n *sitter.Node) pyast.Stmt {
	return &pyast.While{
		Base: pyast.Base{Pos: b.pos(n)},
		Test: b.expr(n.ChildByFieldName("condition")),
		Body: b.block(n.ChildByFieldName("body")),
		OrElse: b.alternative(n),
	}
}

// alternative finds a trailing `else_clause` sibling of n (for/while's
// else, distinct from if's elif chain handled in ifStmt) and returns
// its body, or nil if absent.
func (b *builder) alternative(n *sitter.Node) []pyast.Stmt {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "else_clause" {
			return b.block(child.ChildByFieldName("body"))
		}
	}
	return nil
}

func (b *builder) ifStmt(n *sitter.Node) pyast.Stmt {
	test := b.expr(n.ChildByFieldName("condition"))
	body := b.block(n.ChildByFieldName("body"))

	var orElse []pyast.Stmt
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "elif_clause":
			orElse = []pyast.Stmt{b.elifClause(child)}
		case "else_clause":
			orElse = b.block(child.ChildByFieldName("body"))
		}
	}

	return &pyast.If{Base: pyast.Base{Pos: b.pos(n)}, Test: test, Body: body, OrElse: orElse}
}

func (b *builder) elifClause(n *sitter.Node) pyast.Stmt {
	test := b.expr(n.ChildByFieldName("condition"))
	body := b.block(n.ChildByFieldName("body"))

	var orElse []pyast.Stmt
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "elif_clause":
			orElse = []pyast.Stmt{b.elifClause(child)}
		case "else_clause":
			orElse = b.block(child.ChildByFieldName("body"))
		}
	}
	return &pyast.If{Base: pyast.Base{Pos: b.pos(n)}, Test: test, Body: body, OrElse: orElse}
}

func (b *builder) tryStmt(n *sitter.Node) pyast.Stmt {
	body := b.block(n.ChildByFieldName("body"))

	var handlers []pyast.ExceptHandler
	var orElse, finalBody []pyast.Stmt

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "except_clause":
			handlers = append(handlers, b.exceptClause(child))
		case "else_clause":
			orElse = b.block(child.ChildByFieldName("body"))
		case "finally_clause":
			finalBody = b.block(child.ChildByFieldName("body"))
		}
	}

	return &pyast.Try{
		Base: pyast.Base{Pos: b.pos(n)}, Body: body,
		Handlers: handlers, OrElse: orElse, FinalBody: finalBody,
	}
}

func (b *builder) exceptClause(n *sitter.Node) pyast.ExceptHandler {
	var typ pyast.Expr
	var name string
	var body []pyast.Stmt

	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "block":
			body = b.block(child)
		case "as_pattern":
			typ = b.expr(child.NamedChild(0))
			if target := child.NamedChild(1); target != nil {
				name = b.text(target)
			}
		default:
			if typ == nil {
				typ = b.expr(child)
			}
		}
	}
	return pyast.ExceptHandler{Type: typ, Name: name, Body: body}
}

func (b *builder) withStmt(n *sitter.Node, isAsync bool) pyast.Stmt {
	if first := n.Child(0); first != nil && b.text(first) == "async" {
		isAsync = true
	}
	var items []pyast.WithItem
	clause := n.ChildByFieldName("items")
	if clause == nil {
		// Older grammar versions nest a with_clause containing the items.
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			if child := n.NamedChild(i); child.Type() == "with_clause" {
				clause = child
			}
		}
	}
	if clause != nil {
		count := int(clause.NamedChildCount())
		for i := 0; i < count; i++ {
			child := clause.NamedChild(i)
			if child.Type() != "with_item" {
				continue
			}
			value := child.NamedChild(0)
			if value == nil {
				continue
			}
			if value.Type() == "as_pattern" {
				ctxExpr := b.expr(value.NamedChild(0))
				var optional pyast.Expr
				if target := value.NamedChild(1); target != nil {
					optional = b.exprCtx(target, pyast.Store)
				}
				items = append(items, pyast.WithItem{ContextExpr: ctxExpr, OptionalVars: optional})
			} else {
				items = append(items, pyast.WithItem{ContextExpr: b.expr(value)})
			}
		}
	}

	body := b.block(n.ChildByFieldName("body"))
	return &pyast.With{Base: pyast.Base{Pos: b.pos(n)}, Items: items, Body: body, IsAsync: isAsync}
}

func (b *builder) aliasesFrom(n *sitter.Node) []pyast.Alias {
	var out []pyast.Alias
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name", "identifier":
			out = append(out, pyast.Alias{Name: b.text(child)})
		case "aliased_import":
			name := b.text(child.ChildByFieldName("name"))
			asName := b.text(child.ChildByFieldName("alias"))
			out = append(out, pyast.Alias{Name: name, AsName: asName})
		case "wildcard_import":
			out = append(out, pyast.Alias{Name: "*"})
		}
	}
	return out
}

func (b *builder) importStmt(n *sitter.Node) pyast.Stmt {
	return &pyast.Import{Base: pyast.Base{Pos: b.pos(n)}, Names: b.aliasesFrom(n)}
}

func (b *builder) importFromStmt(n *sitter.Node) pyast.Stmt {
	moduleNode := n.ChildByFieldName("module_name")
	module := ""
	level := 0
	if moduleNode != nil {
		switch moduleNode.Type() {
		case "relative_import":
			// Leading dots plus optional dotted_name, e.g. "from ..pkg import x".
			count := int(moduleNode.NamedChildCount())
			for i := 0; i < count; i++ {
				child := moduleNode.NamedChild(i)
				if child.Type() == "dotted_name" {
					module = b.text(child)
				}
			}
			level = strings.Count(b.text(moduleNode), ".")
			if module != "" {
				level -= strings.Count(module, ".")
			}
		default:
			module = b.text(moduleNode)
		}
	}

	return &pyast.ImportFrom{
		Base: pyast.Base{Pos: b.pos(n)}, Module: module,
		Names: b.aliasesFrom(n), Level: level,
	}
}

func (b *builder) globalStmt(n *sitter.Node) pyast.Stmt {
	var names []string
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		names = append(names, b.text(n.NamedChild(i)))
	}
	return &pyast.Global{Base: pyast.Base{Pos: b.pos(n)}, Names: names}
}

func (b *builder) nonlocalStmt(n *sitter.Node) pyast.Stmt {
	var names []string
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		names = append(names, b.text(n.NamedChild(i)))
	}
	return &pyast.Nonlocal{Base: pyast.Base{Pos: b.pos(n)}, Names: names}
}

// exprOrNil converts n to a pyast.Expr, returning nil for a nil node
// (a bare `return` or a `target: annotation` with no `= value`).
func (b *builder) exprOrNil(n *sitter.Node) pyast.Expr {
	if n == nil {
		return nil
	}
	return b.expr(n)
}

// exprCtx converts n as expr but overrides the resulting Name/
// Attribute/Subscript/Starred/Tuple/List node's Ctx, used for
// assignment and for-loop targets where tree-sitter's grammar does not
// distinguish Load from Store/Del contexts itself.
func (b *builder) exprCtx(n *sitter.Node, ctx pyast.ExprContext) pyast.Expr {
	e := b.expr(n)
	switch v := e.(type) {
	case *pyast.Name:
		v.Ctx = ctx
	case *pyast.Attribute:
		v.Ctx = ctx
	case *pyast.Subscript:
		v.Ctx = ctx
	case *pyast.Starred:
		v.Ctx = ctx
		if inner := b.exprCtx(nStarredValue(n), ctx); inner != nil {
			v.Value = inner
		}
	case *pyast.Tuple:
		v.Ctx = ctx
		for i, elt := range v.Elts {
			v.Elts[i] = withCtx(elt, ctx)
		}
	case *pyast.List:
		v.Ctx = ctx
		for i, elt := range v.Elts {
			v.Elts[i] = withCtx(elt, ctx)
		}
	}
	return e
}

func withCtx(e pyast.Expr, ctx pyast.ExprContext) pyast.Expr {
	switch v := e.(type) {
	case *pyast.Name:
		v.Ctx = ctx
	case *pyast.Attribute:
		v.Ctx = ctx
	case *pyast.Subscript:
		v.Ctx = ctx
	case *pyast.Starred:
		v.Ctx = ctx
	}
	return e
}

func nStarredValue(n *sitter.Node) *sitter.Node {
	if n == nil || n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

func (b *builder) call(n *sitter.Node) *pyast.Call {
	funcNode := n.ChildByFieldName("function")
	argsNode := n.ChildByFieldName("arguments")

	call := &pyast.Call{Base: pyast.Base{Pos: b.pos(n)}, Func: b.expr(funcNode)}
	if argsNode == nil {
		return call
	}
	count := int(argsNode.NamedChildCount())
	for i := 0; i < count; i++ {
		arg := argsNode.NamedChild(i)
		if arg.Type() == "keyword_argument" {
			name := b.text(arg.ChildByFieldName("name"))
			call.Keywords = append(call.Keywords, pyast.Keyword{Arg: name, Value: b.expr(arg.ChildByFieldName("value"))})
			continue
		}
		if arg.Type() == "dictionary_splat" {
			call.Keywords = append(call.Keywords, pyast.Keyword{Arg: "", Value: b.expr(arg.NamedChild(0))})
			continue
		}
		call.Args = append(call.Args, b.expr(arg))
	}
	return call
}

func (b *builder) comprehensionClauses(n *sitter.Node) []pyast.Comprehension {
	var out []pyast.Comprehension
	count := int(n.NamedChildCount())
	for i := 1; i < count; i++ { // skip index 0, the yielded element/key/value
		child := n.NamedChild(i)
		switch child.Type() {
		case "for_in_clause":
			isAsync := false
			if first := child.Child(0); first != nil && b.text(first) == "async" {
				isAsync = true
			}
			target := b.exprCtx(child.ChildByFieldName("left"), pyast.Store)
			iter := b.expr(child.ChildByFieldName("right"))
			out = append(out, pyast.Comprehension{Target: target, Iter: iter, IsAsync: isAsync})
		case "if_clause":
			if len(out) > 0 {
				last := &out[len(out)-1]
				last.Ifs = append(last.Ifs, b.expr(child.NamedChild(0)))
			}
		}
	}
	return out
}

func (b *builder) lambda(n *sitter.Node) pyast.Expr {
	params := b.arguments(n.ChildByFieldName("parameters"))
	body := b.expr(n.ChildByFieldName("body"))
	return &pyast.Lambda{Base: pyast.Base{Pos: b.pos(n)}, Args: params, Body: body}
}

// expr converts one CST expression node. Unhandled/unknown node types
// become a Constant carrying their own source text, so callers always
// receive a non-nil Expr to recurse into or normalize.
func (b *builder) expr(n *sitter.Node) pyast.Expr {
	if n == nil {
		return &pyast.Constant{Kind: "None"}
	}

	switch n.Type() {
	case "identifier":
		return &pyast.Name{Base: pyast.Base{Pos: b.pos(n)}, Id: b.text(n), Ctx: pyast.Load}
	case "attribute":
		value := b.expr(n.ChildByFieldName("object"))
		attr := b.text(n.ChildByFieldName("attribute"))
		return &pyast.Attribute{Base: pyast.Base{Pos: b.pos(n)}, Value: value, Attr: attr, Ctx: pyast.Load}
	case "subscript":
		value := b.expr(n.ChildByFieldName("value"))
		var slice pyast.Expr
		if s := n.ChildByFieldName("subscript"); s != nil {
			slice = b.expr(s)
		}
		return &pyast.Subscript{Base: pyast.Base{Pos: b.pos(n)}, Value: value, Slice: slice, Ctx: pyast.Load}
	case "list_splat":
		return &pyast.Starred{Base: pyast.Base{Pos: b.pos(n)}, Value: b.expr(n.NamedChild(0)), Ctx: pyast.Load}
	case "call":
		return b.call(n)
	case "integer":
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "int", Value: b.text(n)}
	case "float":
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "float", Value: b.text(n)}
	case "true", "false":
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "bool", Value: b.text(n)}
	case "none":
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "None", Value: "None"}
	case "ellipsis":
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "ellipsis", Value: "..."}
	case "string", "concatenated_string":
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "str", Value: b.stringValue(n)}
	case "binary_operator":
		return &pyast.BinOp{
			Base: pyast.Base{Pos: b.pos(n)},
			Left: b.expr(n.ChildByFieldName("left")), Right: b.expr(n.ChildByFieldName("right")),
		}
	case "unary_operator", "not_operator":
		operand := n.ChildByFieldName("argument")
		if operand == nil {
			operand = n.NamedChild(0)
		}
		return &pyast.UnaryOp{Base: pyast.Base{Pos: b.pos(n)}, Operand: b.expr(operand)}
	case "boolean_operator":
		return &pyast.BoolOp{
			Base: pyast.Base{Pos: b.pos(n)},
			Values: []pyast.Expr{b.expr(n.ChildByFieldName("left")), b.expr(n.ChildByFieldName("right"))},
		}
	case "comparison_operator":
		left := b.expr(n.ChildByFieldName("left") /* may be nil on some grammar versions */)
		var comparators []pyast.Expr
		count := int(n.NamedChildCount())
		for i := 1; i < count; i++ {
			comparators = append(comparators, b.expr(n.NamedChild(i)))
		}
		if left == nil {
			left = b.expr(n.NamedChild(0))
		}
		return &pyast.Compare{Base: pyast.Base{Pos: b.pos(n)}, Left: left, Comparators: comparators}
	case "conditional_expression":
		body := b.expr(n.NamedChild(0))
		test := b.expr(n.NamedChild(1))
		orElse := b.expr(n.NamedChild(2))
		return &pyast.IfExp{Base: pyast.Base{Pos: b.pos(n)}, Test: test, Body: body, OrElse: orElse}
	case "tuple", "expression_list", "pattern_list":
		return &pyast.Tuple{Base: pyast.Base{Pos: b.pos(n)}, Elts: b.exprList(n), Ctx: pyast.Load}
	case "list":
		return &pyast.List{Base: pyast.Base{Pos: b.pos(n)}, Elts: b.exprList(n), Ctx: pyast.Load}
	case "set":
		return &pyast.Set{Base: pyast.Base{Pos: b.pos(n)}, Elts: b.exprList(n)}
	case "dictionary":
		return b.dict(n)
	case "list_comprehension":
		return &pyast.ListComp{Base: pyast.Base{Pos: b.pos(n)}, Elt: b.expr(n.NamedChild(0)), Generators: b.comprehensionClauses(n)}
	case "set_comprehension":
		return &pyast.SetComp{Base: pyast.Base{Pos: b.pos(n)}, Elt: b.expr(n.NamedChild(0)), Generators: b.comprehensionClauses(n)}
	case "dictionary_comprehension":
		pair := n.NamedChild(0)
		var key, value pyast.Expr
		if pair != nil && pair.Type() == "pair" {
			key = b.expr(pair.ChildByFieldName("key"))
			value = b.expr(pair.ChildByFieldName("value"))
		}
		return &pyast.DictComp{Base: pyast.Base{Pos: b.pos(n)}, Key: key, Value: value, Generators: b.comprehensionClauses(n)}
	case "generator_expression":
		return &pyast.GeneratorExp{Base: pyast.Base{Pos: b.pos(n)}, Elt: b.expr(n.NamedChild(0)), Generators: b.comprehensionClauses(n)}
	case "lambda":
		return b.lambda(n)
	case "named_expression":
		return &pyast.NamedExpr{
			Base: pyast.Base{Pos: b.pos(n)},
			Target: b.exprCtx(n.ChildByFieldName("name"), pyast.Store),
			Value:  b.expr(n.ChildByFieldName("value")),
		}
	case "parenthesized_expression":
		return b.expr(n.NamedChild(0))
	default:
		return &pyast.Constant{Base: pyast.Base{Pos: b.pos(n)}, Kind: "str", Value: b.text(n)}
	}
}

func (b *builder) exprList(n *sitter.Node) []pyast.Expr {
	var out []pyast.Expr
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		out = append(out, b.expr(n.NamedChild(i)))
	}
	return out
}

func (b *builder) dict(n *sitter.Node) pyast.Expr {
	d := &pyast.Dict{Base: pyast.Base{Pos: b.pos(n)}}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child.Type() == "dictionary_splat" {
			d.Entries = append(d.Entries, pyast.DictEntry{Key: nil, Value: b.expr(child.NamedChild(0))})
			continue
		}
		if child.Type() == "pair" {
			d.Entries = append(d.Entries, pyast.DictEntry{
				Key:   b.expr(child.ChildByFieldName("key")),
				Value: b.expr(child.ChildByFieldName("value")),
			})
		}
	}
	return d
}

// stringValue strips the outermost quote characters so literal-string
// detection (e.g. rattr_results's keyword arguments, docstring bodies)
// sees the string's content rather than its source syntax.
func (b *builder) stringValue(n *sitter.Node) string {
	raw := b.text(n)
	raw = strings.TrimPrefix(raw, "r")
	raw = strings.TrimPrefix(raw, "b")
	raw = strings.TrimPrefix(raw, "f")
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return raw[len(q) : len(raw)-len(q)]
		}
	}
	return raw
}
