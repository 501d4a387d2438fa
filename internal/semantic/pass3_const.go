package semantic

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

const (
	i32Min, i32Max = -(1 << 31), (1 << 31) - 1
	u32Max         = (int64(1) << 32) - 1
)

// constEvaluator walks const items and queued size-expressions, folding
// each into a ConstValue. Evaluation is on-demand and memoized by ConstDecl
// so that an associated const may reference another regardless of textual
// order, with cycle detection.
type constEvaluator struct {
	a          *Analyzer
	inProgress map[*ConstDecl]bool
}

func (a *Analyzer) runPass3(items []ast.Item) error {
	ce := &constEvaluator{a: a, inProgress: map[*ConstDecl]bool{}}
	if err := ce.collectItems(items); err != nil {
		return err
	}
	// Consts declared inside inner blocks are not reached by collectItems;
	// evaluate every ConstDecl pass 1 installed, in its declaring scope.
	for _, s := range allScopes(a.Tables.RootScope) {
		for _, ref := range s.ValueNamespace {
			if ref.Const != nil {
				if err := ce.evalDecl(ref.Const, s); err != nil {
					return err
				}
			}
		}
	}
	for _, w := range a.sizeWork {
		scope := a.Tables.NodeScope[w.expr.ID()]
		cv, err := ce.eval(w.expr, scope)
		if err != nil {
			return err
		}
		size, err := asArraySize(cv)
		if err != nil {
			return err
		}
		w.arr.Size = size
		w.arr.SizeKnown = true
		a.Tables.ConstExprToSize[w.expr.ID()] = uint64(size)
	}

	cf := &controlFlow{a: a}
	for _, it := range items {
		cf.item(it)
	}
	return cf.err
}

func asArraySize(cv ConstValue) (int, error) {
	switch cv.Kind {
	case CKUsize:
		return int(cv.UInt), nil
	case CKAnyInt, CKI32, CKIsize:
		if cv.Int < 0 || cv.Int > u32Max {
			return 0, compilererr.NewCompileError("array size out of range: %d", cv.Int)
		}
		return int(cv.Int), nil
	case CKU32:
		return int(cv.UInt), nil
	}
	return 0, compilererr.NewCompileError("array size expression is not an integer constant")
}

// collectItems recursively finds ConstItems at item level, inside impl
// blocks, and in item statements directly in a function body, and
// evaluates each eagerly. Consts in inner blocks are left to runPass3's
// sweep over every scope.
func (ce *constEvaluator) collectItems(items []ast.Item) error {
	for _, it := range items {
		switch n := it.(type) {
		case *ast.ConstItem:
			if err := ce.evalConstItem(n); err != nil {
				return err
			}
		case *ast.ImplItem:
			for _, c := range n.Consts {
				if err := ce.evalConstItem(c); err != nil {
					return err
				}
			}
			for _, fn := range n.Fns {
				if err := ce.collectInBlock(fn.Body); err != nil {
					return err
				}
			}
		case *ast.FnItem:
			if err := ce.collectInBlock(n.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ce *constEvaluator) collectInBlock(b *ast.BlockExpr) error {
	for _, s := range b.Stmts {
		if is, ok := s.(*ast.ItemStmt); ok {
			if err := ce.collectItems([]ast.Item{is.Item}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ce *constEvaluator) evalConstItem(n *ast.ConstItem) error {
	scope := ce.a.Tables.NodeScope[n.ID()]
	ref, ok := scope.ValueNamespace[n.Name]
	if !ok || ref.Const == nil {
		return compilererr.NewInternalError("const item %q missing its declaration", n.Name)
	}
	return ce.evalDecl(ref.Const, scope)
}

func (ce *constEvaluator) evalDecl(decl *ConstDecl, scope *Scope) error {
	if _, done := ce.a.Tables.ConstValueMap[decl]; done {
		return nil
	}
	if ce.inProgress[decl] {
		return compilererr.NewCompileError("cycle while evaluating const %q", decl.AST.Name)
	}
	ce.inProgress[decl] = true
	defer delete(ce.inProgress, decl)

	cv, err := ce.eval(decl.AST.Value, scope)
	if err != nil {
		return err
	}
	ce.a.Tables.ConstValueMap[decl] = cv
	return nil
}

// eval folds expr to a ConstValue, failing if it is not constant-foldable.
func (ce *constEvaluator) eval(expr ast.Expr, scope *Scope) (ConstValue, error) {
	switch n := expr.(type) {
	case *ast.LiteralExpr:
		return ce.evalLiteral(n)
	case *ast.UnaryExpr:
		return ce.evalUnary(n, scope)
	case *ast.BinaryExpr:
		return ce.evalBinary(n, scope)
	case *ast.CastExpr:
		return ce.evalCast(n, scope)
	case *ast.IdentifierExpr:
		return ce.evalIdentifier(n, scope)
	case *ast.PathExpr:
		return ce.evalPath(n, scope)
	case *ast.ArrayExpr:
		return ce.evalArray(n, scope)
	case *ast.RepeatArrayExpr:
		return ce.evalRepeatArray(n, scope)
	}
	return ConstValue{}, compilererr.NewCompileError("expression is not constant-foldable")
}

func (ce *constEvaluator) evalLiteral(n *ast.LiteralExpr) (ConstValue, error) {
	switch n.Kind {
	case ast.LitBool:
		return ConstValue{Kind: CKBool, Bool: n.Text == "true"}, nil
	case ast.LitChar:
		r := []rune(n.Text)
		if len(r) == 0 {
			return ConstValue{}, compilererr.NewCompileError("empty char literal")
		}
		return ConstValue{Kind: CKChar, Char: r[0]}, nil
	case ast.LitNumber:
		val, err := parseIntLiteral(n.Text)
		if err != nil {
			return ConstValue{}, err
		}
		return concretizeIntLiteral(val, n.Suffix)
	}
	return ConstValue{}, compilererr.NewCompileError("literal is not constant-foldable")
}

func concretizeIntLiteral(val int64, suffix ast.IntLitSuffix) (ConstValue, error) {
	switch suffix {
	case ast.IntSuffixI32:
		if val < i32Min || val > i32Max {
			return ConstValue{}, compilererr.NewCompileError("literal %d out of range for i32", val)
		}
		return ConstValue{Kind: CKI32, Int: val}, nil
	case ast.IntSuffixIsize:
		if val < i32Min || val > i32Max {
			return ConstValue{}, compilererr.NewCompileError("literal %d out of range for isize", val)
		}
		return ConstValue{Kind: CKIsize, Int: val}, nil
	case ast.IntSuffixU32:
		if val < 0 || val > u32Max {
			return ConstValue{}, compilererr.NewCompileError("literal %d out of range for u32", val)
		}
		return ConstValue{Kind: CKU32, UInt: uint64(val)}, nil
	case ast.IntSuffixUsize:
		if val < 0 || val > u32Max {
			return ConstValue{}, compilererr.NewCompileError("literal %d out of range for usize", val)
		}
		return ConstValue{Kind: CKUsize, UInt: uint64(val)}, nil
	default:
		return ConstValue{Kind: CKAnyInt, Int: val}, nil
	}
}

func parseIntLiteral(text string) (int64, error) {
	var val int64
	if len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		for _, r := range text[2:] {
			if r == '_' {
				continue
			}
			d := hexDigitValue(r)
			val = val*16 + int64(d)
		}
		return val, nil
	}
	for _, r := range text {
		if r == '_' {
			continue
		}
		if r < '0' || r > '9' {
			return 0, compilererr.NewCompileError("malformed integer literal %q", text)
		}
		val = val*10 + int64(r-'0')
	}
	return val, nil
}

func hexDigitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return 0
}

func (ce *constEvaluator) evalUnary(n *ast.UnaryExpr, scope *Scope) (ConstValue, error) {
	operand, err := ce.eval(n.Operand, scope)
	if err != nil {
		return ConstValue{}, err
	}
	switch n.Op {
	case ast.UNeg:
		if !operand.Kind.isNumeric() {
			return ConstValue{}, compilererr.NewCompileError("unary - requires a numeric constant")
		}
		return negConst(operand)
	case ast.UNot:
		switch operand.Kind {
		case CKBool:
			return ConstValue{Kind: CKBool, Bool: !operand.Bool}, nil
		default:
			if !operand.Kind.isNumeric() {
				return ConstValue{}, compilererr.NewCompileError("unary ! requires a numeric or bool constant")
			}
			return bitwiseComplement(operand), nil
		}
	}
	return ConstValue{}, compilererr.NewCompileError("operator is not constant-foldable")
}

func (k ConstKind) isNumeric() bool {
	switch k {
	case CKAnyInt, CKI32, CKU32, CKIsize, CKUsize:
		return true
	}
	return false
}

func negConst(v ConstValue) (ConstValue, error) {
	switch v.Kind {
	case CKU32, CKUsize:
		return ConstValue{}, compilererr.NewCompileError("cannot negate an unsigned constant")
	default:
		return ConstValue{Kind: v.Kind, Int: -v.Int}, nil
	}
}

func bitwiseComplement(v ConstValue) ConstValue {
	switch v.Kind {
	case CKU32:
		return ConstValue{Kind: v.Kind, UInt: uint64(^uint32(v.UInt))}
	case CKUsize:
		return ConstValue{Kind: v.Kind, UInt: uint64(^uint32(v.UInt))}
	default:
		return ConstValue{Kind: v.Kind, Int: int64(^int32(v.Int))}
	}
}

func (ce *constEvaluator) evalBinary(n *ast.BinaryExpr, scope *Scope) (ConstValue, error) {
	if n.Op.IsAssignment() {
		return ConstValue{}, compilererr.NewCompileError("assignment is not constant-foldable")
	}
	l, err := ce.eval(n.Left, scope)
	if err != nil {
		return ConstValue{}, err
	}
	r, err := ce.eval(n.Right, scope)
	if err != nil {
		return ConstValue{}, err
	}
	return applyBinaryConst(n.Op, l, r)
}

// unifyConstKind resolves the kind two numeric constants settle into, per
// spec §4.1.6's merge rule specialized to constants: AnyInt adopts the
// other side's concrete kind; two concretes must already match.
func unifyConstKind(l, r ConstValue) (ConstKind, error) {
	switch {
	case l.Kind == CKAnyInt && r.Kind == CKAnyInt:
		return CKAnyInt, nil
	case l.Kind == CKAnyInt:
		return r.Kind, nil
	case r.Kind == CKAnyInt:
		return l.Kind, nil
	case l.Kind == r.Kind:
		return l.Kind, nil
	default:
		return 0, compilererr.NewCompileError("constant type mismatch")
	}
}

func widenTo(v ConstValue, kind ConstKind) ConstValue {
	if v.Kind == kind {
		return v
	}
	switch kind {
	case CKU32, CKUsize:
		return ConstValue{Kind: kind, UInt: uint64(v.Int)}
	default:
		if v.Kind == CKU32 || v.Kind == CKUsize {
			return ConstValue{Kind: kind, Int: int64(v.UInt)}
		}
		return ConstValue{Kind: kind, Int: v.Int}
	}
}

func applyBinaryConst(op ast.BinaryOp, l, r ConstValue) (ConstValue, error) {
	switch op {
	case ast.BEq, ast.BNe, ast.BLt, ast.BLe, ast.BGt, ast.BGe:
		return compareConst(op, l, r)
	case ast.BAndAnd, ast.BOrOr:
		if l.Kind != CKBool || r.Kind != CKBool {
			return ConstValue{}, compilererr.NewCompileError("&& and || require bool constants")
		}
		if op == ast.BAndAnd {
			return ConstValue{Kind: CKBool, Bool: l.Bool && r.Bool}, nil
		}
		return ConstValue{Kind: CKBool, Bool: l.Bool || r.Bool}, nil
	}
	if !l.Kind.isNumeric() || !r.Kind.isNumeric() {
		if op == ast.BAnd || op == ast.BOr || op == ast.BXor {
			return ConstValue{}, compilererr.NewCompileError("bitwise operator rejected on bool constants")
		}
		return ConstValue{}, compilererr.NewCompileError("arithmetic operator requires numeric constants")
	}
	kind, err := unifyConstKind(l, r)
	if err != nil {
		return ConstValue{}, err
	}
	lw, rw := widenTo(l, kind), widenTo(r, kind)
	return arithConst(op, kind, lw, rw)
}

func compareConst(op ast.BinaryOp, l, r ConstValue) (ConstValue, error) {
	var cmp int
	switch {
	case l.Kind.isNumeric() && r.Kind.isNumeric():
		kind, err := unifyConstKind(l, r)
		if err != nil {
			return ConstValue{}, err
		}
		lw, rw := widenTo(l, kind), widenTo(r, kind)
		a, b := asI128(lw), asI128(rw)
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	case l.Kind == CKBool && r.Kind == CKBool:
		switch {
		case !l.Bool && r.Bool:
			cmp = -1
		case l.Bool && !r.Bool:
			cmp = 1
		}
	case l.Kind == CKChar && r.Kind == CKChar:
		switch {
		case l.Char < r.Char:
			cmp = -1
		case l.Char > r.Char:
			cmp = 1
		}
	default:
		return ConstValue{}, compilererr.NewCompileError("constant comparison requires matching operand kinds")
	}
	var result bool
	switch op {
	case ast.BEq:
		result = cmp == 0
	case ast.BNe:
		result = cmp != 0
	case ast.BLt:
		result = cmp < 0
	case ast.BLe:
		result = cmp <= 0
	case ast.BGt:
		result = cmp > 0
	case ast.BGe:
		result = cmp >= 0
	}
	return ConstValue{Kind: CKBool, Bool: result}, nil
}

func asI128(v ConstValue) int64 {
	if v.Kind == CKU32 || v.Kind == CKUsize {
		return int64(v.UInt)
	}
	return v.Int
}

func arithConst(op ast.BinaryOp, kind ConstKind, l, r ConstValue) (ConstValue, error) {
	unsigned := kind == CKU32 || kind == CKUsize
	if unsigned {
		a, b := uint32(l.UInt), uint32(r.UInt)
		var res uint32
		switch op {
		case ast.BAdd:
			res = a + b
		case ast.BSub:
			res = a - b
		case ast.BMul:
			res = a * b
		case ast.BDiv:
			if b == 0 {
				return ConstValue{}, compilererr.NewCompileError("division by zero")
			}
			res = a / b
		case ast.BRem:
			if b == 0 {
				return ConstValue{}, compilererr.NewCompileError("modulus by zero")
			}
			res = a % b
		case ast.BAnd:
			res = a & b
		case ast.BOr:
			res = a | b
		case ast.BXor:
			res = a ^ b
		case ast.BShl:
			res = a << (b & 31)
		case ast.BShr:
			res = a >> (b & 31)
		default:
			return ConstValue{}, compilererr.NewCompileError("operator is not constant-foldable")
		}
		return ConstValue{Kind: kind, UInt: uint64(res)}, nil
	}

	var a, b int64 = l.Int, r.Int
	var res int64
	switch op {
	case ast.BAdd:
		res = a + b
	case ast.BSub:
		res = a - b
	case ast.BMul:
		res = a * b
	case ast.BDiv:
		if b == 0 {
			return ConstValue{}, compilererr.NewCompileError("division by zero")
		}
		res = a / b
	case ast.BRem:
		if b == 0 {
			return ConstValue{}, compilererr.NewCompileError("modulus by zero")
		}
		res = a % b
	case ast.BAnd:
		res = a & b
	case ast.BOr:
		res = a | b
	case ast.BXor:
		res = a ^ b
	case ast.BShl:
		res = a << uint(b&31)
	case ast.BShr:
		res = a >> uint(b&31)
	default:
		return ConstValue{}, compilererr.NewCompileError("operator is not constant-foldable")
	}
	if kind == CKI32 || kind == CKIsize {
		res = int64(int32(res))
	}
	return ConstValue{Kind: kind, Int: res}, nil
}

func (ce *constEvaluator) evalCast(n *ast.CastExpr, scope *Scope) (ConstValue, error) {
	operand, err := ce.eval(n.Operand, scope)
	if err != nil {
		return ConstValue{}, err
	}
	if !operand.Kind.isNumeric() {
		return ConstValue{}, compilererr.NewCompileError("constant cast only supports integer-ish operands")
	}
	pathType, ok := n.Target.(*ast.PathType)
	if !ok {
		return ConstValue{}, compilererr.NewCompileError("constant cast target must be a scalar type")
	}
	switch pathType.Name {
	case "i32":
		return ConstValue{Kind: CKI32, Int: int64(int32(asI128(operand)))}, nil
	case "u32":
		return ConstValue{Kind: CKU32, UInt: uint64(uint32(asI128(operand)))}, nil
	case "isize":
		return ConstValue{Kind: CKIsize, Int: int64(int32(asI128(operand)))}, nil
	case "usize":
		return ConstValue{Kind: CKUsize, UInt: uint64(uint32(asI128(operand)))}, nil
	}
	return ConstValue{}, compilererr.NewCompileError("constant cast to %q is not integer-ish", pathType.Name)
}

func (ce *constEvaluator) evalIdentifier(n *ast.IdentifierExpr, scope *Scope) (ConstValue, error) {
	ref := LookupValue(scope, n.Name)
	if ref == nil || ref.Const == nil {
		return ConstValue{}, compilererr.NewCompileError("%q does not name a constant", n.Name)
	}
	if err := ce.evalDecl(ref.Const, scope); err != nil {
		return ConstValue{}, err
	}
	return ce.a.Tables.ConstValueMap[ref.Const], nil
}

func (ce *constEvaluator) evalPath(n *ast.PathExpr, scope *Scope) (ConstValue, error) {
	typeRef := LookupType(scope, n.BaseName)
	if typeRef == nil {
		return ConstValue{}, compilererr.NewCompileError("unknown type %q in path expression", n.BaseName)
	}
	if typeRef.Struct != nil {
		constDecl, ok := typeRef.Struct.AssocConsts[n.Name]
		if !ok {
			return ConstValue{}, compilererr.NewCompileError("%s has no associated const %q", n.BaseName, n.Name)
		}
		structScope := declScope(ce.a, typeRef.Struct)
		if err := ce.evalDecl(constDecl, structScope); err != nil {
			return ConstValue{}, err
		}
		return ce.a.Tables.ConstValueMap[constDecl], nil
	}
	if typeRef.Enum != nil {
		val, ok := typeRef.Enum.VariantValue[n.Name]
		if !ok {
			return ConstValue{}, compilererr.NewCompileError("%s has no variant %q", n.BaseName, n.Name)
		}
		return ConstValue{Kind: CKI32, Int: int64(val)}, nil
	}
	return ConstValue{}, compilererr.NewInternalError("path expr base resolved to neither struct nor enum")
}

// declScope returns the first Impl scope (in scope-tree DFS order) whose
// struct name matches structDecl, or the root scope if there is none.
// Associated consts are evaluated in their impl scope so that nested
// identifier references resolve struct-relative names.
func declScope(a *Analyzer, structDecl *StructDecl) *Scope {
	for _, s := range allScopes(a.Tables.RootScope) {
		if s.Kind == ScopeImpl && s.ImplStructName == structDecl.Name {
			return s
		}
	}
	return a.Tables.RootScope
}

func allScopes(root *Scope) []*Scope {
	out := []*Scope{root}
	for _, c := range root.Children {
		out = append(out, allScopes(c)...)
	}
	return out
}

func (ce *constEvaluator) evalArray(n *ast.ArrayExpr, scope *Scope) (ConstValue, error) {
	elems := make([]ConstValue, 0, len(n.Elements))
	for _, el := range n.Elements {
		cv, err := ce.eval(el, scope)
		if err != nil {
			return ConstValue{}, err
		}
		elems = append(elems, cv)
	}
	return ConstValue{Kind: CKArray, Elements: elems}, nil
}

func (ce *constEvaluator) evalRepeatArray(n *ast.RepeatArrayExpr, scope *Scope) (ConstValue, error) {
	value, err := ce.eval(n.Value, scope)
	if err != nil {
		return ConstValue{}, err
	}
	sizeCV, err := ce.eval(n.Size, scope)
	if err != nil {
		return ConstValue{}, err
	}
	size, err := asArraySize(sizeCV)
	if err != nil {
		return ConstValue{}, err
	}
	elems := make([]ConstValue, size)
	for i := range elems {
		elems[i] = value
	}
	return ConstValue{Kind: CKArray, Elements: elems}, nil
}
