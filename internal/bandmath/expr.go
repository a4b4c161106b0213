package bandmath

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Op is a binary operator of a band expression.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Less
	LessEq
	Greater
	GreaterEq
	Equal
	NotEqual
	And
	Or
)

var opTokens = map[token.Token]Op{
	token.ADD:  Add,
	token.SUB:  Sub,
	token.MUL:  Mul,
	token.QUO:  Div,
	token.LSS:  Less,
	token.LEQ:  LessEq,
	token.GTR:  Greater,
	token.GEQ:  GreaterEq,
	token.EQL:  Equal,
	token.NEQ:  NotEqual,
	token.LAND: And,
	token.LOR:  Or,
}

var opSymbols = [...]string{"+", "-", "*", "/", "<", "<=", ">", ">=", "==", "!=", "&&", "||"}

func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Expr is a parsed band expression. The concrete types are Literal,
// BandRef, Neg and Binary.
type Expr interface {
	String() string
	eval(env []*value) (*value, error)
}

// Literal is a numeric constant.
type Literal float64

// BandRef is the 1-based positional band name Bn.
type BandRef int

// Neg is unary minus.
type Neg struct {
	X Expr
}

// Binary applies Op elementwise. Comparisons and logical operators yield 1
// or 0.
type Binary struct {
	Op   Op
	L, R Expr
}

func (l Literal) String() string {
	return strconv.FormatFloat(float64(l), 'g', -1, 64)
}

func (b BandRef) String() string {
	return "B" + strconv.Itoa(int(b))
}

func (n Neg) String() string {
	return "-" + n.X.String()
}

func (b Binary) String() string {
	return "(" + b.L.String() + " " + b.Op.String() + " " + b.R.String() + ")"
}

// Parse turns a formula such as "(B1-B2)/(B1+B2)" into an Expr. Only numbers,
// the names B1..Bn, parentheses, unary minus and the operators of Op are
// accepted.
func Parse(expression string) (Expr, error) {
	node, err := parser.ParseExpr(expression)
	if err != nil {
		return nil, &ExpressionError{Expression: expression, Reason: err.Error()}
	}
	e, err := translate(node)
	if err != nil {
		return nil, &ExpressionError{Expression: expression, Reason: err.Error()}
	}
	return e, nil
}

// MustParse is like Parse but panics on a malformed formula. It is meant for
// formulas fixed at compile time.
func MustParse(expression string) Expr {
	e, err := Parse(expression)
	if err != nil {
		panic(err)
	}
	return e
}

func translate(node ast.Expr) (Expr, error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return translate(n.X)
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return nil, fmt.Errorf("unsupported literal %s", n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %s", n.Value)
		}
		return Literal(v), nil
	case *ast.Ident:
		return bandRef(n.Name)
	case *ast.UnaryExpr:
		x, err := translate(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.SUB:
			return Neg{X: x}, nil
		case token.ADD:
			return x, nil
		}
		return nil, fmt.Errorf("unsupported unary operator %s", n.Op)
	case *ast.BinaryExpr:
		op, ok := opTokens[n.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %s", n.Op)
		}
		l, err := translate(n.X)
		if err != nil {
			return nil, err
		}
		r, err := translate(n.Y)
		if err != nil {
			return nil, err
		}
		return Binary{Op: op, L: l, R: r}, nil
	}
	return nil, fmt.Errorf("unsupported expression %T", node)
}

func bandRef(name string) (Expr, error) {
	if len(name) < 2 || (name[0] != 'B' && name[0] != 'b') {
		return nil, fmt.Errorf("unknown name %s", name)
	}
	digits := name[1:]
	if strings.HasPrefix(digits, "0") {
		return nil, fmt.Errorf("unknown name %s", name)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return nil, fmt.Errorf("unknown name %s", name)
	}
	return BandRef(n), nil
}

// MaxBand returns the highest band position referenced by e, or 0.
func MaxBand(e Expr) int {
	switch n := e.(type) {
	case BandRef:
		return int(n)
	case Neg:
		return MaxBand(n.X)
	case Binary:
		return max(MaxBand(n.L), MaxBand(n.R))
	}
	return 0
}
