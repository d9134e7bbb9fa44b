package program

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/signai/internal/lang"
)

// Document is the YAML form of a program. It mirrors the abstract syntax
// one to one; there is no surface syntax.
type Document struct {
	Name   string           `yaml:"name"`
	Vars   []string         `yaml:"vars"`
	Init   map[string]int64 `yaml:"init,omitempty"`
	Inputs []int64          `yaml:"inputs,omitempty"`
	Body   Node             `yaml:"body"`
}

// Node is one command. Exactly one field must be set. The scalar "skip" is
// accepted as a shorthand for a skip node.
type Node struct {
	Skip   *struct{}   `yaml:"skip,omitempty"`
	Seq    []Node      `yaml:"seq,omitempty"`
	Assign *AssignNode `yaml:"assign,omitempty"`
	Input  string      `yaml:"input,omitempty"`
	If     *IfNode     `yaml:"if,omitempty"`
	While  *WhileNode  `yaml:"while,omitempty"`
}

type AssignNode struct {
	Var  string   `yaml:"var"`
	Expr ExprNode `yaml:"expr"`
}

type IfNode struct {
	Cond CondNode `yaml:"cond"`
	Then Node     `yaml:"then"`
	Else *Node    `yaml:"else,omitempty"`
}

type WhileNode struct {
	Cond CondNode `yaml:"cond"`
	Body Node     `yaml:"body"`
}

// ExprNode is either a literal, a variable or a binary operation.
type ExprNode struct {
	Const *int64    `yaml:"const,omitempty"`
	Var   string    `yaml:"var,omitempty"`
	Op    string    `yaml:"op,omitempty"`
	Left  *ExprNode `yaml:"left,omitempty"`
	Right *ExprNode `yaml:"right,omitempty"`
}

type CondNode struct {
	Var   string `yaml:"var"`
	Rel   string `yaml:"rel"`
	Const int64  `yaml:"const"`
}

func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Value == "skip" {
		*n = Node{Skip: &struct{}{}}
		return nil
	}
	type plain Node
	return value.Decode((*plain)(n))
}

var binOps = map[string]lang.BinOp{
	"add": lang.OpAdd,
	"sub": lang.OpSub,
	"mul": lang.OpMul,
}

var rels = map[string]lang.Rel{
	"le": lang.RelLessEq,
	"gt": lang.RelGreater,
}

// Load reads and decodes a program document.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = path
	}
	return p, nil
}

// Parse decodes a program document.
func Parse(data []byte) (*Program, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Program()
}

type decoder struct {
	b    *lang.Builder
	vars map[string]lang.Var
}

// Program converts the document into a program with freshly labelled
// commands.
func (d Document) Program() (*Program, error) {
	dc := &decoder{b: lang.NewBuilder(), vars: map[string]lang.Var{}}
	for _, name := range d.Vars {
		if name == "" {
			return nil, errors.New("vars: empty variable name")
		}
		if _, dup := dc.vars[name]; dup {
			return nil, fmt.Errorf("vars: duplicate variable %q", name)
		}
		dc.vars[name] = dc.b.NamedVar(name)
	}

	body, err := dc.command("body", d.Body)
	if err != nil {
		return nil, err
	}
	p := New(d.Name, dc.b, body)

	for name, val := range d.Init {
		v, err := dc.lookup("init", name)
		if err != nil {
			return nil, err
		}
		p.Initial[v] = lang.Const(val)
	}
	for _, in := range d.Inputs {
		p.Inputs = append(p.Inputs, lang.Const(in))
	}
	return p, nil
}

func (dc *decoder) lookup(path, name string) (lang.Var, error) {
	v, ok := dc.vars[name]
	if !ok {
		return 0, fmt.Errorf("%s: undeclared variable %q", path, name)
	}
	return v, nil
}

func (dc *decoder) command(path string, n Node) (lang.Command, error) {
	set := 0
	for _, present := range []bool{n.Skip != nil, n.Seq != nil, n.Assign != nil, n.Input != "", n.If != nil, n.While != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: expected exactly one of skip, seq, assign, input, if, while (got %d)", path, set)
	}

	switch {
	case n.Skip != nil:
		return dc.b.Skip(), nil

	case n.Seq != nil:
		cmds := make([]lang.Command, 0, len(n.Seq))
		for i, child := range n.Seq {
			c, err := dc.command(fmt.Sprintf("%s.seq[%d]", path, i), child)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, c)
		}
		return dc.b.Seq(cmds...), nil

	case n.Assign != nil:
		v, err := dc.lookup(path+".assign.var", n.Assign.Var)
		if err != nil {
			return nil, err
		}
		e, err := dc.expr(path+".assign.expr", n.Assign.Expr)
		if err != nil {
			return nil, err
		}
		return dc.b.Assign(v, e), nil

	case n.Input != "":
		v, err := dc.lookup(path+".input", n.Input)
		if err != nil {
			return nil, err
		}
		return dc.b.Input(v), nil

	case n.If != nil:
		cond, err := dc.cond(path+".if.cond", n.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := dc.command(path+".if.then", n.If.Then)
		if err != nil {
			return nil, err
		}
		if n.If.Else == nil {
			return dc.b.If(cond, then), nil
		}
		els, err := dc.command(path+".if.else", *n.If.Else)
		if err != nil {
			return nil, err
		}
		return dc.b.IfElse(cond, then, els), nil

	default:
		cond, err := dc.cond(path+".while.cond", n.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := dc.command(path+".while.body", n.While.Body)
		if err != nil {
			return nil, err
		}
		return dc.b.While(cond, body), nil
	}
}

func (dc *decoder) expr(path string, e ExprNode) (lang.Expr, error) {
	switch {
	case e.Const != nil && e.Var == "" && e.Op == "":
		return lang.C(*e.Const), nil
	case e.Var != "" && e.Const == nil && e.Op == "":
		v, err := dc.lookup(path, e.Var)
		if err != nil {
			return nil, err
		}
		return lang.V(v), nil
	case e.Op != "" && e.Const == nil && e.Var == "":
		op, ok := binOps[e.Op]
		if !ok {
			return nil, fmt.Errorf("%s: unknown operator %q", path, e.Op)
		}
		if e.Left == nil || e.Right == nil {
			return nil, fmt.Errorf("%s: operator %q needs left and right", path, e.Op)
		}
		left, err := dc.expr(path+".left", *e.Left)
		if err != nil {
			return nil, err
		}
		right, err := dc.expr(path+".right", *e.Right)
		if err != nil {
			return nil, err
		}
		return lang.Binary(op, left, right), nil
	default:
		return nil, fmt.Errorf("%s: expected exactly one of const, var, op", path)
	}
}

func (dc *decoder) cond(path string, c CondNode) (lang.Cond, error) {
	v, err := dc.lookup(path, c.Var)
	if err != nil {
		return lang.Cond{}, err
	}
	rel, ok := rels[c.Rel]
	if !ok {
		return lang.Cond{}, fmt.Errorf("%s: unknown relation %q", path, c.Rel)
	}
	return lang.Cond{Rel: rel, Left: v, Right: lang.Const(c.Const)}, nil
}

// Marshal encodes p as a YAML document.
func Marshal(p *Program) ([]byte, error) {
	doc := Document{Name: p.Name}
	for _, v := range p.Vars {
		doc.Vars = append(doc.Vars, p.VarName(v))
	}
	if len(p.Initial) > 0 {
		doc.Init = make(map[string]int64, len(p.Initial))
		for v, val := range p.Initial {
			doc.Init[p.VarName(v)] = int64(val)
		}
	}
	for _, in := range p.Inputs {
		doc.Inputs = append(doc.Inputs, int64(in))
	}
	doc.Body = encodeCommand(p, p.Body)
	return yaml.Marshal(doc)
}

func encodeCommand(p *Program, cmd lang.Command) Node {
	switch c := cmd.(type) {
	case lang.SkipCmd:
		return Node{Skip: &struct{}{}}
	case lang.SeqCmd:
		// flatten right-nested sequences
		var seq []Node
		var cur lang.Command = c
		for {
			s, ok := cur.(lang.SeqCmd)
			if !ok {
				break
			}
			seq = append(seq, encodeCommand(p, s.First))
			cur = s.Second
		}
		return Node{Seq: append(seq, encodeCommand(p, cur))}
	case lang.AssignCmd:
		return Node{Assign: &AssignNode{Var: p.VarName(c.Var), Expr: encodeExpr(p, c.Expr)}}
	case lang.InputCmd:
		return Node{Input: p.VarName(c.Var)}
	case lang.IfCmd:
		n := &IfNode{Cond: encodeCond(p, c.Cond), Then: encodeCommand(p, c.Then)}
		if c.Else != nil {
			els := encodeCommand(p, c.Else)
			n.Else = &els
		}
		return Node{If: n}
	case lang.WhileCmd:
		return Node{While: &WhileNode{Cond: encodeCond(p, c.Cond), Body: encodeCommand(p, c.Body)}}
	default:
		panic(fmt.Sprintf("program: unexpected command %T", cmd))
	}
}

func encodeExpr(p *Program, e lang.Expr) ExprNode {
	switch x := e.(type) {
	case lang.ConstExpr:
		n := int64(x.Val)
		return ExprNode{Const: &n}
	case lang.VarExpr:
		return ExprNode{Var: p.VarName(x.Var)}
	case lang.BinaryExpr:
		left, right := encodeExpr(p, x.Left), encodeExpr(p, x.Right)
		return ExprNode{Op: opName(x.Op), Left: &left, Right: &right}
	default:
		panic(fmt.Sprintf("program: unexpected expression %T", e))
	}
}

func encodeCond(p *Program, c lang.Cond) CondNode {
	return CondNode{Var: p.VarName(c.Left), Rel: relName(c.Rel), Const: int64(c.Right)}
}

func opName(op lang.BinOp) string {
	switch op {
	case lang.OpAdd:
		return "add"
	case lang.OpSub:
		return "sub"
	default:
		return "mul"
	}
}

func relName(r lang.Rel) string {
	if r == lang.RelLessEq {
		return "le"
	}
	return "gt"
}
