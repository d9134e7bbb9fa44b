// Package program loads and stores programs as YAML documents and provides
// the built-in scenario programs.
package program

import (
	"fmt"
	"sort"

	"github.com/gnolang/signai/internal/concrete"
	"github.com/gnolang/signai/internal/lang"
)

// Program is a command together with the variables it declares and the
// concrete context it should be run in.
type Program struct {
	Name    string
	Body    lang.Command
	Vars    []lang.Var
	Initial map[lang.Var]lang.Const
	Inputs  []lang.Const

	names []string
}

// New creates a program over the variables allocated by b.
func New(name string, b *lang.Builder, body lang.Command) *Program {
	p := &Program{
		Name:    name,
		Body:    body,
		Initial: map[lang.Var]lang.Const{},
	}
	for i := 0; i < b.NumVars(); i++ {
		v := lang.Var(i)
		p.Vars = append(p.Vars, v)
		p.names = append(p.names, b.Name(v))
	}
	return p
}

// VarName returns the declared name of v.
func (p *Program) VarName(v lang.Var) string {
	if int(v) >= 0 && int(v) < len(p.names) {
		return p.names[v]
	}
	return v.String()
}

// Lookup returns the variable declared as name.
func (p *Program) Lookup(name string) (lang.Var, bool) {
	for i, n := range p.names {
		if n == name {
			return lang.Var(i), true
		}
	}
	return 0, false
}

// Memory returns a memory of the given capacity holding the initial values.
func (p *Program) Memory(capacity int) (concrete.Memory, error) {
	if len(p.Vars) > capacity {
		return concrete.Memory{}, fmt.Errorf("program %q declares %d variables, capacity is %d", p.Name, len(p.Vars), capacity)
	}
	m := concrete.NewMemoryWithCapacity(capacity)
	vars := make([]lang.Var, 0, len(p.Initial))
	for v := range p.Initial {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	for _, v := range vars {
		m = m.Write(v, p.Initial[v])
	}
	return m, nil
}

// FromCommand wraps a bare command, declaring v0 up to the highest variable
// it mentions. Non-zero slots of initial become the initial values.
func FromCommand(name string, cmd lang.Command, initial concrete.Memory) *Program {
	p := &Program{Name: name, Body: cmd, Initial: map[lang.Var]lang.Const{}}
	for v := lang.Var(0); v <= lang.MaxVar(cmd); v++ {
		p.Vars = append(p.Vars, v)
		p.names = append(p.names, v.String())
		if int(v) < initial.Capacity() {
			if val := initial.Read(v); val != 0 {
				p.Initial[v] = val
			}
		}
	}
	return p
}
