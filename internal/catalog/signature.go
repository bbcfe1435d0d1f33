package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// Inputs returns the non-return parameters in call order: ascending
// PositionInSignature, unpositioned parameters last in store order.
func (f Function) Inputs() []Parameter {
	var inputs []Parameter
	for _, p := range f.Parameters {
		if !p.IsReturnValue {
			inputs = append(inputs, p)
		}
	}
	sortBySignaturePosition(inputs)
	return inputs
}

// Returns returns the parameters documenting the function's return value.
func (f Function) Returns() []Parameter {
	var returns []Parameter
	for _, p := range f.Parameters {
		if p.IsReturnValue {
			returns = append(returns, p)
		}
	}
	sortBySignaturePosition(returns)
	return returns
}

// Signature renders a human readable call signature, e.g.
//
//	get_user(id integer, fields []string = "all") -> object
func (f Function) Signature() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Inputs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteByte(' ')
		b.WriteString(p.TypeString())
		if p.Default != nil {
			b.WriteString(" = ")
			b.WriteString(strconv.Quote(*p.Default))
		}
	}
	b.WriteByte(')')

	returns := f.Returns()
	switch len(returns) {
	case 0:
	case 1:
		b.WriteString(" -> ")
		b.WriteString(returns[0].TypeString())
	default:
		b.WriteString(" -> (")
		for i, p := range returns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			b.WriteByte(' ')
			b.WriteString(p.TypeString())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// TypeString renders the parameter type, prefixed with [] for collections.
func (p Parameter) TypeString() string {
	if p.IsMultipleValues {
		return "[]" + p.ParamType
	}
	return p.ParamType
}

func sortBySignaturePosition(params []Parameter) {
	sort.SliceStable(params, func(i, j int) bool {
		pi, pj := params[i].PositionInSignature, params[j].PositionInSignature
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
}
