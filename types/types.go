package types

// Type represents a value type in the surface language. The language only
// ever manipulates two primitive types; there is no user-defined type
// syntax to bind.
type Type interface {
	String() string
	isType()
}

// PrimitiveType is one of the two built-in types, Int or Bool.
type PrimitiveType struct {
	Name string
}

func (p *PrimitiveType) isType()        {}
func (p *PrimitiveType) String() string { return p.Name }

// Int and Bool are the only types a VariableSymbol may carry.
var (
	Int  = &PrimitiveType{Name: "int"}
	Bool = &PrimitiveType{Name: "bool"}
)

// Equal reports whether two types are the same primitive type.
func Equal(a, b Type) bool {
	ap, aok := a.(*PrimitiveType)
	bp, bok := b.(*PrimitiveType)

	return aok && bok && ap.Name == bp.Name
}
