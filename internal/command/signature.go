package command

type Category string

const (
	CategoryConversions Category = "conversions"
	CategoryDate        Category = "date"
)

// SyntaxShape is the declared shape of a positional argument.
type SyntaxShape string

const ShapeCellPath SyntaxShape = "cell-path"

type PositionalArg struct {
	Name  string
	Shape SyntaxShape
	Desc  string
}

// Signature is the declared parameter shape of a command.
type Signature struct {
	Name     string
	Category Category
	Rest     *PositionalArg
}

func Build(name string) Signature { return Signature{Name: name} }

func (s Signature) WithCategory(c Category) Signature {
	s.Category = c
	return s
}

// WithRest declares a trailing variadic positional.
func (s Signature) WithRest(name string, shape SyntaxShape, desc string) Signature {
	s.Rest = &PositionalArg{Name: name, Shape: shape, Desc: desc}
	return s
}
