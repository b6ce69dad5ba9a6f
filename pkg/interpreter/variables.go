package interpreter

// Variable is a shared mutable cell. Scopes and instances hand out the same
// *Variable to every reader, so writes through one holder are seen by all.
type Variable struct {
	value Value
}

func NewVariable(val Value) *Variable {
	if val == nil {
		val = Nil{}
	}

	return &Variable{value: val}
}

func (v *Variable) Get() Value {
	return v.value
}

func (v *Variable) Set(val Value) {
	if val == nil {
		val = Nil{}
	}

	v.value = val
}
