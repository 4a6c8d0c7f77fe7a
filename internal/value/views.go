package value

// Object, Function, Primitive, Numeric, Number and BigInt are narrow views
// over the subset of Value variants whose ECMAScript type matches the view.
// Per spec.md §3.1 they are memory-layout subsets of Value: converting into
// one is a tag check, never a copy into a different representation.

type Object Value
type Function Value
type Primitive Value
type Numeric Value
type Number Value
type BigInt Value

// ErrWrongType is returned by every narrow-view TryFrom below; it names the
// wanted view (Want) and the tag of the value actually given (Got).
type ErrWrongType struct{ Want, Got string }

func (e ErrWrongType) Error() string { return "value: expected " + e.Want + ", got " + e.Got }

func ObjectTryFrom(v Value) (Object, error) {
	if !v.IsObject() {
		return Object{}, ErrWrongType{"Object", tagName(v.tag)}
	}
	return Object(v), nil
}

func FunctionTryFrom(v Value) (Function, error) {
	if !v.IsFunction() {
		return Function{}, ErrWrongType{"Function", tagName(v.tag)}
	}
	return Function(v), nil
}

func PrimitiveTryFrom(v Value) (Primitive, error) {
	if v.IsObject() {
		return Primitive{}, ErrWrongType{"Primitive", tagName(v.tag)}
	}
	return Primitive(v), nil
}

func NumericTryFrom(v Value) (Numeric, error) {
	if !v.IsNumeric() {
		return Numeric{}, ErrWrongType{"Numeric", tagName(v.tag)}
	}
	return Numeric(v), nil
}

func NumberTryFrom(v Value) (Number, error) {
	if !v.IsNumber() {
		return Number{}, ErrWrongType{"Number", tagName(v.tag)}
	}
	return Number(v), nil
}

func BigIntTryFrom(v Value) (BigInt, error) {
	if !v.IsBigInt() {
		return BigInt{}, ErrWrongType{"BigInt", tagName(v.tag)}
	}
	return BigInt(v), nil
}

func (o Object) Value() Value     { return Value(o) }
func (f Function) Value() Value   { return Value(f) }
func (p Primitive) Value() Value  { return Value(p) }
func (n Numeric) Value() Value    { return Value(n) }
func (n Number) Value() Value     { return Value(n) }
func (b BigInt) Value() Value     { return Value(b) }
