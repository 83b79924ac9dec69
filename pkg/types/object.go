package types

import (
	"strconv"
	"strings"
)

// Key is the normalized identity of a member. Identifier, string and
// numeric names share one namespace (`1` and `"1"` are the same key).
// Computed keys that are not literals carry their source text and only
// match themselves.
type Key struct {
	Name     string
	Computed bool
}

// NameKey makes the key for an identifier or string name.
func NameKey(name string) Key { return Key{Name: name} }

// NumberKey makes the key for a numeric name.
func NumberKey(n float64) Key { return Key{Name: FormatNumber(n)} }

func (k Key) String() string {
	if k.Computed {
		return "[" + k.Name + "]"
	}
	if isIdentifierName(k.Name) {
		return k.Name
	}
	return strconv.Quote(k.Name)
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// MethodKind distinguishes methods from accessors.
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodGetter
	MethodSetter
)

// Member is an element of an object type, interface, or class.
type Member interface {
	memberNode()
	String() string
}

// Property is a named property.
type Property struct {
	Key      Key
	Type     Type
	Optional bool
	Readonly bool
	Static   bool
	Abstract bool
}

// Method is a named method or accessor. Getters carry their value type as
// the return type; setters as the single parameter.
type Method struct {
	Key      Key
	Fn       *FunctionType
	Kind     MethodKind
	Optional bool
	Static   bool
	Abstract bool
}

// CallSignature makes an object callable.
type CallSignature struct {
	Fn *FunctionType
}

// ConstructSignature makes an object constructable.
type ConstructSignature struct {
	Fn *FunctionType
}

// IndexSignature is `[key: K]: V`.
type IndexSignature struct {
	KeyType   Type
	ValueType Type
	Readonly  bool
	Static    bool
}

// Constructor is a class constructor; Fn.ReturnType is unused.
type Constructor struct {
	Fn *FunctionType
}

func (*Property) memberNode()           {}
func (*Method) memberNode()             {}
func (*CallSignature) memberNode()      {}
func (*ConstructSignature) memberNode() {}
func (*IndexSignature) memberNode()     {}
func (*Constructor) memberNode()        {}

func (p *Property) String() string {
	var b strings.Builder
	if p.Static {
		b.WriteString("static ")
	}
	if p.Readonly {
		b.WriteString("readonly ")
	}
	b.WriteString(p.Key.String())
	if p.Optional {
		b.WriteString("?")
	}
	b.WriteString(": ")
	b.WriteString(typeString(p.Type))
	return b.String()
}

func (m *Method) String() string {
	prefix := ""
	if m.Static {
		prefix = "static "
	}
	switch m.Kind {
	case MethodGetter:
		return prefix + "get " + m.Key.String() + "(): " + typeString(m.Fn.ReturnType)
	case MethodSetter:
		return prefix + "set " + m.Key.String() + m.Fn.paramList()
	}
	opt := ""
	if m.Optional {
		opt = "?"
	}
	return prefix + m.Key.String() + opt + m.Fn.signature(": ")
}

func (c *CallSignature) String() string      { return c.Fn.signature(": ") }
func (c *ConstructSignature) String() string { return "new " + c.Fn.signature(": ") }
func (c *Constructor) String() string        { return "constructor" + c.Fn.paramList() }
func (s *IndexSignature) String() string {
	prefix := ""
	if s.Readonly {
		prefix = "readonly "
	}
	return prefix + "[key: " + typeString(s.KeyType) + "]: " + typeString(s.ValueType)
}

// MemberKey returns the key of a named member.
func MemberKey(m Member) (Key, bool) {
	switch m := m.(type) {
	case *Property:
		return m.Key, true
	case *Method:
		return m.Key, true
	}
	return Key{}, false
}

// MemberType is the type observed when reading the member as a value.
func MemberType(m Member) Type {
	switch m := m.(type) {
	case *Property:
		if m.Optional {
			return NewUnionType(m.Type, Undefined)
		}
		return m.Type
	case *Method:
		switch m.Kind {
		case MethodGetter:
			return m.Fn.ReturnType
		case MethodSetter:
			if len(m.Fn.Params) > 0 {
				return m.Fn.Params[0].Type
			}
			return Any
		}
		return m.Fn
	case *IndexSignature:
		return m.ValueType
	}
	return Any
}

func equalMembers(a, b []Member) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}

func writeMembers(b *strings.Builder, members []Member) {
	if len(members) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	for i, m := range members {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(m.String())
	}
	b.WriteString(" }")
}

// --- Object (type literal) Types ---

// ObjectType is an anonymous structural type: a type literal or the type of
// an object literal.
type ObjectType struct {
	Members []Member
}

// NewObjectType creates an empty object type.
func NewObjectType() *ObjectType { return &ObjectType{} }

// WithProperty adds a property and returns the object for chaining.
func (ot *ObjectType) WithProperty(name string, t Type) *ObjectType {
	ot.Members = append(ot.Members, &Property{Key: NameKey(name), Type: t})
	return ot
}

// WithReadonlyProperty adds a readonly property.
func (ot *ObjectType) WithReadonlyProperty(name string, t Type) *ObjectType {
	ot.Members = append(ot.Members, &Property{Key: NameKey(name), Type: t, Readonly: true})
	return ot
}

// WithMethod adds a method.
func (ot *ObjectType) WithMethod(name string, fn *FunctionType) *ObjectType {
	ot.Members = append(ot.Members, &Method{Key: NameKey(name), Fn: fn})
	return ot
}

// WithCallSignature adds a call signature.
func (ot *ObjectType) WithCallSignature(fn *FunctionType) *ObjectType {
	ot.Members = append(ot.Members, &CallSignature{Fn: fn})
	return ot
}

// WithIndexSignature adds an index signature.
func (ot *ObjectType) WithIndexSignature(key, value Type) *ObjectType {
	ot.Members = append(ot.Members, &IndexSignature{KeyType: key, ValueType: value})
	return ot
}

// Set replaces the member with the same key, or appends it.
func (ot *ObjectType) Set(m Member) {
	if k, ok := MemberKey(m); ok {
		for i, existing := range ot.Members {
			if ek, ok := MemberKey(existing); ok && ek == k {
				ot.Members[i] = m
				return
			}
		}
	}
	ot.Members = append(ot.Members, m)
}

func (ot *ObjectType) String() string {
	var b strings.Builder
	writeMembers(&b, ot.Members)
	return b.String()
}
func (ot *ObjectType) typeNode() {}
func (ot *ObjectType) Equals(other Type) bool {
	o, ok := other.(*ObjectType)
	return ok && (ot == o || equalMembers(ot.Members, o.Members))
}

func typeString(t Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}
