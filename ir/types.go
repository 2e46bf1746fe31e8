package ir

import "strings"

// DeclaredName is the fully qualified address of a declaration: its namespace
// path plus a leaf name. It is the only addressing scheme used for cross
// references.
type DeclaredName struct {
	FernFilepath []string `json:"fernFilepath"`
	Name         string   `json:"name"`
}

// Key returns a stable string form used for map lookups and error messages.
func (n DeclaredName) Key() string {
	if len(n.FernFilepath) == 0 {
		return n.Name
	}
	return strings.Join(n.FernFilepath, "/") + "/" + n.Name
}

func (n DeclaredName) String() string { return n.Key() }

// TypeReference is one of NamedType, PrimitiveType, MapType, ListType,
// SetType, OptionalType, UnknownType or VoidType.
type TypeReference interface {
	isTypeReference()
}

type NamedType struct {
	Name DeclaredName
}

// Primitive enumerates the primitive types.
type Primitive string

const (
	Boolean Primitive = "BOOLEAN"
	Integer Primitive = "INTEGER"
	Long    Primitive = "LONG"
	Double  Primitive = "DOUBLE"
	String  Primitive = "STRING"
)

type PrimitiveType struct {
	Primitive Primitive
}

type MapType struct {
	Key   TypeReference
	Value TypeReference
}

type ListType struct {
	Item TypeReference
}

type SetType struct {
	Item TypeReference
}

type OptionalType struct {
	Item TypeReference
}

type UnknownType struct{}

type VoidType struct{}

func (NamedType) isTypeReference()     {}
func (PrimitiveType) isTypeReference() {}
func (MapType) isTypeReference()       {}
func (ListType) isTypeReference()      {}
func (SetType) isTypeReference()       {}
func (OptionalType) isTypeReference()  {}
func (UnknownType) isTypeReference()   {}
func (VoidType) isTypeReference()      {}

// Named returns a reference to the declaration at path/name.
func Named(name string, path ...string) NamedType {
	return NamedType{Name: DeclaredName{FernFilepath: path, Name: name}}
}

// Prim returns a primitive reference.
func Prim(p Primitive) PrimitiveType { return PrimitiveType{Primitive: p} }

// Optional wraps item.
func Optional(item TypeReference) OptionalType { return OptionalType{Item: item} }

// List wraps item.
func List(item TypeReference) ListType { return ListType{Item: item} }

// IsVoid reports whether ref is nil or the void reference.
func IsVoid(ref TypeReference) bool {
	if ref == nil {
		return true
	}
	_, ok := ref.(VoidType)
	return ok
}

// Shape is the body of a declared type: AliasShape, ObjectShape, UnionShape
// or EnumShape.
type Shape interface {
	isShape()
}

type AliasShape struct {
	AliasOf TypeReference
}

type ObjectShape struct {
	Extends    []DeclaredName
	Properties []ObjectProperty
}

type ObjectProperty struct {
	Key       string
	ValueType TypeReference
	Docs      string
}

type UnionShape struct {
	Discriminant string
	Variants     []SingleUnionVariant
}

// SingleUnionVariant is one arm of a union. A nil Payload means the variant
// carries only its tag.
type SingleUnionVariant struct {
	DiscriminantValue string
	Payload           TypeReference
	Docs              string
}

type EnumShape struct {
	Values []EnumValue
}

type EnumValue struct {
	Value string `json:"value"`
	Docs  string `json:"docs,omitempty"`
}

func (AliasShape) isShape()  {}
func (ObjectShape) isShape() {}
func (UnionShape) isShape()  {}
func (EnumShape) isShape()   {}
