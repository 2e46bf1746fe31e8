package ir

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/teranos/tsclientgen/errors"
)

// discriminated is the envelope every sum-typed node carries on the wire.
type discriminated struct {
	Type string `json:"_type"`
}

func decodeTypeReference(raw json.RawMessage) (TypeReference, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	var head discriminated
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, errors.Wrap(err, "decoding type reference")
	}

	switch head.Type {
	case "named":
		var name DeclaredName
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil, errors.Wrap(err, "decoding named type")
		}
		return NamedType{Name: name}, nil
	case "primitive":
		var w struct {
			Primitive string `json:"primitive"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "decoding primitive type")
		}
		p := Primitive(strings.ToUpper(w.Primitive))
		switch p {
		case Boolean, Integer, Long, Double, String:
			return PrimitiveType{Primitive: p}, nil
		}
		return nil, errors.NewUnsupportedShape("primitive", w.Primitive)
	case "container":
		var w struct {
			Container json.RawMessage `json:"container"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "decoding container type")
		}
		return decodeContainer(w.Container)
	case "unknown":
		return UnknownType{}, nil
	case "void":
		return VoidType{}, nil
	}
	return nil, errors.NewUnsupportedShape("type reference", head.Type)
}

func decodeContainer(raw json.RawMessage) (TypeReference, error) {
	var w struct {
		Type      string          `json:"_type"`
		KeyType   json.RawMessage `json:"keyType"`
		ValueType json.RawMessage `json:"valueType"`
		List      json.RawMessage `json:"list"`
		Set       json.RawMessage `json:"set"`
		Optional  json.RawMessage `json:"optional"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(err, "decoding container")
	}

	switch w.Type {
	case "map":
		key, err := requireTypeReference(w.KeyType, "map key")
		if err != nil {
			return nil, err
		}
		value, err := requireTypeReference(w.ValueType, "map value")
		if err != nil {
			return nil, err
		}
		return MapType{Key: key, Value: value}, nil
	case "list":
		item, err := requireTypeReference(w.List, "list item")
		if err != nil {
			return nil, err
		}
		return ListType{Item: item}, nil
	case "set":
		item, err := requireTypeReference(w.Set, "set item")
		if err != nil {
			return nil, err
		}
		return SetType{Item: item}, nil
	case "optional":
		item, err := requireTypeReference(w.Optional, "optional item")
		if err != nil {
			return nil, err
		}
		return OptionalType{Item: item}, nil
	}
	return nil, errors.NewUnsupportedShape("container", w.Type)
}

func requireTypeReference(raw json.RawMessage, what string) (TypeReference, error) {
	ref, err := decodeTypeReference(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", what)
	}
	if ref == nil {
		return nil, errors.Newf("%s is missing", what)
	}
	return ref, nil
}

func decodeShape(raw json.RawMessage) (Shape, error) {
	if isAbsent(raw) {
		return nil, errors.New("shape is missing")
	}
	var head discriminated
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, errors.Wrap(err, "decoding shape")
	}

	switch head.Type {
	case "alias":
		var w struct {
			AliasOf json.RawMessage `json:"aliasOf"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "decoding alias")
		}
		of, err := requireTypeReference(w.AliasOf, "alias target")
		if err != nil {
			return nil, err
		}
		return AliasShape{AliasOf: of}, nil
	case "object":
		var w struct {
			Extends    []DeclaredName   `json:"extends"`
			Properties []ObjectProperty `json:"properties"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "decoding object")
		}
		return ObjectShape{Extends: w.Extends, Properties: w.Properties}, nil
	case "union":
		var w struct {
			Discriminant string               `json:"discriminant"`
			Types        []SingleUnionVariant `json:"types"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "decoding union")
		}
		return UnionShape{Discriminant: w.Discriminant, Variants: w.Types}, nil
	case "enum":
		var w struct {
			Values []EnumValue `json:"values"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, errors.Wrap(err, "decoding enum")
		}
		return EnumShape{Values: w.Values}, nil
	}
	return nil, errors.NewUnsupportedShape("shape", head.Type)
}

func isAbsent(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func (p *ObjectProperty) UnmarshalJSON(b []byte) error {
	var w struct {
		Key       string          `json:"key"`
		ValueType json.RawMessage `json:"valueType"`
		Docs      string          `json:"docs"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ref, err := requireTypeReference(w.ValueType, "property "+w.Key)
	if err != nil {
		return err
	}
	*p = ObjectProperty{Key: w.Key, ValueType: ref, Docs: w.Docs}
	return nil
}

func (v *SingleUnionVariant) UnmarshalJSON(b []byte) error {
	var w struct {
		DiscriminantValue string          `json:"discriminantValue"`
		ValueType         json.RawMessage `json:"valueType"`
		Docs              string          `json:"docs"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ref, err := decodeTypeReference(w.ValueType)
	if err != nil {
		return errors.Wrapf(err, "union variant %s", w.DiscriminantValue)
	}
	if IsVoid(ref) {
		ref = nil
	}
	*v = SingleUnionVariant{DiscriminantValue: w.DiscriminantValue, Payload: ref, Docs: w.Docs}
	return nil
}

func (d *TypeDeclaration) UnmarshalJSON(b []byte) error {
	var w struct {
		Name  DeclaredName    `json:"name"`
		Shape json.RawMessage `json:"shape"`
		Docs  string          `json:"docs"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	shape, err := decodeShape(w.Shape)
	if err != nil {
		return errors.Wrapf(err, "type %s", w.Name.Key())
	}
	*d = TypeDeclaration{Name: w.Name, Shape: shape, Docs: w.Docs}
	return nil
}

func (d *ErrorDeclaration) UnmarshalJSON(b []byte) error {
	var w struct {
		Name       DeclaredName    `json:"name"`
		Shape      json.RawMessage `json:"shape"`
		StatusCode int             `json:"statusCode"`
		Docs       string          `json:"docs"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	shape, err := decodeShape(w.Shape)
	if err != nil {
		return errors.Wrapf(err, "error %s", w.Name.Key())
	}
	*d = ErrorDeclaration{Name: w.Name, Shape: shape, HTTPStatusCode: w.StatusCode, Docs: w.Docs}
	return nil
}

func (p *Parameter) UnmarshalJSON(b []byte) error {
	var w struct {
		Key       string          `json:"key"`
		ValueType json.RawMessage `json:"valueType"`
		Docs      string          `json:"docs"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	ref, err := requireTypeReference(w.ValueType, "parameter "+w.Key)
	if err != nil {
		return err
	}
	*p = Parameter{Key: w.Key, ValueType: ref, Docs: w.Docs}
	return nil
}

func (r *RequestBody) UnmarshalJSON(b []byte) error {
	ref, docs, err := decodeBody(b)
	if err != nil {
		return errors.Wrap(err, "request body")
	}
	*r = RequestBody{Type: ref, Docs: docs}
	return nil
}

func (r *ResponseBody) UnmarshalJSON(b []byte) error {
	ref, docs, err := decodeBody(b)
	if err != nil {
		return errors.Wrap(err, "response body")
	}
	*r = ResponseBody{Type: ref, Docs: docs}
	return nil
}

func decodeBody(b []byte) (TypeReference, string, error) {
	var w struct {
		Type json.RawMessage `json:"type"`
		Docs string          `json:"docs"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, "", err
	}
	ref, err := decodeTypeReference(w.Type)
	if err != nil {
		return nil, "", err
	}
	if ref == nil {
		ref = VoidType{}
	}
	return ref, w.Docs, nil
}
