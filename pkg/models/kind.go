package models

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags each document type the API persists.
type Kind string

const (
	KindProduct     Kind = "Product"
	KindDrop        Kind = "Drop"
	KindMeasurement Kind = "Measurement"
	KindQuizResult  Kind = "QuizResult"
	KindOrder       Kind = "Order"
	KindUserProfile Kind = "UserProfile"
)

// Document is a validated record of one Kind.
type Document interface {
	Kind() Kind
	// Fields returns the record as a name/value map ready for the store.
	Fields() map[string]any
}

type schema struct {
	empty func() Document
}

var registry = map[Kind]schema{
	KindProduct:     {empty: func() Document { return NewProduct() }},
	KindDrop:        {empty: func() Document { return NewDrop() }},
	KindMeasurement: {empty: func() Document { return &Measurement{} }},
	KindQuizResult:  {empty: func() Document { return NewQuizResult() }},
	KindOrder:       {empty: func() Document { return NewOrder() }},
	KindUserProfile: {empty: func() Document { return NewUserProfile() }},
}

// Kinds lists every registered kind.
func Kinds() []Kind {
	return []Kind{KindProduct, KindDrop, KindMeasurement, KindQuizResult, KindOrder, KindUserProfile}
}

// Collection is the physical collection name, the lowercase kind.
func (k Kind) Collection() string {
	return strings.ToLower(string(k))
}

// ListFields names the string-list fields of kind, which default to an
// empty list.
func ListFields(kind Kind) []string {
	s, ok := registry[kind]
	if !ok {
		return nil
	}

	var names []string
	for name, v := range s.empty().Fields() {
		if _, ok := v.([]string); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (k Kind) IsValid() bool {
	_, ok := registry[k]
	return ok
}

// Validate decodes raw into the schema registered for kind, applies the
// schema defaults and checks every field constraint. All violations are
// reported together in a *ValidationError.
func Validate(kind Kind, raw map[string]any) (Document, error) {
	s, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}

	doc := s.empty()
	typeErrs := decodeFields(raw, doc)

	verr := &ValidationError{Kind: kind, Fields: typeErrs}
	verr.add(checkStruct(doc, typeErrs)...)
	if len(verr.Fields) > 0 {
		verr.sort()
		return nil, verr
	}

	return doc, nil
}
