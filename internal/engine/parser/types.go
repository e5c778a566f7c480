package parser

import (
	"eosindex/internal/shared/util"
)

// SourceFile is one loaded header: its base name and its physical lines
// without line terminators.
type SourceFile struct {
	Name  string
	Lines []string
}

type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type Define struct {
	Comment    string  `json:"comment" yaml:"comment"`
	Expression string  `json:"expression" yaml:"expression"`
	Name       string  `json:"name" yaml:"name"`
	Parameters *string `json:"parameters" yaml:"parameters"`
	Source     string  `json:"source" yaml:"source"`
}

type Function struct {
	Comment    string  `json:"comment" yaml:"comment"`
	Name       string  `json:"methodname_flat" yaml:"methodname_flat"`
	Params     []Param `json:"params" yaml:"params"`
	ReturnType string  `json:"returntype" yaml:"returntype"`
	Source     string  `json:"source" yaml:"source"`
}

type Callback struct {
	Name       string  `json:"callbackname" yaml:"callbackname"`
	Comment    string  `json:"comment" yaml:"comment"`
	Params     []Param `json:"params" yaml:"params"`
	ReturnType string  `json:"returntype" yaml:"returntype"`
	Source     string  `json:"source" yaml:"source"`
}

type FieldKind int

const (
	FieldScalar FieldKind = iota
	FieldUnion
)

// Field is one struct member in declaration order. A union field carries the
// raw union text in Type and its members in UnionItems.
type Field struct {
	Kind             FieldKind
	Comment          string
	Name             string
	Type             string
	ArraySuffix      string
	RecommendedValue string
	UnionItems       []Field
}

type scalarField struct {
	Comment          string `json:"comment" yaml:"comment"`
	Name             string `json:"name" yaml:"name"`
	RecommendedValue string `json:"recommended_value,omitempty" yaml:"recommended_value,omitempty"`
	Type             string `json:"type" yaml:"type"`
}

type unionField struct {
	Comment    string  `json:"comment" yaml:"comment"`
	Name       string  `json:"name" yaml:"name"`
	Type       string  `json:"type" yaml:"type"`
	UnionItems []Field `json:"unionitems" yaml:"unionitems"`
}

func (f Field) wire() interface{} {
	if f.Kind == FieldUnion {
		items := f.UnionItems
		if items == nil {
			items = []Field{}
		}
		return unionField{Comment: f.Comment, Name: f.Name, Type: f.Type, UnionItems: items}
	}
	return scalarField{Comment: f.Comment, Name: f.Name, RecommendedValue: f.RecommendedValue, Type: f.Type}
}

func (f Field) MarshalJSON() ([]byte, error) {
	return util.MarshalJSON(f.wire())
}

func (f Field) MarshalYAML() (interface{}, error) {
	return f.wire(), nil
}

type Struct struct {
	Comment string  `json:"comment" yaml:"comment"`
	Fields  []Field `json:"fields" yaml:"fields"`
	Source  string  `json:"source" yaml:"source"`
	Name    string  `json:"struct" yaml:"struct"`
}

type EnumValue struct {
	Comment string `json:"comment" yaml:"comment"`
	Name    string `json:"name" yaml:"name"`
	Value   string `json:"value" yaml:"value"`
}

type Enum struct {
	Comment string      `json:"comment" yaml:"comment"`
	Name    string      `json:"enumname" yaml:"enumname"`
	Source  string      `json:"source" yaml:"source"`
	Values  []EnumValue `json:"values" yaml:"values"`
}

type Typedef struct {
	Comment string `json:"comment" yaml:"comment"`
	Extern  bool   `json:"extern" yaml:"extern"`
	Name    string `json:"name" yaml:"name"`
	Source  string `json:"source" yaml:"source"`
	Type    string `json:"type" yaml:"type"`
}
