package parser

import (
	"encoding/json"
	"eosindex/internal/core/errors"
	"testing"
)

func TestParseStruct(t *testing.T) {
	lines := []string{
		"EOS_STRUCT(EOS_Auth_LoginOptions, (",
		"\t/** API Version: Set this to EOS_AUTH_LOGIN_API_LATEST. */",
		"\tint32_t ApiVersion;",
		"",
		"\t/** Credentials for the login */",
		"\tconst EOS_Auth_Credentials* Credentials;",
		"\tchar DisplayName[EOS_MAX_NAME];",
		"));",
		"#define AFTER 1",
	}
	next, st, err := ParseStruct(lines, 1, lines[0], "Login options.", "eos_auth_types.h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 8 {
		t.Errorf("next = %d, want 8", next)
	}
	if st.Name != "EOS_Auth_LoginOptions" || st.Comment != "Login options." || st.Source != "eos_auth_types.h" {
		t.Errorf("unexpected struct: %+v", st)
	}
	if len(st.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(st.Fields))
	}

	api := st.Fields[0]
	if api.Name != "ApiVersion" || api.Type != "int32_t" {
		t.Errorf("unexpected field: %+v", api)
	}
	if api.RecommendedValue != "EOS_AUTH_LOGIN_API_LATEST" {
		t.Errorf("recommended value = %q", api.RecommendedValue)
	}
	if st.Fields[1].Type != "const EOS_Auth_Credentials*" || st.Fields[1].Comment != "Credentials for the login" {
		t.Errorf("unexpected field: %+v", st.Fields[1])
	}
	name := st.Fields[2]
	if name.Name != "DisplayName" || name.Type != "char[EOS_MAX_NAME]" || name.ArraySuffix != "[EOS_MAX_NAME]" {
		t.Errorf("unexpected array field: %+v", name)
	}
	if name.Comment != "" {
		t.Errorf("comment leaked onto next field: %q", name.Comment)
	}
}

func TestParseStructUnion(t *testing.T) {
	lines := []string{
		"EOS_STRUCT(EOS_Lobby_AttributeData, (",
		"\tint32_t ApiVersion;",
		"\t/** The value */",
		"\tunion",
		"\t{",
		"\t\tchar Raw[8];",
		"\t\tint64_t AsInt64;",
		"\t\t/** Text form: Set this to NULL. */",
		"\t\tconst char* AsUtf8;",
		"\t} Value;",
		"\t/** Type of the value */",
		"\tEOS_EAttributeType ValueType;",
		"));",
	}
	next, st, err := ParseStruct(lines, 1, lines[0], "Struct doc", "eos_lobby_types.h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != len(lines) {
		t.Errorf("next = %d, want %d", next, len(lines))
	}
	if len(st.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(st.Fields))
	}

	union := st.Fields[1]
	if union.Kind != FieldUnion || union.Name != "Value" || union.Comment != "Struct doc" {
		t.Errorf("unexpected union: %+v", union)
	}
	wantType := "union\n\nchar Raw[8];\nint64_t AsInt64;\nconst char* AsUtf8;\n}"
	if union.Type != wantType {
		t.Errorf("union type = %q, want %q", union.Type, wantType)
	}
	if len(union.UnionItems) != 3 {
		t.Fatalf("expected 3 union items, got %+v", union.UnionItems)
	}
	if raw := union.UnionItems[0]; raw.Name != "Raw[8]" || raw.Type != "char" || raw.ArraySuffix != "" {
		t.Errorf("unexpected array member: %+v", raw)
	}
	if utf8 := union.UnionItems[2]; utf8.Comment != "Text form: Set this to NULL." || utf8.RecommendedValue != "NULL" {
		t.Errorf("unexpected commented member: %+v", utf8)
	}
	if st.Fields[2].Name != "ValueType" || st.Fields[2].Comment != "Type of the value" {
		t.Errorf("unexpected trailing field: %+v", st.Fields[2])
	}

	data, err := json.Marshal(union)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"comment":"Struct doc","name":"Value","type":"union\n\nchar Raw[8];\nint64_t AsInt64;\nconst char* AsUtf8;\n}",` +
		`"unionitems":[{"comment":"","name":"Raw[8]","type":"char"},{"comment":"","name":"AsInt64","type":"int64_t"},` +
		`{"comment":"Text form: Set this to NULL.","name":"AsUtf8","recommended_value":"NULL","type":"const char*"}]}`
	if string(data) != want {
		t.Errorf("union JSON = %s\nwant %s", data, want)
	}
}

func TestParseStructEmptyUnion(t *testing.T) {
	lines := []string{
		"EOS_STRUCT(EOS_Empty, (",
		"\tunion",
		"\t{",
		"\t} Nothing;",
		"));",
	}
	_, st, err := ParseStruct(lines, 1, lines[0], "", "eos_empty.h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Fields) != 1 || st.Fields[0].Type != "union\n\n}" {
		t.Errorf("unexpected fields: %+v", st.Fields)
	}
}

func TestFieldJSONKeepsMarkup(t *testing.T) {
	f := Field{Comment: "Must be < 8 & > 0", Name: "Count", Type: "int32_t"}
	data, err := f.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"comment":"Must be < 8 & > 0","name":"Count","type":"int32_t"}`
	if string(data) != want {
		t.Errorf("field JSON = %s, want %s", data, want)
	}
}

func TestParseStructErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"missing close", []string{"EOS_STRUCT(EOS_Open, (", "\tint32_t ApiVersion;"}},
		{"garbage line", []string{"EOS_STRUCT(EOS_Bad, (", "\t???", "));"}},
		{"bad header", []string{"EOS_STRUCT(EOS_Bad"}},
		{"union without brace", []string{"EOS_STRUCT(EOS_Bad, (", "\tunion", "\tint32_t X;", "));"}},
		{"nested union", []string{"EOS_STRUCT(EOS_Bad, (", "\tunion", "\t{", "\tunion", "\t{", "\t} Inner;", "\t} Outer;", "));"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseStruct(tt.lines, 1, tt.lines[0], "", "eos_bad.h")
			if !errors.IsCode(err, errors.CodeMalformedConstruct) {
				t.Fatalf("expected malformed error, got %v", err)
			}
		})
	}
}

func TestRecommendedValue(t *testing.T) {
	tests := map[string]string{
		"Set this to X.":                                          "X",
		"API Version: Set this to EOS_API_LATEST.":                "EOS_API_LATEST",
		"API Version: Set this to EOS_UI_SHOWFRIENDS_API_LATEST":  "EOS_UI_SHOWFRIENDS_API_LATEST",
		"The account.\nFlag: Set this to  EOS_TRUE \nif required": "EOS_TRUE",
		"Never Set this to X.":                                    "",
		"The account.\nSet this to EOS_TRUE.":                     "",
		"No recommendation here.":                                 "",
	}
	for comment, want := range tests {
		if got := RecommendedValue(comment); got != want {
			t.Errorf("RecommendedValue(%q) = %q, want %q", comment, got, want)
		}
	}
}
