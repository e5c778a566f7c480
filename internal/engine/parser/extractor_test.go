package parser

import (
	"eosindex/internal/core/errors"
	"testing"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	x, err := NewExtractor(DefaultOptions())
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	return x
}

func source(name string, lines ...string) SourceFile {
	return SourceFile{Name: name, Lines: lines}
}

func TestExtractorFullFile(t *testing.T) {
	x := newTestExtractor(t)
	files := []SourceFile{
		source("eos_common.h",
			"#pragma once",
			"#include \"eos_base.h\"",
			"",
			"// plain line comment",
			"/** Maximum lobby size. */",
			"#define EOS_LOBBY_MAX 64",
			"#define EOS_VERSION_STRING \"1.0\"",
			"EOS_RESULT_VALUE(EOS_Success, 0)",
			"/** Something went wrong. */",
			"EOS_RESULT_VALUE_LAST(EOS_UnexpectedError, 0x7FFFFFFF)",
			"EOS_EXTERN_C typedef struct EOS_AuthHandle* EOS_HAuth;",
		),
		source("eos_auth_types.h",
			"#if defined(EOS_BUILD) \\",
			"  && EOS_PLATFORM",
			"#endif",
			"/**",
			" * Login status.",
			" */",
			"EOS_ENUM(EOS_ELoginStatus,",
			"\tEOS_LS_NotLoggedIn = 0,",
			"\tEOS_LS_UsingLocalProfile,",
			"\tEOS_LS_LoggedIn",
			");",
			"EOS_ENUM_BOOLEAN_OPERATORS(EOS_ELoginStatus)",
			"/**",
			" * Login options.",
			" */",
			"EOS_STRUCT(EOS_Auth_LoginOptions, (",
			"\t/** API Version: Set this to EOS_AUTH_LOGIN_API_LATEST. */",
			"\tint32_t ApiVersion;",
			"));",
			"EOS_DECLARE_CALLBACK(EOS_Auth_OnLoginCallback, const EOS_Auth_LoginCallbackInfo* Data);",
			"typedef void (EOS_CALL * EOS_OnFree)(void* Ptr);",
		),
		source("eos_auth.h",
			"/** Log in. */",
			"EOS_DECLARE_FUNC(void) EOS_Auth_Login(EOS_HAuth Handle, const EOS_Auth_LoginOptions* Options, void* ClientData);",
		),
		source("eos_ui_keys.h",
			"EOS_ENUM_START(EOS_UI_EKeyCombination)",
			"EOS_UI_KEY_CONSTANT(EOS_UIK_, None, 0)",
			"EOS_UI_KEY_ENTRY_FIRST(EOS_UIK_, Space, 1)",
			"EOS_UI_KEY_ENTRY(EOS_UIK_, Backspace)",
			"EOS_ENUM_END(EOS_UI_EKeyCombination);",
		),
		source("eos_ui_buttons.h",
			"EOS_UI_KEY_CONSTANT(EOS_UISBF_, None, 0)",
			"EOS_UI_KEY_ENTRY(EOS_UISBF_, DPad_Left, (1 << 0))",
		),
	}

	if err := x.ExtractAll(files); err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	r := x.Registry()

	defines := r.Defines()
	if len(defines) != 1 || defines[0].Name != "EOS_LOBBY_MAX" || defines[0].Comment != "Maximum lobby size." {
		t.Errorf("unexpected defines: %+v", defines)
	}

	functions := r.Functions()
	if len(functions) != 1 || functions[0].Comment != "Log in." || len(functions[0].Params) != 3 {
		t.Errorf("unexpected functions: %+v", functions)
	}

	callbacks := r.Callbacks()
	if len(callbacks) != 1 || callbacks[0].Name != "EOS_Auth_OnLoginCallback" || callbacks[0].ReturnType != "void" {
		t.Errorf("unexpected callbacks: %+v", callbacks)
	}

	structs := r.Structs()
	if len(structs) != 1 || structs[0].Comment != "Login options." {
		t.Fatalf("unexpected structs: %+v", structs)
	}
	if structs[0].Fields[0].RecommendedValue != "EOS_AUTH_LOGIN_API_LATEST" {
		t.Errorf("unexpected field: %+v", structs[0].Fields[0])
	}

	typedefs := r.Typedefs()
	if len(typedefs) != 2 {
		t.Fatalf("expected 2 typedefs, got %+v", typedefs)
	}
	if typedefs[1].Name != "EOS_OnFree" || typedefs[1].Type != "void (*)(void* Ptr)" {
		t.Errorf("unexpected typedef: %+v", typedefs[1])
	}

	enums := make(map[string]Enum)
	for _, e := range r.Enums() {
		enums[e.Name] = e
	}
	if len(enums) != 4 {
		t.Fatalf("expected 4 enums, got %d", len(enums))
	}
	result := enums["EOS_EResult"]
	if len(result.Values) != 2 || result.Values[1].Comment != "Something went wrong." {
		t.Errorf("unexpected result enum: %+v", result)
	}
	if result.Source != "eos_common.h" {
		t.Errorf("result enum source = %q", result.Source)
	}
	login := enums["EOS_ELoginStatus"]
	if login.Comment != "Login status." || enumValues(login)["EOS_LS_LoggedIn"] != "2" {
		t.Errorf("unexpected login enum: %+v", login)
	}
	keys := enumValues(enums["EOS_UI_EKeyCombination"])
	if keys["EOS_UIK_Space"] != "1" || keys["EOS_UIK_Backspace"] != "2" {
		t.Errorf("unexpected key values: %v", keys)
	}
	buttons := enumValues(enums["EOS_UI_EInputStateButtonFlags"])
	if buttons["EOS_UISBF_DPad_Left"] != "(1 << 0)" {
		t.Errorf("unexpected button values: %v", buttons)
	}
}

func TestExtractorErrors(t *testing.T) {
	tests := []struct {
		name  string
		files []SourceFile
		code  errors.ErrorCode
		file  string
		line  int
	}{
		{
			name:  "unrecognized line",
			files: []SourceFile{source("eos_bad.h", "#pragma once", "int x;")},
			code:  errors.CodeUnrecognizedLine,
			file:  "eos_bad.h",
			line:  2,
		},
		{
			name: "duplicate function across files",
			files: []SourceFile{
				source("eos_a.h", "EOS_DECLARE_FUNC(void) EOS_Tick(void);"),
				source("eos_b.h", "", "EOS_DECLARE_FUNC(void) EOS_Tick(void);"),
			},
			code: errors.CodeDuplicateDeclaration,
			file: "eos_b.h",
			line: 2,
		},
		{
			name:  "retired name",
			files: []SourceFile{source("eos_anticheat.h", "#define EOS_AntiCheatClient_ReceiveMessageFromPeer 1")},
			code:  errors.CodeDuplicateDeclaration,
			file:  "eos_anticheat.h",
			line:  1,
		},
		{
			name:  "unterminated struct",
			files: []SourceFile{source("eos_open.h", "EOS_STRUCT(EOS_Open, (", "\tint32_t ApiVersion;")},
			code:  errors.CodeMalformedConstruct,
			file:  "eos_open.h",
			line:  1,
		},
		{
			name:  "unknown enum marker",
			files: []SourceFile{source("eos_ui_keys.h", "EOS_ENUM_START(EOS_EOther)")},
			code:  errors.CodeMalformedConstruct,
			file:  "eos_ui_keys.h",
			line:  1,
		},
		{
			name:  "UI key outside UI headers",
			files: []SourceFile{source("eos_lobby.h", "EOS_UI_KEY_ENTRY(EOS_UIK_, Tab)")},
			code:  errors.CodeMalformedConstruct,
			file:  "eos_lobby.h",
			line:  1,
		},
		{
			name:  "duplicate result value",
			files: []SourceFile{source("eos_result.h", "EOS_RESULT_VALUE(EOS_Success, 0)", "EOS_RESULT_VALUE(EOS_Success, 1)")},
			code:  errors.CodeDuplicateDeclaration,
			file:  "eos_result.h",
			line:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestExtractor(t)
			err := x.ExtractAll(tt.files)
			if !errors.IsCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if v, _ := errors.ContextValue(err, errors.CtxFile); v != tt.file {
				t.Errorf("file context = %v, want %s", v, tt.file)
			}
			if v, _ := errors.ContextValue(err, errors.CtxLine); v != tt.line {
				t.Errorf("line context = %v, want %d", v, tt.line)
			}
		})
	}
}

func TestExtractorTrailingComment(t *testing.T) {
	x := newTestExtractor(t)
	err := x.ExtractFile(source("eos_tail.h", "#define EOS_A 1", "/**", " * dangling"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(x.Registry().Defines()); n != 1 {
		t.Errorf("expected 1 define, got %d", n)
	}
}

func TestExtractorRunsAreIndependent(t *testing.T) {
	file := source("eos_a.h", "EOS_DECLARE_FUNC(void) EOS_Tick(void);")
	for i := 0; i < 2; i++ {
		x := newTestExtractor(t)
		if err := x.ExtractFile(file); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestNewExtractorUnseededEnums(t *testing.T) {
	t.Run("ResultEnum", func(t *testing.T) {
		opts := DefaultOptions()
		opts.ResultEnum = "EOS_EMissing"
		if _, err := NewExtractor(opts); !errors.IsCode(err, errors.CodeValidationError) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("UIEnum", func(t *testing.T) {
		opts := DefaultOptions()
		opts.UIEnums = append(opts.UIEnums, UIEnum{File: "eos_ui_mouse.h", Enum: "EOS_UI_EMouse"})
		if _, err := NewExtractor(opts); !errors.IsCode(err, errors.CodeValidationError) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
