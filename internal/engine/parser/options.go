package parser

// SeedEnum is an enum registered before extraction because its values are
// assembled from scattered macro invocations.
type SeedEnum struct {
	Name   string
	Source string
}

// UIEnum routes UI key macros found in File into Enum.
type UIEnum struct {
	File      string
	Enum      string
	AutoIndex bool
}

type Options struct {
	// DefineIgnore lists plumbing macros that are dropped instead of registered.
	DefineIgnore []string
	// RetiredNames may never be registered as defines.
	RetiredNames       []string
	DirectiveIgnore    []string
	CallingConventions []string
	SeedEnums          []SeedEnum
	// ResultEnum receives EOS_RESULT_VALUE entries.
	ResultEnum string
	UIEnums    []UIEnum
}

func DefaultOptions() Options {
	return Options{
		DefineIgnore: []string{
			"EOS_BUILD_PLATFORM_HEADER_BASE",
			"EOS_PREPROCESSOR_JOIN", "EOS_PREPROCESSOR_JOIN_INNER",
			"EOS_PREPROCESSOR_TO_STRING", "EOS_PREPROCESSOR_TO_STRING_INNER",
			"EOS_VERSION_STRING_AFTERCL", "EOS_VERSION_STRING", "EOS_VERSION_STRING_BASE",
			"EOS_VERSION_STRINGIFY", "EOS_VERSION_STRINGIFY_2",
			"EOS_RESULT_VALUE", "EOS_RESULT_VALUE_LAST", "EOS_UI_KEY_CONSTANT",
			"EOS_UI_KEY_MODIFIER", "EOS_UI_KEY_MODIFIER_LAST", "EOS_UI_KEY_ENTRY_FIRST",
			"EOS_UI_KEY_ENTRY", "EOS_UI_KEY_CONSTANT_LAST",
		},
		RetiredNames: []string{"EOS_AntiCheatClient_ReceiveMessageFromPeer"},
		DirectiveIgnore: []string{
			"#pragma", "#include",
			"#if", "#else", "#endif", "#ifndef",
			"#undef", "#error",
		},
		CallingConventions: []string{"EOS_CALL", "EOS_MEMORY_CALL"},
		SeedEnums: []SeedEnum{
			{Name: "EOS_EResult", Source: "eos_common.h"},
			{Name: "EOS_UI_EKeyCombination", Source: "eos_ui_keys.h"},
			{Name: "EOS_UI_EInputStateButtonFlags", Source: "eos_ui_buttons.h"},
		},
		ResultEnum: "EOS_EResult",
		UIEnums: []UIEnum{
			{File: "eos_ui_keys.h", Enum: "EOS_UI_EKeyCombination", AutoIndex: true},
			{File: "eos_ui_buttons.h", Enum: "EOS_UI_EInputStateButtonFlags"},
		},
	}
}
