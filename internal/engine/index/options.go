package index

import "eosindex/internal/engine/parser"

type Options struct {
	parser.Options

	// BootstrapFile is never parsed; BootstrapLines are extracted in its place.
	BootstrapFile  string
	BootstrapLines []string
	// AuxiliaryExtensions mark headers dropped when no regular header includes them.
	AuxiliaryExtensions []string
}

func DefaultOptions() Options {
	return Options{
		Options:       parser.DefaultOptions(),
		BootstrapFile: "eos_base.h",
		BootstrapLines: []string{
			"typedef int32_t EOS_Bool;",
			"#define EOS_TRUE 1",
			"#define EOS_FALSE 0",
		},
		AuxiliaryExtensions: []string{".inl"},
	}
}
