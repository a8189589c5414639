package forge

import "fmt"

// ConfigKey names one of the fixed settings below. Keeping these as a
// distinct type (rather than bare strings) catches a typo'd key at
// compile time instead of at the first panicking Get call.
type ConfigKey string

const (
	// KeyPreprocessorPath is the `gcc`-compatible binary the native
	// translator invokes to expand an imported C header (section 4.I).
	KeyPreprocessorPath ConfigKey = "native.preprocessor_path"
	// KeyIncludeGuards toggles the `#pragma once` preface on emitted
	// output (section 6).
	KeyIncludeGuards ConfigKey = "emit.include_guards"
	// KeyImportMaxDepth is a depth limit for recursive import resolution
	// (section 4.H). It is stored with a default but the Driver does not
	// read it; import recursion has no depth bound.
	KeyImportMaxDepth ConfigKey = "import.max_depth"
	// KeyAllowGenerics gates the generic-type machinery described in
	// the Open Questions; unreachable from any parser path today.
	KeyAllowGenerics ConfigKey = "check.allow_generics"
)

type Config map[ConfigKey]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by the import driver and the native
// translator.
func NewConfig() *Config {
	m := make(Config)
	m.SetString(KeyPreprocessorPath, "gcc")
	m.SetBool(KeyIncludeGuards, true)
	m.SetInt(KeyImportMaxDepth, 256)
	m.SetBool(KeyAllowGenerics, false)
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType is mostly for preventing programming errors, it keeps a
// cell from being reassigned to a different value type once set, since
// Config has no declared schema to check that against up front.
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path ConfigKey, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path ConfigKey, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path ConfigKey, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path ConfigKey) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path ConfigKey) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path ConfigKey) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
