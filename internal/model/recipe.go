package model

// StringEncoding selects how extracted string literals are encoded in the
// indirection table.
type StringEncoding string

// Available StringEncoding values.
const (
	EncodingCipher StringEncoding = "rc4"
	EncodingBase64 StringEncoding = "base64"
)

// WrapperType selects the style of the string-table indirection wrappers.
type WrapperType string

// Available WrapperType values.
const (
	WrapperVariable WrapperType = "variable"
	WrapperFunction WrapperType = "function"
)

// IdentifierScheme is the single renaming scheme applied to all identifiers.
const IdentifierScheme = "mangled-shuffled"

// ObfuscationRecipe is the randomized transformation configuration for one
// run. It is generated exactly once, is immutable afterwards, and is shared
// read-only by every script transform in that run. The JSON field names
// follow the option contract of the external obfuscation engine.
type ObfuscationRecipe struct {
	ControlFlowFlattening          bool           `json:"controlFlowFlattening"`
	ControlFlowFlatteningThreshold float64        `json:"controlFlowFlatteningThreshold"`
	DeadCodeInjection              bool           `json:"deadCodeInjection"`
	DeadCodeInjectionThreshold     float64        `json:"deadCodeInjectionThreshold"`
	StringArray                    bool           `json:"stringArray"`
	StringArrayEncoding            StringEncoding `json:"stringArrayEncoding"`
	StringArrayThreshold           float64        `json:"stringArrayThreshold"`
	StringArrayWrappersCount       int            `json:"stringArrayWrappersCount"`
	StringArrayWrappersType        WrapperType    `json:"stringArrayWrappersType"`
	StringArrayWrappersChained     bool           `json:"stringArrayWrappersChainedCalls"`
	StringArrayRotate              bool           `json:"stringArrayRotate"`
	StringArrayShuffle             bool           `json:"stringArrayShuffle"`
	StringArrayIndexShift          bool           `json:"stringArrayIndexShift"`
	SplitStrings                   bool           `json:"splitStrings"`
	SplitStringsChunkLength        int            `json:"splitStringsChunkLength"`
	UnicodeEscapeSequence          bool           `json:"unicodeEscapeSequence"`
	IdentifierNamesGenerator       string         `json:"identifierNamesGenerator"`
	NumbersToExpressions           bool           `json:"numbersToExpressions"`
	SelfDefending                  bool           `json:"selfDefending"`
	TransformObjectKeys            bool           `json:"transformObjectKeys"`
}
