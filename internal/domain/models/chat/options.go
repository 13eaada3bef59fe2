package chat

// Mode selects the persona preset used to build the system prompt.
type Mode string

const (
	ModeConversation Mode = "conversation"
	ModeAssistance   Mode = "assistance"
	ModeInformation  Mode = "information"
	ModeGPT          Mode = "gpt" // full GPT access
)

// Language selects the language the assistant must answer in.
type Language string

const (
	LanguageRomanUrdu Language = "roman-urdu"
	LanguageEnglish   Language = "english"
	LanguagePashto    Language = "pashto"
	LanguageSindhi    Language = "sindhi"
)

// Defaults match what a fresh chat starts with.
const (
	DefaultMode     = ModeConversation
	DefaultLanguage = LanguageRomanUrdu
)

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Modes returns every mode in display order.
func Modes() []Option {
	return []Option{
		{Value: string(ModeConversation), Label: "Intelligent Conversation"},
		{Value: string(ModeAssistance), Label: "Personalized Assistance"},
		{Value: string(ModeInformation), Label: "Information Tool"},
		{Value: string(ModeGPT), Label: "Full GPT Access"},
	}
}

// Languages returns every language in display order.
func Languages() []Option {
	return []Option{
		{Value: string(LanguageRomanUrdu), Label: "Roman Urdu"},
		{Value: string(LanguageEnglish), Label: "English"},
		{Value: string(LanguagePashto), Label: "Pashto"},
		{Value: string(LanguageSindhi), Label: "Sindhi"},
	}
}

// ModeValues returns every Mode as []interface{} for validation.In.
func ModeValues() []interface{} {
	opts := Modes()
	out := make([]interface{}, len(opts))
	for i, o := range opts {
		out[i] = Mode(o.Value)
	}
	return out
}

// LanguageValues returns every Language as []interface{} for validation.In.
func LanguageValues() []interface{} {
	opts := Languages()
	out := make([]interface{}, len(opts))
	for i, o := range opts {
		out[i] = Language(o.Value)
	}
	return out
}
