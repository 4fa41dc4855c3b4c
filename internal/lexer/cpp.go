package lexer

var cppKeywords = set(
	"alignas", "alignof", "asm", "break", "case", "catch", "class", "concept",
	"const", "consteval", "constexpr", "constinit", "const_cast", "continue",
	"co_await", "co_return", "co_yield", "decltype", "default", "delete", "do",
	"dynamic_cast", "else", "enum", "explicit", "export", "extern", "final",
	"for", "friend", "goto", "if", "inline", "mutable", "namespace", "new",
	"noexcept", "operator", "override", "private", "protected", "public",
	"register", "reinterpret_cast", "requires", "return", "sizeof", "static",
	"static_assert", "static_cast", "struct", "switch", "template", "this",
	"thread_local", "throw", "try", "typedef", "typeid", "typename", "union",
	"using", "virtual", "volatile", "while",
)

var cppStorage = set(
	"auto", "bool", "char", "char8_t", "char16_t", "char32_t", "double",
	"float", "int", "long", "short", "signed", "unsigned", "void", "wchar_t",
	"size_t",
)

var cppConstants = set("true", "false", "nullptr", "NULL")

// NewCpp returns the regex lexer for C and C++. It has two states: "start"
// and "comment" (inside a /* block */).
func NewCpp() *Simple {
	words := wordTypes(cppKeywords, cppStorage, cppConstants)
	return &Simple{
		name:  "simple/cpp",
		start: StartState,
		states: map[string][]rule{
			StartState: {
				r(`\s+`, fixed("text"), ""),
				r(`//.*`, fixed("comment"), ""),
				r(`/\*.*?\*/`, fixed("comment"), ""),
				r(`/\*.*`, fixed("comment"), "comment"),
				r(`#\s*[A-Za-z_]+`, fixed("keyword.preprocessor"), ""),
				r(`[LuU]?"(?:[^"\\]|\\.)*"?`, fixed("string"), ""),
				r(`'(?:[^'\\]|\\.)*'?`, fixed("string"), ""),
				r(`0[xX][0-9A-Fa-f']+[uUlL]*|(?:[0-9][0-9']*\.?[0-9']*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?[uUlLfF]*`, fixed("constant.numeric"), ""),
				r(`[A-Za-z_][A-Za-z0-9_]*`, words, ""),
				r(`[(){}\[\]]`, fixed("paren.keyword.operator"), ""),
				r(`[,;]`, fixed("punctuation.operator"), ""),
				r(`::|->\*?|\+\+|--|&&|\|\||==|!=|<=|>=|\+=|-=|\*=|/=|%=|&=|\|=|\^=|\.\.\.`, fixed("keyword.operator"), ""),
				r(`[-+*/%=&|^~!?:.<>\\]`, fixed("keyword.operator"), ""),
			},
			"comment": {
				r(`.*?\*/`, fixed("comment"), StartState),
				r(`.+`, fixed("comment"), ""),
			},
		},
	}
}
