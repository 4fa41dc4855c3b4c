package indent

import (
	"regexp"
	"strings"

	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/cppnav"
	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/token"
)

// CommentState is the C++ lexer state inside a block comment.
const CommentState = "comment"

var (
	reStarLine        = regexp.MustCompile(`^(\s*)\*(?:[^/]|$)`)
	reCommentClose    = regexp.MustCompile(`\*/\s*$`)
	reClassHeader     = regexp.MustCompile(`^\s*(?:template\s*<.*>\s*)?(?:class|struct)\b[^{;]*$`)
	reClassKeyword    = regexp.MustCompile(`\b(?:class|struct)\b`)
	reEndsWithColon   = regexp.MustCompile(`(?:^|[^:]):\s*$`)
	reNoIndentBlock   = regexp.MustCompile(`\b(?:namespace|switch|extern)\b.*\{\s*$`)
	reTemplateLine    = regexp.MustCompile(`^\s*template\s*<.*>\s*$`)
	reTrailingOp      = regexp.MustCompile(`(?:&&|\|\||<<|>>|[-+*/%=&|^?<>])\s*$`)
	reOpenBracketEnd  = regexp.MustCompile(`[(\[]\s*$`)
	reNaked           = regexp.MustCompile(`^\s*[\w:]+\s*$|^\s*[\w:]+\s*\(.*\)\s*$`)
	reEndsWithSemi    = regexp.MustCompile(`;\s*$`)
	reAccessSpecifier = regexp.MustCompile(`^\s*(?:public|private|protected)\s*:\s*$`)
	reForHeader       = regexp.MustCompile(`^\s*for\s*\(`)
	reEndsWithComma   = regexp.MustCompile(`,\s*$`)
	reLeadingColon    = regexp.MustCompile(`^\s*:\s*`)
	reCloserComma     = regexp.MustCompile(`[)\]}]\s*,\s*$`)
	reEndsWithBrace   = regexp.MustCompile(`\{\s*$`)
	reEndsStatement   = regexp.MustCompile(`[;}]\s*$`)
)

// Control-flow lines without a brace of their own.
var reNakedBlockTokens = map[string]*regexp.Regexp{
	"do":     regexp.MustCompile(`^\s*do\s*$`),
	"while":  regexp.MustCompile(`^\s*while\s*\(.*\)\s*$`),
	"for":    regexp.MustCompile(`^\s*for\s*\(.*\)\s*$`),
	"else":   regexp.MustCompile(`^\s*else\s*$`),
	"if":     regexp.MustCompile(`^\s*if\s*\(.*\)\s*$`),
	"elseif": regexp.MustCompile(`^\s*else\s+if\s*\(.*\)\s*$`),
}

func nakedMatch(line string) bool {
	for _, re := range reNakedBlockTokens {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func isNaked(line string) bool {
	return reNaked.MatchString(line) || nakedMatch(line)
}

// cppRule is one step of the cascade.
type cppRule struct {
	name  string
	apply func(q *cppQuery) (string, bool)
}

// Cpp is the C and C++ indentation engine.
type Cpp struct {
	model Model
	cfg   config.IndentConfig
	rules []cppRule
}

// NewCpp returns a C++ engine reading from model.
func NewCpp(model Model, cfg config.IndentConfig) *Cpp {
	e := &Cpp{model: model, cfg: cfg}
	// Order matters: patterns overlap and the first match decides.
	e.rules = []cppRule{
		{"comment", ruleComment},
		{"commentEnd", ruleCommentEnd},
		{"macro", ruleMacro},
		{"unfinishedClass", ruleUnfinishedClass},
		{"trailingColon", ruleTrailingColon},
		{"namespaceSwitch", ruleNamespaceSwitch},
		{"template", ruleTemplate},
		{"trailingOperator", ruleTrailingOperator},
		{"openBracket", ruleOpenBracket},
		{"naked", ruleNaked},
		{"unfinishedFor", ruleUnfinishedFor},
		{"inheritance", ruleInheritance},
		{"trailingComma", ruleTrailingComma},
		{"closerComma", ruleCloserComma},
		{"bareComma", ruleBareComma},
		{"openBrace", ruleOpenBrace},
		{"statementStart", ruleStatementStart},
	}
	return e
}

// RuleNames lists the cascade in evaluation order.
func (e *Cpp) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.name
	}
	return names
}

// NextLineIndent implements Indenter.
func (e *Cpp) NextLineIndent(state, line, tab string, row int) string {
	return e.Explain(state, line, tab, row).Indent
}

// Explain implements Indenter.
func (e *Cpp) Explain(state, line, tab string, row int) Result {
	q := &cppQuery{
		e:      e,
		state:  state,
		raw:    line,
		line:   LineSansComments(line),
		tab:    tab,
		row:    row,
		indent: indentOf(line),
	}
	for _, r := range e.rules {
		if indent, ok := r.apply(q); ok {
			log.Debug(log.CatIndent, "rule fired", "rule", r.name, "row", row)
			res := Result{Indent: indent, Line: line, Rule: r.name}
			if q.rewritten != "" {
				res.Line = q.rewritten
			}
			return res
		}
	}
	return Result{Indent: q.indent, Line: line, Rule: "default"}
}

// cppQuery carries one Explain call through the cascade.
type cppQuery struct {
	e         *Cpp
	state     string
	raw       string
	line      string
	tab       string
	row       int
	indent    string
	rewritten string
}

// lineAt returns row's text, substituting the queried line for its row.
func (q *cppQuery) lineAt(row int) string {
	if row == q.row {
		return q.raw
	}
	if row < 0 || row >= q.e.model.LineCount() {
		return ""
	}
	return q.e.model.Line(row)
}

func (q *cppQuery) sansAt(row int) string {
	if row == q.row {
		return q.line
	}
	return LineSansComments(q.lineAt(row))
}

func (q *cppQuery) align() bool {
	return q.e.cfg.VerticallyAlignArgs
}

func ruleComment(q *cppQuery) (string, bool) {
	if q.state != CommentState {
		return "", false
	}
	if m := reStarLine.FindStringSubmatch(q.raw); m != nil {
		return m[1] + "* ", true
	}
	start := FindStartOfCommentBlock(q.lineAt, q.row, q.e.cfg.MaxLookbackRows)
	if start < 0 {
		return q.indent, true
	}
	l := q.lineAt(start)
	return alignTo(l, strings.Index(l, "/*")+1) + "* ", true
}

func ruleCommentEnd(q *cppQuery) (string, bool) {
	if !reCommentClose.MatchString(q.raw) || strings.Contains(q.raw, "/*") {
		return "", false
	}
	start := FindStartOfCommentBlock(q.lineAt, q.row-1, q.e.cfg.MaxLookbackRows)
	if start < 0 {
		return "", false
	}
	return indentOf(q.lineAt(start)), true
}

// macroStart returns the row of the directive whose backslash chain
// reaches row, or -1.
func (q *cppQuery) macroStart(row int) int {
	r := row
	for n := 0; r > 0 && n < q.e.cfg.MaxLookbackRows; n++ {
		if !reEndsWithBackslash.MatchString(q.lineAt(r - 1)) {
			break
		}
		r--
	}
	if strings.HasPrefix(strings.TrimLeft(q.lineAt(r), " \t"), "#") {
		return r
	}
	return -1
}

// alignBackslash moves a trailing backslash to the configured column.
func (q *cppQuery) alignBackslash(line string) string {
	content := strings.TrimRight(line[:strings.LastIndex(line, `\`)], " \t")
	col := q.e.cfg.BackslashColumn()
	if len(content) < col {
		return content + strings.Repeat(" ", col-len(content)) + `\`
	}
	return content + ` \`
}

// indentPastDirectives answers for the nearest code row above the
// directive on q.row, skipping blank rows and other directives.
func (q *cppQuery) indentPastDirectives() (string, bool) {
	for r, n := q.row-1, 0; r >= 0 && n < q.e.cfg.MaxLookbackRows; r, n = r-1, n+1 {
		line := q.lineAt(r)
		if strings.TrimSpace(line) == "" || q.macroStart(r) >= 0 {
			continue
		}
		state := q.state
		if m, ok := q.e.model.(interface{ EndState(row int) string }); ok {
			state = m.EndState(r)
		}
		return q.e.Explain(state, line, q.tab, r).Indent, true
	}
	return "", false
}

func ruleMacro(q *cppQuery) (string, bool) {
	start := q.macroStart(q.row)
	if start < 0 {
		return "", false
	}
	if !reEndsWithBackslash.MatchString(q.raw) {
		if q.row != start {
			// Last line of a macro.
			return indentOf(q.lineAt(start)), true
		}
		// A one-line directive leaves the code around it as it was.
		return q.indentPastDirectives()
	}

	q.rewritten = q.alignBackslash(q.raw)
	if q.row == start {
		return q.indent + q.tab, true
	}
	body := strings.TrimRight(q.line, " \t")
	if strings.HasSuffix(body, "{") || strings.HasSuffix(body, "(") {
		return q.indent + q.tab, true
	}
	return q.indent, true
}

func ruleUnfinishedClass(q *cppQuery) (string, bool) {
	if !reClassHeader.MatchString(q.line) || reEndsWithComma.MatchString(q.line) {
		return "", false
	}
	if reEndsWithColon.MatchString(q.line) {
		return q.indent + q.tab, true
	}
	return q.indent, true
}

func ruleTrailingColon(q *cppQuery) (string, bool) {
	if !reEndsWithColon.MatchString(q.line) {
		return "", false
	}
	return q.indent + q.tab, true
}

func ruleNamespaceSwitch(q *cppQuery) (string, bool) {
	if !reNoIndentBlock.MatchString(q.line) {
		return "", false
	}
	return q.indent, true
}

func ruleTemplate(q *cppQuery) (string, bool) {
	if !reTemplateLine.MatchString(q.line) {
		return "", false
	}
	return q.indent, true
}

// endsWithOperator reports whether line ends on a binary operator. Arrows,
// increments and a ">" closing a template argument list do not count.
func endsWithOperator(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if !reTrailingOp.MatchString(trimmed) {
		return false
	}
	for _, suffix := range []string{"->", "++", "--"} {
		if strings.HasSuffix(trimmed, suffix) {
			return false
		}
	}
	if strings.HasSuffix(trimmed, ">") && !strings.HasSuffix(trimmed, ">>") &&
		strings.Count(trimmed, "<") >= strings.Count(trimmed, ">") {
		return false
	}
	return true
}

func ruleTrailingOperator(q *cppQuery) (string, bool) {
	if !endsWithOperator(q.line) {
		return "", false
	}
	// Only the first line of a continuation chain indents.
	if q.row > 0 && endsWithOperator(q.sansAt(q.row-1)) {
		return q.indent, true
	}
	return q.indent + q.tab, true
}

func ruleOpenBracket(q *cppQuery) (string, bool) {
	if !reOpenBracketEnd.MatchString(q.line) {
		return "", false
	}
	return q.indent + q.tab, true
}

// ruleNaked indents after a brace-less control line and, once the guarded
// statement ends, returns to the indent of the line that opened the chain.
func ruleNaked(q *cppQuery) (string, bool) {
	line := q.line
	if strings.Count(line, "(") == strings.Count(line, ")") && isNaked(line) {
		return q.indent + q.tab, true
	}

	if !reEndsWithSemi.MatchString(line) {
		return "", false
	}
	lookback := q.row - 1
	last := q.sansAt(lookback)
	if !isNaked(last) {
		return "", false
	}
	// "public:" or "default:" look naked but open no block.
	if reAccessSpecifier.MatchString(last) || reEndsWithColon.MatchString(last) {
		return q.indent, true
	}
	for n := 0; isNaked(last) && n < q.e.cfg.NakedLookbackRows; n++ {
		if reNakedBlockTokens["if"].MatchString(last) ||
			reNakedBlockTokens["else"].MatchString(last) ||
			reNakedBlockTokens["elseif"].MatchString(last) {
			return indentOf(q.lineAt(lookback)), true
		}
		lookback--
		last = q.sansAt(lookback)
	}
	return indentOf(q.lineAt(lookback + 1)), true
}

func ruleUnfinishedFor(q *cppQuery) (string, bool) {
	if !reForHeader.MatchString(q.line) || strings.Count(q.line, "(") <= strings.Count(q.line, ")") {
		return "", false
	}
	if !q.align() {
		return q.indent + q.tab, true
	}
	open := strings.Index(q.line, "(")
	if target := firstNonSpaceAfter(q.line, open); target >= 0 {
		return alignTo(q.raw, target), true
	}
	return q.indent + q.tab, true
}

// inheritanceColon returns the column of the ":" opening a base-class
// list on line, or -1.
func inheritanceColon(line string) int {
	loc := reClassKeyword.FindStringIndex(line)
	if loc == nil {
		return -1
	}
	for i := loc[1]; i < len(line); i++ {
		switch line[i] {
		case '{', ';', '(':
			return -1
		case ':':
			if i+1 < len(line) && line[i+1] == ':' {
				i++
				continue
			}
			return i
		}
	}
	return -1
}

func ruleInheritance(q *cppQuery) (string, bool) {
	if !reEndsWithComma.MatchString(q.line) {
		return "", false
	}

	// "    : public A," lists bases under a leading colon.
	if m := reLeadingColon.FindString(q.line); m != "" {
		if !q.align() {
			return q.indent + q.tab, true
		}
		return alignTo(q.raw, len(m)), true
	}

	for r, n := q.row, 0; r >= 0 && n < q.e.cfg.NakedLookbackRows; r, n = r-1, n+1 {
		l := q.sansAt(r)
		if colon := inheritanceColon(l); colon >= 0 {
			if r != q.row {
				return q.indent, true
			}
			target := firstNonSpaceAfter(l, colon)
			if target < 0 || !q.align() {
				return indentOf(l) + q.tab, true
			}
			return alignTo(q.raw, target), true
		}
		if r != q.row && !reEndsWithComma.MatchString(l) {
			break
		}
	}
	return "", false
}

func ruleTrailingComma(q *cppQuery) (string, bool) {
	if !reEndsWithComma.MatchString(q.line) {
		return "", false
	}
	open := unmatchedOpener(q.line, "([{")
	if open < 0 {
		return "", false
	}
	if !q.align() {
		return q.indent + q.tab, true
	}
	if target := firstNonSpaceAfter(q.line, open); target >= 0 {
		return alignTo(q.raw, target), true
	}
	return q.indent + q.tab, true
}

// unmatchedCloser returns the column of the last closer on line whose
// opener is on an earlier row, or -1.
func unmatchedCloser(line string) int {
	depth := 0
	col := -1
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				col = i
			} else {
				depth--
			}
		}
	}
	return col
}

func ruleCloserComma(q *cppQuery) (string, bool) {
	if !reCloserComma.MatchString(q.line) {
		return "", false
	}
	col := unmatchedCloser(q.line)
	if col < 0 {
		return "", false
	}

	openRow := -1
	var openCol int
	if pos, ok := q.e.model.FindMatchingBracket(token.Position{Row: q.row, Column: col + 1}); ok {
		openRow, openCol = pos.Row, pos.Column
	} else if r := FindMatchingBracketRow(q.lineAt, q.e.model.LineCount(), string(q.line[col]), q.row, q.e.cfg.MaxLookbackRows, -1); r >= 0 {
		openRow, openCol = r, len(q.lineAt(r))
	}
	if openRow < 0 {
		return "", false
	}

	// Continue as if the line ended right before the matched opener.
	head := LineSansComments(q.lineAt(openRow))
	head = head[:min(openCol, len(head))]
	if outer := unmatchedOpener(head, "([{"); outer >= 0 && q.align() {
		if target := firstNonSpaceAfter(head, outer); target >= 0 {
			return alignTo(q.lineAt(openRow), target), true
		}
	}
	return indentOf(q.lineAt(openRow)), true
}

func ruleBareComma(q *cppQuery) (string, bool) {
	if !reEndsWithComma.MatchString(q.line) {
		return "", false
	}
	return q.indent, true
}

func ruleOpenBrace(q *cppQuery) (string, bool) {
	if !reEndsWithBrace.MatchString(q.line) {
		return "", false
	}
	if r := q.e.RowForOpenBraceIndent(q.row, len(q.raw)); r >= 0 {
		return indentOf(q.lineAt(r)) + q.tab, true
	}
	return q.indent + q.tab, true
}

// ruleStatementStart returns to the indent of the row where the statement
// ending on this line began. A line ending a block goes back to the
// block's header row.
func ruleStatementStart(q *cppQuery) (string, bool) {
	if !reEndsStatement.MatchString(q.line) || !q.e.model.TokenizeUpToRow(q.row) {
		return "", false
	}
	c, ok := cursor.New(q.e.model.Store()).MoveToPosition(token.Position{Row: q.row, Column: len(q.raw)}, false)
	if !ok || c.Row() != q.row {
		return "", false
	}
	if r, ok := q.blockHeaderRow(c); ok {
		return indentOf(q.lineAt(r)), true
	}
	start, ok := cppnav.MoveToStartOfCurrentStatement(c)
	if !ok || start.Row() >= q.row || q.row-start.Row() > q.e.cfg.MaxLookbackRows {
		return "", false
	}
	return indentOf(q.lineAt(start.Row())), true
}

// blockHeaderRow returns the header row of the block closed by the "}"
// (or "};") at c, when that header is above q.row.
func (q *cppQuery) blockHeaderRow(c cursor.Cursor) (int, bool) {
	if c.Value() == ";" {
		if p, ok := c.MoveToPreviousToken(); ok && p.Row() == q.row {
			c = p
		}
	}
	if c.Value() != "}" {
		return 0, false
	}
	open, ok := c.BwdToMatchingToken()
	if !ok {
		return 0, false
	}
	r := q.e.RowForOpenBraceIndent(open.Row(), open.Position().Column+1)
	if r < 0 || r >= q.row {
		return 0, false
	}
	return r, true
}

// RowForOpenBraceIndent finds the row that anchors the indentation of the
// block opened by the last "{" before col on row: the class header,
// function signature or control statement, skipping initializer lists,
// base-class lists and trailing qualifiers. It returns -1 when no such
// row is found.
func (e *Cpp) RowForOpenBraceIndent(row, col int) int {
	if !e.model.TokenizeUpToRow(row) {
		return -1
	}
	c, ok := cursor.New(e.model.Store()).MoveToPosition(token.Position{Row: row, Column: col}, false)
	if !ok || c.Row() != row {
		return -1
	}
	for c.Value() != "{" {
		p, ok := c.MoveToPreviousToken()
		if !ok || p.Row() != row {
			return -1
		}
		c = p
	}

	if init, moved := cppnav.BwdOverInitializationList(c); moved {
		c = init
	} else if inh, ok := cppnav.BwdOverClassInheritance(c); ok {
		c = inh
	}

	if c.Value() == "{" {
		if c, ok = c.MoveToPreviousToken(); !ok {
			return -1
		}
	}
	if c.Value() == "{" {
		return -1
	}

	for c.Type() == "keyword" {
		switch c.Value() {
		case "if", "else", "for", "while", "do", "struct", "class", "try", "switch":
			return c.Row()
		}
		p, ok := c.MoveToPreviousToken()
		if !ok {
			return c.Row()
		}
		c = p
	}

	if c.Value() == ":" {
		var moved cursor.Cursor
		if isAccessSpecifier(c.PeekBwd(1).Value()) {
			moved, ok = c.MoveToNextToken()
		} else {
			moved, ok = c.MoveToPreviousToken()
		}
		if ok {
			c = moved
		}
	}

	// Trailing qualifiers between the parameter list and the brace.
	for c.Type() == "keyword" || c.Value() == "&" || c.Value() == "&&" {
		p, ok := c.MoveToPreviousToken()
		if !ok {
			return c.Row()
		}
		c = p
	}
	if c.Value() == ")" {
		if c, ok = c.BwdToMatchingToken(); !ok {
			return -1
		}
		if before := c.PeekBwd(1); before.Value() == "noexcept" || before.Value() == "decltype" {
			if p, ok := before.MoveToPreviousToken(); ok && p.Value() == ")" {
				if c, ok = p.BwdToMatchingToken(); !ok {
					return -1
				}
			}
		}
	}
	if c.Value() == "(" {
		if c, ok = c.MoveToPreviousToken(); !ok {
			return -1
		}
	}
	if c.Value() == "=" {
		if p, ok := c.MoveToPreviousToken(); ok {
			return p.Row()
		}
	}
	return c.Row()
}

func isAccessSpecifier(v string) bool {
	return v == "public" || v == "private" || v == "protected"
}
