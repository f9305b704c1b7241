package tablescan

import (
	"bufio"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"
	"strings"

	"rpccheck/internal/textutil"
)

// CommandRow is one dispatch-table row: a command name plus, per positional
// argument, the accepted alias spellings for that position.
type CommandRow struct {
	Name string
	Args [][]string
}

// ConversionRow is one conversion-table row: this command's argument at this
// position, when spelled with this alias, is converted from text to a typed
// value before dispatch.
type ConversionRow struct {
	Command string
	Index   int
	Alias   string
}

// GrammarError reports a line that the table grammar could not account for.
// It is always fatal: a data-looking line that fails the row pattern means
// the grammar itself has gone stale, and skipping it would hide regressions.
type GrammarError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *GrammarError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, textutil.Truncate(e.Text, 120))
}

// dispatchStartPattern matches the declaration line of a dispatch table.
var dispatchStartPattern = regexp.MustCompile(`^static const ContextFreeRPCCommand .*\[\] =`)

// dispatchRowPattern captures category, command name, actor, and the
// brace-enclosed argument list of one dispatch-table row.
var dispatchRowPattern = regexp.MustCompile(`\{ *("[^"]*"), *("[^"]*"), *([^,]*), *\{([^}]*)\} *\},`)

// conversionStartLine is the exact declaration line of the conversion table.
const conversionStartLine = "static const CRPCConvertParam vRPCConvertParams[] = {"

// conversionRowPattern captures command name, positional index, and argument
// alias of one conversion-table row.
var conversionRowPattern = regexp.MustCompile(`\{ *("[^"]*"), *([0-9]+) *, *("[^"]*") *\},`)

const tableEndPrefix = "};"

// rawRow is a matched data line with enough position info for diagnostics.
type rawRow struct {
	line   int
	text   string
	fields []string
}

// looksLikeRow reports whether a line carries the punctuation that makes it
// a data row. Lines inside a table without it (blanks, comments) are noise.
func looksLikeRow(line string) bool {
	return strings.Contains(line, "{") && strings.Contains(line, `"`)
}

// scanTable runs the two-state line scanner over one file, collecting the
// submatches of every data row in every table region the file declares.
func scanTable(fsys fs.FS, path string, start func(string) bool, row *regexp.Regexp) ([]rawRow, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table source: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var rows []rawRow
	lineNum := 0
	inTable := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if !inTable {
			if start(line) {
				inTable = true
			}
			continue
		}

		if strings.HasPrefix(line, tableEndPrefix) {
			inTable = false
			continue
		}
		if !looksLikeRow(line) {
			continue
		}

		m := row.FindStringSubmatch(line)
		if m == nil {
			return nil, &GrammarError{Path: path, Line: lineNum, Text: line, Reason: "no match to table expression"}
		}
		rows = append(rows, rawRow{line: lineNum, text: line, fields: m[1:]})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan table source: %w", err)
	}
	if inTable {
		return nil, &GrammarError{Path: path, Reason: "table not closed before end of file"}
	}

	return rows, nil
}

// ExtractCommands parses every dispatch table in the file at path.
func ExtractCommands(fsys fs.FS, path string) ([]CommandRow, error) {
	rows, err := scanTable(fsys, path, dispatchStartPattern.MatchString, dispatchRowPattern)
	if err != nil {
		return nil, err
	}

	cmds := make([]CommandRow, 0, len(rows))
	for _, r := range rows {
		name, err := unquote(r.fields[1])
		if err != nil {
			return nil, &GrammarError{Path: path, Line: r.line, Text: r.text, Reason: err.Error()}
		}

		var args [][]string
		if argsStr := strings.TrimSpace(r.fields[3]); argsStr != "" {
			for _, field := range strings.Split(argsStr, ",") {
				aliases, err := unquote(strings.TrimSpace(field))
				if err != nil {
					return nil, &GrammarError{Path: path, Line: r.line, Text: r.text, Reason: err.Error()}
				}
				args = append(args, strings.Split(aliases, "|"))
			}
		}

		cmds = append(cmds, CommandRow{Name: name, Args: args})
	}
	return cmds, nil
}

// ExtractConversions parses the conversion table in the file at path. A file
// that yields no rows is fatal: the start-marker match has gone stale.
func ExtractConversions(fsys fs.FS, path string) ([]ConversionRow, error) {
	start := func(line string) bool { return line == conversionStartLine }
	rows, err := scanTable(fsys, path, start, conversionRowPattern)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &GrammarError{Path: path, Reason: "no conversion table rows found"}
	}

	convs := make([]ConversionRow, 0, len(rows))
	for _, r := range rows {
		cmd, err := unquote(r.fields[0])
		if err != nil {
			return nil, &GrammarError{Path: path, Line: r.line, Text: r.text, Reason: err.Error()}
		}
		idx, err := strconv.Atoi(r.fields[1])
		if err != nil {
			return nil, &GrammarError{Path: path, Line: r.line, Text: r.text, Reason: "bad index: " + err.Error()}
		}
		alias, err := unquote(r.fields[2])
		if err != nil {
			return nil, &GrammarError{Path: path, Line: r.line, Text: r.text, Reason: err.Error()}
		}
		convs = append(convs, ConversionRow{Command: cmd, Index: idx, Alias: alias})
	}
	return convs, nil
}

// unquote strips exactly one pair of surrounding double quotes.
func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("field is not a quoted string: %s", s)
	}
	return s[1 : len(s)-1], nil
}
