package check

import (
	"fmt"
	"slices"
	"strings"

	"rpccheck/internal/convset"
	"rpccheck/internal/registry"
)

// Severity classifies a finding. Errors drive the exit status, warnings are
// advisory only.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// Finding is one inconsistency detected between the two tables.
type Finding struct {
	Severity Severity
	Rule     int
	Message  string
}

func (f Finding) String() string {
	return f.Severity.String() + ": " + f.Message
}

// Report collects every finding of one run, rule-major in encounter order.
type Report struct {
	Findings []Finding

	errors   int
	warnings int
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
	if f.Severity == SeverityError {
		r.errors++
	} else {
		r.warnings++
	}
}

func (r *Report) errorf(rule int, format string, args ...any) {
	r.add(Finding{Severity: SeverityError, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(rule int, format string, args ...any) {
	r.add(Finding{Severity: SeverityWarning, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the number of error findings.
func (r *Report) Errors() int { return r.errors }

// Warnings returns the number of warning findings.
func (r *Report) Warnings() int { return r.warnings }

// Checker cross-references a command registry against a conversion set.
type Checker struct {
	ignore map[string]struct{}
}

// New builds a Checker. Aliases in ignore are exempt from cross-command
// naming warnings.
func New(ignore []string) *Checker {
	c := &Checker{ignore: make(map[string]struct{}, len(ignore))}
	for _, name := range ignore {
		c.ignore[name] = struct{}{}
	}
	return c
}

// Check runs all three consistency rules and returns the collected findings.
// No rule short-circuits: a single run surfaces every inconsistency.
func (c *Checker) Check(reg *registry.Registry, set *convset.Set) *Report {
	report := &Report{}
	c.checkMapping(report, reg, set)
	c.checkConversionConflicts(report, reg, set)
	c.checkNamingConsistency(report, reg)
	return report
}

// checkMapping (rule 1) verifies that every conversion entry resolves to a
// declared argument and agrees with its alias set.
func (c *Checker) checkMapping(report *Report, reg *registry.Registry, set *convset.Set) {
	for _, e := range set.Entries() {
		arg, err := reg.LookupArgument(e.Command, e.Index)
		if err != nil {
			report.errorf(1, "%s argument %d (named %s in vRPCConvertParams) is not defined in dispatch table",
				e.Command, e.Index, e.Alias)
			continue
		}
		if !slices.Contains(arg.Names, e.Alias) {
			report.errorf(1, "%s argument %d is named %s in vRPCConvertParams but %v in dispatch table",
				e.Command, e.Index, e.Alias, arg.Names)
		}
	}
}

// checkConversionConflicts (rule 2) verifies that the aliases of one argument
// agree on conversion: all listed in the table, or none. Anything in between
// means conversion depends on which spelling the caller used. As a side
// effect it derives every argument's Convert flag.
func (c *Checker) checkConversionConflicts(report *Report, reg *registry.Registry, set *convset.Set) {
	for _, cmd := range reg.Commands() {
		for _, arg := range cmd.Args {
			flags := make([]bool, len(arg.Names))
			for i, name := range arg.Names {
				flags[i] = set.Contains(convset.Entry{Command: cmd.Name, Index: arg.Index, Alias: name})
			}

			all := !slices.Contains(flags, false)
			some := slices.Contains(flags, true)
			if some != all {
				report.errorf(2, "%s argument %v has conflicts in vRPCConvertParams conversion specifier %v",
					cmd.Name, arg.Names, flags)
			}
			arg.Convert = all
		}
	}
}

// checkNamingConsistency (rule 3) groups arguments system-wide by alias and
// warns when the same alias converts on some commands but not others.
// Advisory only: like-named arguments on unrelated commands are not required
// to agree, but agreement keeps the API predictable.
func (c *Checker) checkNamingConsistency(report *Report, reg *registry.Registry) {
	type use struct {
		command string
		convert bool
	}

	uses := make(map[string][]use)
	var aliases []string

	for _, cmd := range reg.Commands() {
		for _, arg := range cmd.Args {
			for _, name := range arg.Names {
				if _, ok := uses[name]; !ok {
					aliases = append(aliases, name)
				}
				uses[name] = append(uses[name], use{command: cmd.Name, convert: arg.Convert})
			}
		}
	}

	for _, name := range aliases {
		group := uses[name]
		mixed := false
		for _, u := range group[1:] {
			if u.convert != group[0].convert {
				mixed = true
				break
			}
		}
		if !mixed {
			continue
		}
		if _, ok := c.ignore[name]; ok {
			continue
		}

		parts := make([]string, len(group))
		for i, u := range group {
			parts[i] = fmt.Sprintf("%s:%t", u.command, u.convert)
		}
		report.warnf(3, "conversion mismatch for argument named %s ([%s])",
			name, strings.Join(parts, " "))
	}
}
