package dylib

import (
	"regexp"
	"strings"
)

const duplicateMarker = "duplicate symbol"

// memberRE matches the archive member at the end of a location line, as in
// "/path/librust_fetch.a(ring-1234.o)".
var memberRE = regexp.MustCompile(`\.a\((.+\.o)\)$`)

// Finding is one duplicate symbol reported by the linker together with the
// archive member holding one of its definitions.
type Finding struct {
	Symbol string
	Member string
}

// ParseDuplicates scans linker output for duplicate-symbol errors.
//
// The grammar is line based: a line starting with "duplicate symbol" is a
// marker, and the line right after it names the archive member as
// "<file>.a(<member>.o)" at end of line. Each marker whose next line
// matches yields one Finding; any other line is ignored.
func ParseDuplicates(output []byte) []Finding {
	lines := strings.Split(string(output), "\n")

	var findings []Finding
	for i, line := range lines {
		if !strings.HasPrefix(line, duplicateMarker) || i+1 >= len(lines) {
			continue
		}
		m := memberRE.FindStringSubmatch(strings.TrimRight(lines[i+1], " \t\r"))
		if m == nil {
			continue
		}
		findings = append(findings, Finding{Symbol: symbolName(line), Member: m[1]})
	}
	return findings
}

// symbolName pulls the symbol out of a marker line such as
// "duplicate symbol '_foo' in:" or "duplicate symbol _foo in:".
func symbolName(line string) string {
	name := strings.TrimSpace(strings.TrimPrefix(line, duplicateMarker))
	name = strings.TrimSuffix(name, "in:")
	return strings.Trim(strings.TrimSpace(name), `'"`)
}
