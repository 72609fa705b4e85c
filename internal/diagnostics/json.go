package diagnostics

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ManifestJSON renders a diagnostics batch as a JSON document, for the
// CLI's `--json` flag. Built incrementally with sjson rather than marshaled
// from a struct: diagnostics are heterogeneous enough (Hint is optional,
// Source varies per invocation) that an ad hoc document assembled field by
// field is a better fit than a fixed `encoding/json` shape, matching this
// stack's habit of reaching for gjson/sjson wherever the JSON in
// play is semi-structured rather than a stable wire type.
func ManifestJSON(source string, diags []Diagnostic) (string, error) {
	doc := "{}"
	var err error
	doc, err = sjson.Set(doc, "source", source)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "errorCount", countSeverity(diags, Error))
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "warningCount", countSeverity(diags, Warning))
	if err != nil {
		return "", err
	}

	for i, d := range Sort(diags) {
		path := "diagnostics." + strconv.Itoa(i)
		doc, err = sjson.Set(doc, path+".severity", d.Severity.String())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, path+".message", d.Message)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, path+".line", d.Range.Line)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, path+".column", d.Range.Column)
		if err != nil {
			return "", err
		}
		if d.Hint != "" {
			doc, err = sjson.Set(doc, path+".hint", d.Hint)
			if err != nil {
				return "", err
			}
		}
	}
	return doc, nil
}

// Sort is the package-level entry point ManifestJSON uses to order
// diagnostics; it delegates to the Sink's own ordering so CLI JSON output
// and human-readable output never disagree on order.
func Sort(diags []Diagnostic) []Diagnostic {
	s := &Sink{diags: append([]Diagnostic(nil), diags...)}
	return s.Sorted()
}

func countSeverity(diags []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// ErrorCountFromManifest extracts the top-level error count back out of a
// manifest previously built by ManifestJSON, using gjson rather than
// unmarshaling into a struct -- the CLI only ever needs this one field back
// out when deciding its exit code after a round trip through a cached
// manifest file.
func ErrorCountFromManifest(doc string) int {
	return int(gjson.Get(doc, "errorCount").Int())
}
