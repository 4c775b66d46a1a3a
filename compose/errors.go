package compose

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"winrtgen/metadata"
)

// ErrUnsupportedShape reports metadata the projection cannot express:
// accessor names shorter than their prefix, enums without a representation
// field, delegates without an invocation method, missing or malformed
// identifier attributes, or factory markers without a factory type.
var ErrUnsupportedShape = errors.New("unsupported metadata shape")

// ErrExcludedLeak reports a declaration inside a generated namespace whose
// shape depends on namespaces outside the generation set. Struct fields,
// delegate invocations and primary interface methods must be fully
// representable; eliding them would silently change layouts and vtables.
var ErrExcludedLeak = errors.New("excluded namespace leaks into projection")

// leakError builds an ErrExcludedLeak for subject, hinting at the excluded
// namespaces the given signatures reach.
func (e *Engine) leakError(subject string, sigs ...metadata.Sig) error {
	set := make(map[string]struct{})
	for _, s := range sigs {
		e.collectExcluded(s, set)
	}
	names := make([]string, 0, len(set))
	for ns := range set {
		names = append(names, ns)
	}
	sort.Strings(names)

	err := errors.Wrapf(ErrExcludedLeak, "%s depends on excluded namespaces", subject)
	if len(names) > 0 {
		err = errors.WithHintf(err, "add %s to the namespace set", strings.Join(names, ", "))
	}
	return err
}

// methodSigs flattens a method's parameter and return signatures for leak
// reporting.
func methodSigs(m *metadata.Method) []metadata.Sig {
	sigs := make([]metadata.Sig, 0, len(m.Params)+1)
	for i := range m.Params {
		sigs = append(sigs, m.Params[i].Sig)
	}
	if m.Return != nil {
		sigs = append(sigs, m.Return.Sig)
	}
	return sigs
}

func (e *Engine) collectExcluded(s metadata.Sig, out map[string]struct{}) {
	switch s.Kind {
	case metadata.SigType:
		if t := e.store.Type(s.Def); t != nil && e.excludedNamespace(t.Namespace) {
			out[t.Namespace] = struct{}{}
		}
	case metadata.SigGeneric:
		if t := e.store.Type(s.Def); t != nil && e.excludedNamespace(t.Namespace) {
			out[t.Namespace] = struct{}{}
		}
		for _, a := range s.Args {
			e.collectExcluded(a, out)
		}
	}
}
