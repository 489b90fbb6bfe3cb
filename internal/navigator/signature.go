package navigator

import (
	"fmt"
	"strings"

	"codenav/internal/provider"
)

// formatSignature renders a display signature for a member. Each
// member category has its own rendering; an unrecognized category is
// an error rather than a best-effort fallback so new categories fail
// loudly instead of producing misleading output.
func formatSignature(m provider.Member) (string, error) {
	switch m.Kind() {
	case provider.KindMethod:
		var b strings.Builder
		b.WriteString(m.ReturnTypeName())
		b.WriteString(" ")
		b.WriteString(m.Name())
		b.WriteString("(")
		for i, p := range m.Parameters() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.TypeName)
			b.WriteString(" ")
			b.WriteString(p.Name)
		}
		b.WriteString(")")
		return b.String(), nil
	case provider.KindProperty:
		return fmt.Sprintf("%s %s { get; }", m.ReturnTypeName(), m.Name()), nil
	case provider.KindField:
		return fmt.Sprintf("%s %s", m.ReturnTypeName(), m.Name()), nil
	case provider.KindEvent:
		return fmt.Sprintf("event %s %s", m.ReturnTypeName(), m.Name()), nil
	case provider.KindNamedType:
		return m.Name(), nil
	default:
		return "", fmt.Errorf("unsupported member category %q for %s", m.Kind(), m.Name())
	}
}
