package assessment

import "strings"

// RenderImprovements drops every entry whose text before the first ':' was
// already seen, keeping the first entry per prefix. An entry without a colon
// is its own prefix. A category name that itself contains ':' is not
// special-cased.
func RenderImprovements(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		prefix, _, _ := strings.Cut(it, ":")
		if _, dup := seen[prefix]; dup {
			continue
		}
		seen[prefix] = struct{}{}
		out = append(out, it)
	}
	return out
}

// View is a Report prepared for display.
type View struct {
	Report
	Improvements []string `json:"improvements"`
}

// ToView applies the display-time improvement filter.
func (r Report) ToView() View {
	return View{Report: r, Improvements: RenderImprovements(r.Improvements)}
}
