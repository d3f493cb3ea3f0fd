package toolsurface

import "github.com/flexiformal/flams-core/internal/narrative"

// tocEntry is the nested section/paragraph/problem/slide shape §6's
// content/toc contract names.
type tocEntry struct {
	Kind     string     `json:"kind"`
	URI      string     `json:"uri,omitempty"`
	Title    string     `json:"title,omitempty"`
	Level    int        `json:"level,omitempty"`
	Children []tocEntry `json:"children,omitempty"`
}

// buildTOC walks a document's elements, keeping only the entries §6 calls
// out for a table of contents (sections, paragraphs, problems, slides) and
// recursing into whichever of those carry children. Elements with no entry
// of their own (module/morphism/reference/term nodes) are skipped, but still
// contribute their children if they are a Parenter.
func buildTOC(elements []narrative.DocumentElement) []tocEntry {
	var out []tocEntry
	for _, e := range elements {
		switch v := e.(type) {
		case narrative.Section:
			out = append(out, tocEntry{
				Kind: "section", URI: v.URI.String(), Title: v.TitleHTML,
				Level: v.Level, Children: buildTOC(v.Elements),
			})
		case narrative.Paragraph:
			out = append(out, tocEntry{
				Kind: paragraphKindName(v.Kind), URI: v.URI.String(),
				Children: buildTOC(v.Elements),
			})
		case narrative.Problem:
			out = append(out, tocEntry{Kind: "problem", URI: v.URI.String(), Children: buildTOC(v.Elements)})
		case narrative.Slide:
			out = append(out, tocEntry{Kind: "slide", URI: v.URI.String(), Children: buildTOC(v.Elements)})
		default:
			if p, ok := e.(narrative.Parenter); ok {
				out = append(out, buildTOC(p.Children())...)
			}
		}
	}
	return out
}

func paragraphKindName(k narrative.ParagraphKind) string {
	switch k {
	case narrative.ParagraphDefinition:
		return "definition"
	case narrative.ParagraphAssertion:
		return "assertion"
	case narrative.ParagraphProof:
		return "proof"
	case narrative.ParagraphSubproof:
		return "subproof"
	case narrative.ParagraphExample:
		return "example"
	default:
		return "paragraph"
	}
}
