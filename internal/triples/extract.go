package triples

import (
	"github.com/flexiformal/flams-core/internal/content"
	"github.com/flexiformal/flams-core/internal/narrative"
	"github.com/flexiformal/flams-core/internal/uri"
)

// QuadsForModule derives the ULO instance quads for one checked or unchecked
// module (C2), covering §4.7's DECLARES relation: the module is asserted a
// ulo:module, and every directly declared Symbol is asserted a declaration
// the module declares. Nested modules/structures are walked too, so a
// structure's own symbols are attributed to it rather than silently dropped.
func QuadsForModule[S content.CheckingState](mod content.Module[S]) []Quad {
	modNode := NamedNode(mod.URI.String())
	out := []Quad{{Subject: modNode, Predicate: rdfType, Object: ClassModule}}
	mod.Iter(func(e content.ContentElement) {
		switch v := e.(type) {
		case content.Symbol:
			symName, err := uri.NewName(v.Name)
			if err != nil {
				return
			}
			symURI := uri.NewSymbolURI(mod.URI, symName)
			symNode := NamedNode(symURI.String())
			out = append(out,
				Quad{Subject: symNode, Predicate: rdfType, Object: ClassDeclaration},
				Quad{Subject: modNode, Predicate: PropDeclares, Object: symNode},
			)
		}
	})
	return out
}

// QuadsForDocument derives the ULO instance quads for one narrative document
// (C2): the document is a ulo:file that ulo:specifies its embedded modules
// (§4.7's SPECIFIES/SPECIFIED_IN pair), ulo:contains its top-level sections,
// and ulo:defines the symbol a Definition paragraph's Definiendum targets.
// Notation elements are asserted as their own ulo:notation instance with a
// NOTATION_FOR edge to the symbol, matching C5's grounding query exactly
// (§4.7: "?x rdf:type ulo:NOTATION . ?x ulo:NOTATION_FOR <sym>"). A notation
// has no URI of its own in narrative.NotationElement, so one is synthesized
// from the document URI plus the symbol's leaf name — stable across repeated
// extraction of the same document, which is all Submit's atomic per-key
// replace requires.
func QuadsForDocument[S content.CheckingState](doc narrative.Document[S]) []Quad {
	docNode := NamedNode(doc.URI.String())
	out := []Quad{{Subject: docNode, Predicate: rdfType, Object: ClassDocument}}

	doc.Iter(func(e narrative.DocumentElement) {
		switch v := e.(type) {
		case narrative.ModuleElement:
			modNode := NamedNode(v.Module.String())
			out = append(out,
				Quad{Subject: docNode, Predicate: PropSpecifies, Object: modNode},
				Quad{Subject: modNode, Predicate: PropSpecifiedIn, Object: docNode},
			)
		case narrative.Section:
			secNode := NamedNode(v.URI.String())
			out = append(out,
				Quad{Subject: secNode, Predicate: rdfType, Object: ClassSection},
				Quad{Subject: docNode, Predicate: PropContains, Object: secNode},
			)
		case narrative.Paragraph:
			if v.Kind != narrative.ParagraphDefinition {
				return
			}
			paraNode := NamedNode(v.URI.String())
			out = append(out, Quad{Subject: paraNode, Predicate: rdfType, Object: ClassDefinition})
			for _, child := range v.Elements {
				if d, ok := child.(narrative.Definiendum); ok {
					symNode := NamedNode(d.Symbol.String())
					out = append(out, Quad{Subject: paraNode, Predicate: PropDefines, Object: symNode})
				}
			}
		case narrative.NotationElement:
			name, err := uri.NewName(uri.NameStep("notation-" + string(v.Symbol.Name().Leaf())))
			if err != nil {
				return
			}
			notationURI := uri.NewDocumentElementURI(doc.URI, name)
			notationNode := NamedNode(notationURI.String())
			symNode := NamedNode(v.Symbol.String())
			out = append(out,
				Quad{Subject: notationNode, Predicate: rdfType, Object: ClassNotation},
				Quad{Subject: notationNode, Predicate: PropNotationFor, Object: symNode},
			)
		}
	})
	return out
}
