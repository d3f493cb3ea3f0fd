package shtml

// The closed shtml: attribute vocabulary recognized by the extractor (§4.3).
// Anything else under the shtml:/ftml: prefix is ExtractionUnrecognizedAttribute.
const (
	attrSectionLevel   = "shtml:sectionlevel"
	attrInputref       = "shtml:inputref"
	attrDoctitle       = "shtml:doctitle"
	attrSection        = "shtml:section"
	attrSectiontitle   = "shtml:sectiontitle"
	attrVisible        = "shtml:visible"
	attrTheory         = "shtml:theory"
	attrLanguage       = "shtml:language"
	attrMetatheory     = "shtml:metatheory"
	attrSignature      = "shtml:signature"
	attrStructure      = "shtml:structure"
	attrMorphism       = "shtml:morphism"
	attrMorphismDomain = "shtml:domain"
	attrMorphismTarget = "shtml:morphismtarget"
	attrExtension      = "shtml:extension"
	attrExtensionOf    = "shtml:extensionof"
	attrSymdecl        = "shtml:symdecl"
	attrNotation       = "shtml:notation"
	attrDefiniendum    = "shtml:definiendum"
	attrDefines        = "shtml:defines"
	attrUses           = "shtml:uses"
	attrImports        = "shtml:imports"
	attrVarnotation    = "shtml:varnotation"
	attrTerm           = "shtml:term"
	attrHead           = "shtml:head"
	attrVariable       = "shtml:variable"

	attrDefinition = "shtml:definition"
	attrAssertion  = "shtml:assertion"
	attrParagraph  = "shtml:paragraph"
	attrProof      = "shtml:proof"
	attrSubproof   = "shtml:subproof"
	attrExample    = "shtml:example"
	attrProblem    = "shtml:problem"
	attrSubproblem = "shtml:subproblem"

	attrProblemPoints         = "shtml:problem-points"
	attrProblemAutogradableID = "shtml:problem-autogradable-id"
)

// recognizedAttrs is the membership set used to flag ExtractionUnrecognizedAttribute.
var recognizedAttrs = map[string]bool{
	attrSectionLevel: true, attrInputref: true, attrDoctitle: true, attrSection: true,
	attrSectiontitle: true, attrVisible: true, attrTheory: true, attrLanguage: true,
	attrMetatheory: true, attrSignature: true, attrStructure: true, attrMorphism: true,
	attrMorphismDomain: true, attrMorphismTarget: true, attrExtension: true, attrExtensionOf: true,
	attrSymdecl: true, attrNotation: true, attrDefiniendum: true, attrDefines: true,
	attrUses: true, attrImports: true, attrVarnotation: true, attrTerm: true, attrHead: true,
	attrVariable: true, attrDefinition: true, attrAssertion: true, attrParagraph: true,
	attrProof: true, attrSubproof: true, attrExample: true, attrProblem: true, attrSubproblem: true,
	attrProblemPoints: true, attrProblemAutogradableID: true,
}

func hasShtmlPrefix(key string) bool {
	return (len(key) > 6 && key[:6] == "shtml:") || (len(key) > 5 && key[:5] == "ftml:")
}

func splitList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' || s[i] == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
