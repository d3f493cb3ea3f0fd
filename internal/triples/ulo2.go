package triples

// ulo2.go transcribes the fixed ULO (Upper Library Ontology) vocabulary from
// the original Rust `ontology::rdf` module's `dict! { ulo2 = ... }` block
// (original_source/core/src/ontology/rdf.rs): class and property IRIs under
// the "http://mathhub.info/ulo" namespace, plus the static axiom quads that
// describe them (rdf:type, rdfs:subClassOf, rdfs:domain/range,
// owl:inverseOf/disjointWith/SymmetricProperty/TransitiveProperty). §6 calls
// this vocabulary fixed; nothing in C7 ever mints a new class or property at
// runtime, only document-derived instance quads.

const (
	nsRDF  NamedNode = "http://www.w3.org/1999/02/22-rdf-syntax-ns"
	nsRDFS NamedNode = "http://www.w3.org/2000/01/rdf-schema"
	nsOWL  NamedNode = "http://www.w3.org/2002/07/owl"
	nsULO2 NamedNode = "http://mathhub.info/ulo"
)

var (
	rdfType = nsRDF + "#type"

	rdfsComment      = nsRDFS + "#comment"
	rdfsSubClassOf   = nsRDFS + "#subClassOf"
	rdfsSubPropertyOf = nsRDFS + "#subPropertyOf"
	rdfsDomain       = nsRDFS + "#domain"
	rdfsRange        = nsRDFS + "#range"

	owlClass             = nsOWL + "#Class"
	owlObjectProperty     = nsOWL + "#ObjectProperty"
	owlDatatypeProperty    = nsOWL + "#DatatypeProperty"
	owlInverseOf          = nsOWL + "#inverseOf"
	owlDisjointWith        = nsOWL + "#disjointWith"
	owlSymmetricProperty   = nsOWL + "#SymmetricProperty"
	owlTransitiveProperty  = nsOWL + "#TransitiveProperty"
	owlFunctionalProperty  = nsOWL + "#FunctionalProperty"
)

func ulo(local string) NamedNode { return nsULO2 + "#" + NamedNode(local) }

// Vocabulary classes (§6 "RDF vocabulary": Physical, File, Folder, Library,
// LibraryGroup, Para, Phrase, Section, Definition, Example, Proof,
// Proposition, Logical, Primitive, Derived, Theory, Declaration, Statement,
// Axiom, Theorem, FunctionDecl, Function, TypeDecl, Type, UniverseDecl,
// Universe, Predicate, Rule, Document, Module).
var (
	ClassPhysical     = ulo("physical")
	ClassFile         = ulo("file")
	ClassFolder       = ulo("folder")
	ClassLibrary      = ulo("library")
	ClassLibraryGroup = ulo("library-group")
	ClassPara         = ulo("para")
	ClassPhrase       = ulo("phrase")
	ClassSection      = ulo("section")
	ClassDefinition   = ulo("definition")
	ClassExample      = ulo("example")
	ClassProof        = ulo("proof")
	ClassProposition  = ulo("proposition")

	ClassLogical      = ulo("logical")
	ClassPrimitive    = ulo("primitive")
	ClassDerived      = ulo("derived")
	ClassTheory       = ulo("theory")
	ClassDeclaration  = ulo("declaration")
	ClassStatement    = ulo("statement")
	ClassAxiom        = ulo("axiom")
	ClassTheorem      = ulo("theorem")
	ClassFunctionDecl = ulo("function-declaration")
	ClassFunction     = ulo("function")
	ClassTypeDecl     = ulo("type-declaration")
	ClassType         = ulo("type")
	ClassUniverseDecl = ulo("universe-declaration")
	ClassUniverse     = ulo("universe")
	ClassPredicate    = ulo("predicate")
	ClassRule         = ulo("rule")

	// Document and Module are named in spec.md §6 alongside the rest of the
	// class list but have no direct counterpart in the transcribed dict! —
	// the original ontology folds a "document" under File/Section instead.
	// Kept as distinct URIs, Document subclassed under File and Module under
	// Theory, so C5/C7 callers that submit Document/Module-typed quads (one per
	// indexed document/module, per §6) have a stable class IRI to assert
	// against.
	ClassDocument = ulo("document")
	ClassModule   = ulo("module")
)

// Vocabulary properties (§6's list: contains, declares, specifies,
// specified-in, crossrefs, aligned-with, alternative-for, inspired-by,
// same-as, see-also, similar-to, inter-statement, constructs, example-for,
// counter-example-for, defines, generated-by, inductive-on, justifies, nyms,
// antonym, hyponym, hypernym, formalizes, uses, instance-of, superseded-by,
// notation-for).
var (
	PropContains    = ulo("contains")
	PropDeclares    = ulo("declares")
	PropSpecifies   = ulo("specifies")
	PropSpecifiedIn = ulo("specified-in")

	PropCrossrefs       = ulo("crossrefs")
	PropAlignedWith     = ulo("aligned-with")
	PropAlternativeFor  = ulo("alternative-for")
	PropInspiredBy      = ulo("inspired-by")
	PropSameAs          = ulo("same-as")
	PropSeeAlso         = ulo("see-also")
	PropSimilarTo       = ulo("similar-to")

	PropInterStatement    = ulo("inter-statement")
	PropConstructs        = ulo("constructs")
	PropExampleFor        = ulo("example-for")
	PropCounterExampleFor = ulo("counter-example-for")
	PropDefines           = ulo("defines")
	PropGeneratedBy       = ulo("generated-by")
	PropInductiveOn       = ulo("inductive-on")
	PropJustifies         = ulo("justifies")

	PropNyms     = ulo("nyms")
	PropAntonym  = ulo("antonym")
	PropHyponym  = ulo("hyponym")
	PropHypernym = ulo("hypernym")

	PropFormalizes   = ulo("formalizes")
	PropUses         = ulo("uses")
	PropInstanceOf   = ulo("instance-of")
	PropSupersededBy = ulo("superseded-by")

	// NotationFor and its companion class are used directly by C5's
	// grounding query (§4.7): "notations for a symbol are retrieved by a
	// two-triple query (?x rdf:type ulo:NOTATION . ?x ulo:NOTATION_FOR
	// <sym>)". The original vocabulary doesn't enumerate a NOTATION class in
	// the transcribed excerpt above, but spec.md §4.7 requires it, so it is
	// added here under Phrase (a notation is a phrasal rendering of a
	// symbol) to keep the vocabulary self-consistent.
	ClassNotation  = ulo("notation")
	PropNotationFor = ulo("notation-for")
)

// classAxioms is the static rdf:type/subClassOf/comment closure over the
// class hierarchy above, submitted once at Index construction under the
// vocabulary's own graph key so `query` can answer "what supertypes does
// ulo:theorem have" the same way it answers document-derived questions.
var classAxioms = buildClassAxioms()

func buildClassAxioms() []Quad {
	type classDef struct {
		iri   NamedNode
		super []NamedNode
	}
	defs := []classDef{
		{ClassPhysical, nil},
		{ClassFile, []NamedNode{ClassPhysical}},
		{ClassFolder, []NamedNode{ClassPhysical}},
		{ClassLibrary, []NamedNode{ClassPhysical}},
		{ClassLibraryGroup, []NamedNode{ClassPhysical}},
		{ClassPara, []NamedNode{ClassPhysical}},
		{ClassPhrase, []NamedNode{ClassPhysical}},
		{ClassSection, []NamedNode{ClassPhysical}},
		{ClassDefinition, []NamedNode{ClassPara}},
		{ClassExample, []NamedNode{ClassPara}},
		{ClassProof, []NamedNode{ClassPara}},
		{ClassProposition, []NamedNode{ClassPara}},
		{ClassNotation, []NamedNode{ClassPhrase}},

		{ClassLogical, nil},
		{ClassPrimitive, []NamedNode{ClassLogical}},
		{ClassDerived, []NamedNode{ClassLogical}},
		{ClassTheory, []NamedNode{ClassLogical}},
		{ClassDeclaration, []NamedNode{ClassLogical}},
		{ClassStatement, []NamedNode{ClassDeclaration}},
		{ClassAxiom, []NamedNode{ClassStatement}},
		{ClassTheorem, []NamedNode{ClassStatement}},
		{ClassFunction, []NamedNode{ClassLogical}},
		{ClassFunctionDecl, []NamedNode{ClassDeclaration, ClassFunction}},
		{ClassType, []NamedNode{ClassLogical}},
		{ClassTypeDecl, []NamedNode{ClassDeclaration, ClassType}},
		{ClassUniverse, []NamedNode{ClassLogical}},
		{ClassUniverseDecl, []NamedNode{ClassDeclaration, ClassUniverse}},
		{ClassPredicate, []NamedNode{ClassFunction}},
		{ClassRule, []NamedNode{ClassStatement}},

		{ClassDocument, []NamedNode{ClassFile}},
		{ClassModule, []NamedNode{ClassTheory}},
	}
	var out []Quad
	for _, d := range defs {
		out = append(out, Quad{Subject: d.iri, Predicate: rdfType, Object: owlClass})
		for _, s := range d.super {
			out = append(out, Quad{Subject: d.iri, Predicate: rdfsSubClassOf, Object: s})
		}
	}

	type propDef struct {
		iri       NamedNode
		super     []NamedNode
		domain    NamedNode
		ranges    []NamedNode // USES's dual range open question: emit one triple per entry
		inverseOf NamedNode
		symmetric bool
		transitive bool
	}
	props := []propDef{
		{iri: PropContains, domain: ClassPhysical, ranges: []NamedNode{ClassPhysical}},
		{iri: PropDeclares, domain: ClassLogical, ranges: []NamedNode{ClassLogical}},
		{iri: PropSpecifies, domain: ClassPhysical, ranges: []NamedNode{ClassLogical}, inverseOf: PropSpecifiedIn},
		{iri: PropSpecifiedIn, domain: ClassLogical, ranges: []NamedNode{ClassPhysical}, inverseOf: PropSpecifies},
		{iri: PropCrossrefs},
		{iri: PropAlignedWith, super: []NamedNode{PropCrossrefs}, symmetric: true},
		{iri: PropAlternativeFor, super: []NamedNode{PropCrossrefs}},
		{iri: PropInspiredBy, super: []NamedNode{PropCrossrefs}},
		{iri: PropSameAs, super: []NamedNode{PropCrossrefs}, symmetric: true},
		{iri: PropSeeAlso, super: []NamedNode{PropCrossrefs}},
		{iri: PropSimilarTo, super: []NamedNode{PropCrossrefs}, symmetric: true},
		{iri: PropInterStatement},
		{iri: PropConstructs, super: []NamedNode{PropInterStatement}},
		{iri: PropExampleFor, super: []NamedNode{PropInterStatement}},
		{iri: PropCounterExampleFor, super: []NamedNode{PropInterStatement}},
		{iri: PropDefines, super: []NamedNode{PropInterStatement}, domain: ClassDefinition, ranges: []NamedNode{ClassFunction}},
		{iri: PropGeneratedBy, super: []NamedNode{PropInterStatement}, domain: ClassFunction, ranges: []NamedNode{ClassFunction}},
		{iri: PropInductiveOn, super: []NamedNode{PropInterStatement}},
		{iri: PropJustifies, super: []NamedNode{PropInterStatement}},
		{iri: PropNyms},
		{iri: PropAntonym, super: []NamedNode{PropNyms}},
		{iri: PropHyponym, super: []NamedNode{PropNyms}},
		{iri: PropHypernym, super: []NamedNode{PropNyms}, inverseOf: PropHyponym},
		{iri: PropFormalizes},
		// USES's dual range: the original ontology declares both FUNCTION (as
		// the OBJPROP's stated range) and TYPE (as a separately asserted
		// rdfs:range triple) — both are kept, and `submit` never rejects a
		// `uses` quad whose object resolves to either kind (see Index.Submit).
		{iri: PropUses, domain: ClassStatement, ranges: []NamedNode{ClassFunction, ClassType}, transitive: true},
		{iri: PropInstanceOf},
		{iri: PropSupersededBy, transitive: true},
		{iri: PropNotationFor, domain: ClassNotation, ranges: []NamedNode{ClassLogical}},
	}
	for _, p := range props {
		out = append(out, Quad{Subject: p.iri, Predicate: rdfType, Object: owlObjectProperty})
		for _, s := range p.super {
			out = append(out, Quad{Subject: p.iri, Predicate: rdfsSubPropertyOf, Object: s})
		}
		if p.domain != "" {
			out = append(out, Quad{Subject: p.iri, Predicate: rdfsDomain, Object: p.domain})
		}
		for _, r := range p.ranges {
			out = append(out, Quad{Subject: p.iri, Predicate: rdfsRange, Object: r})
		}
		if p.inverseOf != "" {
			out = append(out, Quad{Subject: p.iri, Predicate: owlInverseOf, Object: p.inverseOf})
		}
		if p.symmetric {
			out = append(out, Quad{Subject: p.iri, Predicate: rdfType, Object: owlSymmetricProperty})
		}
		if p.transitive {
			out = append(out, Quad{Subject: p.iri, Predicate: rdfType, Object: owlTransitiveProperty})
		}
	}
	return out
}
