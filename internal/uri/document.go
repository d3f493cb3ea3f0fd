package uri

// DocumentURI = PathURI + "d=" Name + "l=" Language (§3.1).
type DocumentURI struct {
	path Path
	name Name
	lang Language
}

func NewDocumentURI(path PathURI, name Name, lang Language) DocumentURI {
	return DocumentURI{path: path, name: name, lang: lang}
}

func (d DocumentURI) Base() BaseURI        { return d.path.Base() }
func (d DocumentURI) Archive() ArchiveURI  { return d.path.Archive() }
func (d DocumentURI) PathURI() PathURI     { return d.path }
func (d DocumentURI) Name() Name           { return d.name }
func (d DocumentURI) Language() Language   { return d.lang }
func (d DocumentURI) DocumentURI() DocumentURI { return d }

func (d DocumentURI) String() string {
	return d.path.String() + "&d=" + escapeComponent(d.name.String()) + "&l=" + d.lang.String()
}

func (d DocumentURI) Equal(o DocumentURI) bool {
	return d.path.Equal(o.path) && d.name.Equal(o.name) && d.lang == o.lang
}

func (d DocumentURI) isURI() {}

// DocumentElementURI = DocumentURI + "e=" Name (§3.1).
type DocumentElementURI struct {
	document DocumentURI
	name     Name
}

func NewDocumentElementURI(document DocumentURI, name Name) DocumentElementURI {
	return DocumentElementURI{document: document, name: name}
}

func (e DocumentElementURI) Base() BaseURI         { return e.document.Base() }
func (e DocumentElementURI) Document() DocumentURI { return e.document }
func (e DocumentElementURI) Name() Name            { return e.name }
func (e DocumentElementURI) DocumentElementURI() DocumentElementURI { return e }

func (e DocumentElementURI) String() string {
	return e.document.String() + "&e=" + escapeComponent(e.name.String())
}

func (e DocumentElementURI) Equal(o DocumentElementURI) bool {
	return e.document.Equal(o.document) && e.name.Equal(o.name)
}

func (e DocumentElementURI) isURI() {}

// NarrativeURI is the sum DocumentURI | DocumentElementURI (§3.1).
type NarrativeURI interface {
	URI
	isNarrativeURI()
}

func (d DocumentURI) isNarrativeURI()        {}
func (e DocumentElementURI) isNarrativeURI() {}
