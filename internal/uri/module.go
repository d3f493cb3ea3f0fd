package uri

// ModuleURI = PathURI + "m=" Name + "l=" Language (§3.1).
type ModuleURI struct {
	path Path
	name Name
	lang Language
}

// Path is an alias kept local so this file reads naturally; PathURI is the exported name.
type Path = PathURI

func NewModuleURI(path PathURI, name Name, lang Language) ModuleURI {
	return ModuleURI{path: path, name: name, lang: lang}
}

func (m ModuleURI) Base() BaseURI    { return m.path.Base() }
func (m ModuleURI) Archive() ArchiveURI { return m.path.Archive() }
func (m ModuleURI) PathURI() PathURI { return m.path }
func (m ModuleURI) Name() Name       { return m.name }
func (m ModuleURI) Language() Language { return m.lang }
func (m ModuleURI) ModuleURI() ModuleURI { return m }

func (m ModuleURI) String() string {
	return m.path.String() + "&m=" + escapeComponent(m.name.String()) + "&l=" + m.lang.String()
}

func (m ModuleURI) Equal(o ModuleURI) bool {
	return m.path.Equal(o.path) && m.name.Equal(o.name) && m.lang == o.lang
}

func (m ModuleURI) isURI() {}

// SymbolURI = ModuleURI + "s=" Name (§3.1).
type SymbolURI struct {
	module ModuleURI
	name   Name
}

func NewSymbolURI(module ModuleURI, name Name) SymbolURI {
	return SymbolURI{module: module, name: name}
}

func (s SymbolURI) Base() BaseURI       { return s.module.Base() }
func (s SymbolURI) Module() ModuleURI   { return s.module }
func (s SymbolURI) Name() Name          { return s.name }
func (s SymbolURI) SymbolURI() SymbolURI { return s }

func (s SymbolURI) String() string {
	return s.module.String() + "&s=" + escapeComponent(s.name.String())
}

func (s SymbolURI) Equal(o SymbolURI) bool {
	return s.module.Equal(o.module) && s.name.Equal(o.name)
}

func (s SymbolURI) isURI() {}

// ContentURI is the sum ModuleURI | SymbolURI (§3.1).
type ContentURI interface {
	URI
	isContentURI()
}

func (m ModuleURI) isContentURI() {}
func (s SymbolURI) isContentURI() {}
