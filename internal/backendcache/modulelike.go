package backendcache

import "github.com/flexiformal/flams-core/internal/content"

// ModuleLike is get_module's result shape (§4.5): a ModuleURI may name a
// whole module, a nested sub-module reached by descending a parent's
// elements, or a math structure reached the same way.
type ModuleLike interface {
	isModuleLike()
}

type PlainModule struct {
	Module *content.Module[content.Checked]
}

func (PlainModule) isModuleLike() {}

type NestedModuleLike struct {
	Parent *content.Module[content.Checked]
	Child  content.NestedModule[content.Checked]
}

func (NestedModuleLike) isModuleLike() {}

type StructureLike struct {
	Parent *content.Module[content.Checked]
	Child  content.MathStructure[content.Checked]
}

func (StructureLike) isModuleLike() {}
