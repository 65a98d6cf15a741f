package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"

	"structgrade/internal/structure"
)

// TypeInfo is one top-level type declaration found in a source file.
type TypeInfo struct {
	Name      string
	Public    bool
	Structure structure.Value
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	ExtractTypes(root *sitter.Node, source []byte) []TypeInfo
}
