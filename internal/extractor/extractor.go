package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"structgrade/internal/structure"
)

// ErrParse marks source files the parser rejected. Callers distinguish it
// from other failures so that syntactically broken submissions degrade to a
// parse-error verdict instead of aborting a run.
var ErrParse = errors.New("syntax error")

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "java":
		langExt = &JavaExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// ExtractFromFile parses a single source file and returns the structure of
// its main type declaration.
func (e *Extractor) ExtractFromFile(filepath string) (structure.Value, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return structure.Value{}, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	v, err := e.ExtractSource(sourceCode)
	if err != nil {
		return structure.Value{}, fmt.Errorf("failed to extract %s: %w", filepath, err)
	}
	return v, nil
}

// ExtractSource parses in-memory source code. When a file declares several
// top-level types, the first public one is taken as the main type, falling
// back to the last declaration. A file with no type declarations yields an
// empty mapping.
func (e *Extractor) ExtractSource(sourceCode []byte) (structure.Value, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return structure.Value{}, fmt.Errorf("failed to parse source: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return structure.Value{}, ErrParse
	}

	types := e.langExtractor.ExtractTypes(root, sourceCode)
	if len(types) == 0 {
		return structure.NewMapping(), nil
	}

	main := types[len(types)-1]
	for _, t := range types {
		if t.Public {
			main = t
			break
		}
	}
	return main.Structure, nil
}
