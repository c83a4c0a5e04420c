package documents

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractText converts a document file into plain text suitable for chunking
// and embedding. Markdown is parsed and stripped of formatting; plain text
// passes through. Unknown extensions are rejected.
func ExtractText(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: not valid UTF-8 text", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown", ".mdx":
		return markdownText(data), nil
	case ".txt", ".text", "", ".rst", ".adoc":
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("%s: unsupported file type", filename)
	}
}

// markdownText walks the markdown AST and collects the readable text,
// dropping link targets, emphasis markers and other syntax. Code block
// contents are kept since they often carry the substance of technical docs.
func markdownText(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			// Separate block-level elements so headings and paragraphs
			// do not run together.
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteString("\n")
			}
		case *ast.FencedCodeBlock:
			writeCodeLines(&buf, node.Lines(), source)
		case *ast.CodeBlock:
			writeCodeLines(&buf, node.Lines(), source)
		case *ast.AutoLink:
			buf.Write(node.URL(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

func writeCodeLines(buf *bytes.Buffer, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}
