package printing

import "golang.org/x/text/language"

// BlockKind selects how a Block is laid out
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockFields    BlockKind = "fields"
	BlockTable     BlockKind = "table"
	BlockParagraph BlockKind = "paragraph"
	BlockTotals    BlockKind = "totals"
)

// Document is the renderer input: display strings only, already localized
type Document struct {
	Title     string
	Language  language.Tag
	Accent    string // CSS color used for headings and rules
	LogoURL   string
	Watermark string
	Blocks    []Block
}

// Field is one label/value line
type Field struct {
	Label string
	Value string
}

// Column is a table header; numeric columns are right aligned
type Column struct {
	Label   string
	Numeric bool
}

// Table is a header row plus data rows of the same width
type Table struct {
	Columns []Column
	Rows    [][]string
}

// Block is one section of a document. Only the fields relevant to Kind are used.
type Block struct {
	Kind   BlockKind
	Text   string
	Fields []Field
	Table  *Table
}

// Heading returns a heading block
func Heading(text string) Block {
	return Block{Kind: BlockHeading, Text: text}
}

// Paragraph returns a free text block
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// Fields returns a label/value block; empty values are dropped
func Fields(fields ...Field) Block {
	kept := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Value != "" {
			kept = append(kept, f)
		}
	}
	return Block{Kind: BlockFields, Fields: kept}
}

// Totals returns a right-aligned summary block
func Totals(fields ...Field) Block {
	return Block{Kind: BlockTotals, Fields: fields}
}

// TableBlock returns a table block
func TableBlock(columns []Column, rows [][]string) Block {
	return Block{Kind: BlockTable, Table: &Table{Columns: columns, Rows: rows}}
}
