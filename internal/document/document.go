// Package document parses raw CSV submissions into an ordered header list and
// row records. Parsing is structural only: ragged rows are captured as-is and
// classified later by the validation engine, never dropped here.
package document

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Row is one data row of a submission.
type Row struct {
	// Number is the 1-based position in the raw file, counting the header
	// row as row 1. Blank lines advance the count without producing a Row.
	Number int

	// Fields holds the raw cell values in file order. The length may differ
	// from the header count; the engine reports that as a structural error.
	Fields []string
}

// Document is one parsed CSV submission.
type Document struct {
	// Headers are the column names exactly as found in the input.
	Headers []string

	// Rows are the data rows in file order.
	Rows []Row

	headerPos map[string]int
}

// HeaderPos returns the position of a header by exact, case-sensitive name.
// When a name repeats, the first occurrence wins.
func (d *Document) HeaderPos(name string) (int, bool) {
	pos, ok := d.headerPos[name]
	return pos, ok
}

// Cell returns the raw value of the named column in the given row.
// The second return is false when the column does not exist in the document
// or the row is too short to contain it.
func (d *Document) Cell(row Row, name string) (string, bool) {
	pos, ok := d.headerPos[name]
	if !ok || pos >= len(row.Fields) {
		return "", false
	}
	return row.Fields[pos], true
}

// Parse reads a CSV submission from r.
//
// The first non-empty line is the header row. Standard quoting applies:
// double-quote enclosure, embedded delimiters and newlines inside quotes,
// doubled quotes for literal quote characters. Stray quotes inside unquoted
// fields are kept as literal characters rather than failing the file.
// A UTF-8 BOM is stripped. Whitespace-only rows between data rows are
// skipped, but row numbering still reflects raw file position.
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReaderSize(skipBOM(r), 8192)

	if err := rejectBinary(br); err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1 // ragged rows are the engine's concern
	cr.LazyQuotes = true    // a stray quote in a cell is data, not a dead file

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Message: "no header row found", Err: ErrEmptyDocument}
	}
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Err: err}
	}

	doc := &Document{
		Headers:   headers,
		headerPos: make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		if _, dup := doc.headerPos[h]; !dup {
			doc.headerPos[h] = i
		}
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Message: err.Error(), Err: err}
		}

		line, _ := cr.FieldPos(0)
		if isWhitespaceLine(record) {
			continue
		}
		doc.Rows = append(doc.Rows, Row{Number: line, Fields: record})
	}

	return doc, nil
}

// ParseBytes parses an in-memory CSV submission.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// isWhitespaceLine reports whether a record came from a whitespace-only
// line. Fully blank lines never reach here (encoding/csv drops them), and a
// row of empty fields like ",," is real data for the engine to judge.
func isWhitespaceLine(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}

// rejectBinary peeks at the first chunk of input and fails on NUL bytes,
// the cheapest reliable signal that the file is not delimited text.
func rejectBinary(br *bufio.Reader) error {
	peek, err := br.Peek(8192)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return &ParseError{Message: err.Error(), Err: err}
	}
	if bytes.IndexByte(peek, 0x00) >= 0 {
		return &ParseError{Message: "content is not delimited text", Err: ErrBinaryContent}
	}
	return nil
}
