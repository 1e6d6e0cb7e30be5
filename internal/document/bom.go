package document

import (
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkippingReader removes a UTF-8 byte order mark from the start of the
// stream. Windows spreadsheet exports routinely prepend one, which would
// otherwise corrupt the first header name.
type bomSkippingReader struct {
	reader  io.Reader
	checked bool
}

// skipBOM wraps r so the first read drops a leading UTF-8 BOM if present.
func skipBOM(r io.Reader) io.Reader {
	return &bomSkippingReader{reader: r}
}

func (b *bomSkippingReader) Read(p []byte) (int, error) {
	if b.checked {
		return b.reader.Read(p)
	}
	b.checked = true

	head := make([]byte, len(utf8BOM))
	n, err := io.ReadFull(b.reader, head)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return copy(p, head[:n]), io.EOF
	}
	if err != nil {
		return 0, err
	}

	if bytes.Equal(head, utf8BOM) {
		return b.reader.Read(p)
	}

	// Not a BOM: hand back the bytes we consumed before continuing.
	b.reader = io.MultiReader(bytes.NewReader(head), b.reader)
	return b.reader.Read(p)
}
