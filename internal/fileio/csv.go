package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const sniffSize = 4096

// readCSV reads CSV with headerRow (1-based), converting to UTF-8 first.
// The delimiter is guessed from the first line (comma, semicolon or tab).
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	dec, err := utf8Reader(r)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(dec)
	first, _ := br.Peek(sniffSize)

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = guessDelimiter(first)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}

func guessDelimiter(sample []byte) rune {
	line, _, _ := bytes.Cut(sample, []byte("\n"))
	best, bestN := ',', bytes.Count(line, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// DecodeText reads an uploaded order text, converts it to UTF-8 and
// NFC-normalizes it so Khmer and Latin accents compare consistently.
func DecodeText(r io.Reader) (string, error) {
	dec, err := utf8Reader(r)
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(transform.NewReader(dec, norm.NFC))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// utf8Reader sniffs the head of r. Valid UTF-8 passes through with its BOM
// removed; anything else goes through the decoder chardet suggests.
func utf8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	peek, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	enc := detectEncoding(peek)
	return transform.NewReader(br, enc.NewDecoder()), nil
}

func detectEncoding(peek []byte) encoding.Encoding {
	switch {
	case len(peek) == 0:
		return unicode.UTF8
	case bytes.HasPrefix(peek, []byte{0xFF, 0xFE}), bytes.HasPrefix(peek, []byte{0xFE, 0xFF}):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case validUTF8Prefix(peek):
		return unicode.UTF8BOM
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return unicode.UTF8
	}
	enc, err := htmlindex.Get(strings.ToLower(det.Charset))
	if err != nil || enc == nil {
		return unicode.UTF8
	}
	return enc
}

// validUTF8Prefix tolerates a multi-byte rune cut off by the sniff window.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return false
}
