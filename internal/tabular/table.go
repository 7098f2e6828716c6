// Package tabular parses delimited exports whose encoding and delimiter
// drift across tools: UTF-8 with commas is tried first, then UTF-16LE with
// tabs. It also provides the column-alias and numeric-coercion helpers the
// extractors share.
package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// badRowLimit is the number of row-level parse errors tolerated before a
// parse attempt is considered garbage.
const badRowLimit = 5

// Row is one parsed record, keyed by the header row's field names.
type Row map[string]string

// ParseTable parses data as a delimited table with a header row. It first
// decodes as UTF-8 and splits on commas; if that parse looks bad it
// re-decodes the same bytes as UTF-16LE and splits on tabs. It never fails:
// malformed input yields whatever rows survived, possibly none, and an empty
// result is itself meaningful to the caller.
func ParseTable(data []byte) []Row {
	text := string(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	rows, errCount := parseDelimited(text, ',')

	bad := errCount > badRowLimit || len(rows) == 0 || looksUTF16(data)
	if !bad {
		return rows
	}

	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	decoded, err := decoder.Bytes(data)
	if err != nil {
		// Undecodable either way; keep the primary attempt's rows.
		return rows
	}
	fallback, _ := parseDelimited(string(decoded), '\t')
	return fallback
}

// parseDelimited parses one decode of the text, returning the surviving
// rows and the number of row-level errors encountered.
func parseDelimited(text string, delim rune) ([]Row, int) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, 1
	}

	var rows []Row
	errCount := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errCount++
			if errCount > badRowLimit {
				break
			}
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, errCount
}

// looksUTF16 reports whether the raw bytes are 16-bit text. Such content
// decodes as UTF-8 into NUL-riddled rows without triggering parse errors,
// so it counts as a bad primary parse.
func looksUTF16(data []byte) bool {
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return true
	}
	if len(data) == 0 {
		return false
	}
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	nuls := bytes.Count(sample, []byte{0})
	return nuls*5 > len(sample)
}
