package tabular

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/encoding/unicode"
)

func TestParseTable_UTF8Comma(t *testing.T) {
	data := []byte("Keyword,Current position\nplumber near me,3\nemergency plumber,12\n")

	rows := ParseTable(data)
	require.Len(t, rows, 2)
	assert.Equal(t, "plumber near me", rows[0]["Keyword"])
	assert.Equal(t, "12", rows[1]["Current position"])
}

func TestParseTable_BOMStripped(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("URL,Status\nhttps://a.test,200\n")...)

	rows := ParseTable(data)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://a.test", rows[0]["URL"])
}

func TestParseTable_UTF16TabFallback(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := encoder.Bytes([]byte("Address\tStatus Code\nhttps://a.test/x\t404\nhttps://a.test/y\t500\n"))
	require.NoError(t, err)

	rows := ParseTable(data)
	require.Len(t, rows, 2)
	assert.Equal(t, "404", rows[0]["Status Code"])
	assert.Equal(t, "https://a.test/y", rows[1]["Address"])
}

func TestParseTable_RaggedRows(t *testing.T) {
	// Short rows pad with empty strings; long rows drop the extras.
	data := []byte("a,b,c\n1,2\n1,2,3,4\n")

	rows := ParseTable(data)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0]["c"])
	assert.Equal(t, "3", rows[1]["c"])
}

func TestParseTable_Empty(t *testing.T) {
	assert.Empty(t, ParseTable(nil))
	assert.Empty(t, ParseTable([]byte("header,only\n")))
}

func TestResolve_OrderAndCase(t *testing.T) {
	sample := Row{"Previous position": "9", "Current Position": "3"}

	name, ok := Resolve(sample, "current position", "previous position")
	require.True(t, ok)
	assert.Equal(t, "Current Position", name)

	name, ok = Resolve(sample, "previous position", "current position")
	require.True(t, ok)
	assert.Equal(t, "Previous position", name)
}

func TestResolve_Miss(t *testing.T) {
	_, ok := Resolve(Row{"Keyword": "x"}, "position", "rank")
	assert.False(t, ok)
}

func TestResolve_TrimsHeaderWhitespace(t *testing.T) {
	name, ok := Resolve(Row{" Position ": "4"}, "position")
	require.True(t, ok)
	assert.Equal(t, " Position ", name)
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 1234.0, ToNumber("1,234"))
	assert.Equal(t, 92.0, ToNumber("92%"))
	assert.Equal(t, -3.5, ToNumber("$-3.50"))
	assert.Equal(t, 0.87, ToNumber("0.87"))
	assert.True(t, math.IsNaN(ToNumber("-")))
	assert.True(t, math.IsNaN(ToNumber("")))
	assert.True(t, math.IsNaN(ToNumber("n/a")))
}

func TestNormalizePercent(t *testing.T) {
	assert.Equal(t, 0.87, NormalizePercent(87))
	assert.Equal(t, 0.92, NormalizePercent(0.92))
	assert.Equal(t, 1.0, NormalizePercent(1))
	assert.Equal(t, 0.0, NormalizePercent(0))
}
