package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStartsWithInit(t *testing.T) {
	doc := NewDocument(32)
	assert.Equal(t, []byte{ESC, '@'}, doc.Bytes())

	doc.Text("hello").Reset()
	assert.Equal(t, []byte{ESC, '@'}, doc.Bytes())
}

func TestKeyValueFillsWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.KeyValue("Total:", "75.60")

	line := doc.Bytes()[2:]
	assert.Equal(t, "Total:         75.60\n", string(line))
}

func TestItemLineTruncatesLongNames(t *testing.T) {
	doc := NewDocument(24)
	doc.ItemLine(2, "Extra Long Product Name That Overflows", "40.00")

	line := string(doc.Bytes()[2:])
	assert.Len(t, line, 25) // 24 columns + LF
	assert.True(t, bytes.HasSuffix([]byte(line), []byte(" 40.00\n")))
	assert.Contains(t, line, "2x Extra Long Pro")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab.", Truncate("abcdef", 3))
	assert.Equal(t, "a", Truncate("abcdef", 1))
	assert.Equal(t, "", Truncate("abcdef", 0))
}

func TestBarcodeAndDrawer(t *testing.T) {
	doc := NewDocument(32)
	doc.Barcode("TXN-0042-0000ABCD").OpenDrawer()

	out := doc.Bytes()
	assert.True(t, bytes.Contains(out, []byte{GS, 'k', 73, byte(len("TXN-0042-0000ABCD") + 2), '{', 'B'}))
	assert.True(t, bytes.HasSuffix(out, []byte{ESC, 'p', drawerPin, drawerOnMS, drawerOffMS}))

	// empty data prints nothing
	before := len(NewDocument(32).Bytes())
	assert.Len(t, NewDocument(32).Barcode("").Bytes(), before)
}

func TestNewPrinterFromConfig(t *testing.T) {
	p, err := NewPrinterFromConfig("none", "", "")
	require.NoError(t, err)
	assert.Equal(t, "none", p.Kind())
	assert.False(t, p.IsConnected())
	assert.NoError(t, p.Print(context.Background(), []byte("x")))

	_, err = NewPrinterFromConfig("usb", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("network", "", "")
	assert.Error(t, err)
	_, err = NewPrinterFromConfig("bluetooth", "", "")
	assert.Error(t, err)

	p, err = NewPrinterFromConfig("network", "", "127.0.0.1:9100")
	require.NoError(t, err)
	assert.Equal(t, "network", p.Kind())
}
