package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_UTF8(t *testing.T) {
	e := New()

	text, err := e.Extract(context.Background(), []byte("PXI 数据采集 overview"))
	require.NoError(t, err)
	assert.Equal(t, "PXI 数据采集 overview", text)
}

func TestExtract_GBK(t *testing.T) {
	e := New()

	// "中文" encoded as GBK: invalid UTF-8, valid GBK.
	data := []byte{0xD6, 0xD0, 0xCE, 0xC4}
	text, err := e.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "中文", text)
}

func TestExtract_Latin1(t *testing.T) {
	e := New()

	// "café" in Latin-1. The trailing 0xE9 is a truncated multi-byte
	// sequence for both GBK and GB18030, so the ladder reaches Latin-1.
	data := []byte{'c', 'a', 'f', 0xE9}
	text, err := e.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestExtract_Empty(t *testing.T) {
	e := New()

	text, err := e.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestSupportedTypes(t *testing.T) {
	assert.Len(t, New().SupportedTypes(), 1)
}
