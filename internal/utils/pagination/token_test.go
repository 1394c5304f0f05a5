package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "entry-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, createdAt, cursor.CreatedAt)
	assert.Equal(t, "entry-1", cursor.ID)

	// ids may contain the separator
	cursor, err = DecodeToken(EncodeToken(createdAt, "a|b"))
	require.NoError(t, err)
	assert.Equal(t, "a|b", cursor.ID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // "2023-05-15T00:00:00Z", no separator
	_, err = DecodeToken(invalidToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	invalidDateToken := "bm90YWRhdGV8aWQ=" // "notadate|id"
	_, err = DecodeToken(invalidDateToken)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")
}

func TestCursorAfter(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: at, ID: "m"}

	assert.True(t, c.After(at.Add(time.Second), "a"))
	assert.False(t, c.After(at.Add(-time.Second), "z"))
	assert.True(t, c.After(at, "n"))
	assert.False(t, c.After(at, "m"))
	assert.False(t, c.After(at, "a"))
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}
