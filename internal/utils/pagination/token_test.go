package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	issueDate := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 7, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(issueDate, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedIssueDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, issueDate, decodedIssueDate)
	assert.Equal(t, createdAt, decodedCreatedAt)

	// Zero time values round-trip too.
	zeroTime := time.Time{}
	zeroToken := EncodeToken(zeroTime, zeroTime)
	decodedZeroDate, decodedZeroTime, err := DecodeToken(zeroToken)
	assert.NoError(t, err)
	assert.Equal(t, zeroTime, decodedZeroDate)
	assert.Equal(t, zeroTime, decodedZeroTime)

	now := time.Now().UTC()
	nowToken := EncodeToken(now, now)
	decodedNowDate, decodedNowTime, err := DecodeToken(nowToken)
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNowDate))
	assert.True(t, now.Equal(decodedNowTime))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 encoded date without separator.
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// Base64 encoded "notadate|2023-05-15T14:30:45.123456789Z".
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "issue date parse")
}

func TestEncodeDateBasedToken(t *testing.T) {
	testDate := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	token := EncodeDateBasedToken(testDate)

	decodedDate, err := DecodeDateBasedToken(token)
	assert.NoError(t, err)
	assert.Equal(t, testDate, decodedDate)
}

func TestEncodeMultiFieldToken(t *testing.T) {
	fields := []string{"field1", "field2", "field3"}
	token := EncodeMultiFieldToken(fields...)

	decodedFields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, fields, decodedFields)

	// Splitting an empty string yields a slice with one empty string.
	emptyToken := EncodeMultiFieldToken()
	decodedEmpty, err := DecodeMultiFieldToken(emptyToken)
	assert.NoError(t, err)
	assert.Equal(t, []string{""}, decodedEmpty)

	// Fields containing pipes split on every pipe.
	specialToken := EncodeMultiFieldToken("a|b", "c d")
	decodedSpecial, err := DecodeMultiFieldToken(specialToken)
	assert.NoError(t, err)
	assert.Len(t, decodedSpecial, 3)

	timestampStr := time.Now().UTC().Format(time.RFC3339Nano)
	timeToken := EncodeMultiFieldToken("client123", timestampStr)
	decodedTime, err := DecodeMultiFieldToken(timeToken)
	assert.NoError(t, err)
	assert.Equal(t, []string{"client123", timestampStr}, decodedTime)
}
