package service

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/blob"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// messageOf — сообщение ошибки для клиента.
func messageOf(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

func TestNotFoundAndInvalidRef(t *testing.T) {
	err := notFound(gorm.ErrRecordNotFound, msgTaskNotFound)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	assert.Equal(t, msgTaskNotFound, messageOf(err))

	err = invalidRef(gorm.ErrRecordNotFound, msgColumnNotFound)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	other := errors.New("db down")
	assert.Same(t, other, notFound(other, msgTaskNotFound))
	assert.NoError(t, notFound(nil, msgTaskNotFound))
}

func TestRequiredAndOptionalText(t *testing.T) {
	v, err := required("name", "  Alfa ")
	require.NoError(t, err)
	assert.Equal(t, "Alfa", v)

	_, err = required("name", "   ")
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	assert.Nil(t, optionalText(nil))
	assert.Nil(t, optionalText(strPtr("  ")))
	assert.Equal(t, "x", *optionalText(strPtr(" x ")))
}

func TestBoundedText(t *testing.T) {
	_, err := boundedText("label", strings.Repeat("è", 201), 200)
	assert.Error(t, err)

	v, err := boundedText("label", strings.Repeat("è", 200), 200)
	require.NoError(t, err)
	assert.Len(t, []rune(v), 200)
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("dueDate", strPtr("2024-02-29"))
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-29"), *d)

	d, err = parseDay("dueDate", strPtr(""))
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDay("dueDate", strPtr("2023-02-29"))
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestDateOrRelative(t *testing.T) {
	t0 := day("2024-01-31")

	d, rel, err := dateOrRelative("startDate", strPtr("T0+1mese"), &t0)
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-29"), *d)
	assert.Equal(t, "T0+1mese", *rel)

	d, rel, err = dateOrRelative("startDate", strPtr("T0+2settimane"), nil)
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, "T0+2settimane", *rel)

	d, rel, err = dateOrRelative("startDate", strPtr("2024-05-01"), &t0)
	require.NoError(t, err)
	assert.Equal(t, day("2024-05-01"), *d)
	assert.Nil(t, rel)

	_, _, err = dateOrRelative("startDate", strPtr("domani"), &t0)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestResolveDue(t *testing.T) {
	t0 := day("2024-01-01")

	due, rel, err := resolveDue(strPtr("2024-06-01"), strPtr("T0+1mese"), &t0)
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-01"), *due)
	assert.Equal(t, "T0+1mese", *rel)

	due, rel, err = resolveDue(strPtr("2024-06-01"), strPtr("T0+1mese"), nil)
	require.NoError(t, err)
	assert.Equal(t, day("2024-06-01"), *due, "без T0 остаётся явная дата")
	assert.Equal(t, "T0+1mese", *rel)

	_, _, err = resolveDue(nil, strPtr("2024-06-01"), &t0)
	assert.Error(t, err, "dueDateRelative принимает только выражение")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, clampLimit(0, 5, 50))
	assert.Equal(t, 5, clampLimit(-1, 5, 50))
	assert.Equal(t, 7, clampLimit(7, 5, 50))
	assert.Equal(t, 50, clampLimit(500, 5, 50))
}

func TestEventTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09:30", "09:30", true},
		{"9:05", "09:05", true},
		{"23:59", "23:59", true},
		{"24:00", "", false},
		{"12:60", "", false},
		{"noon", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := eventTime(strPtr(tt.in))
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
	got, err := eventTime(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSectionTypeAndLinkURL(t *testing.T) {
	assert.Nil(t, sectionType(strPtr("other")))
	assert.Nil(t, sectionType(nil))
	assert.Equal(t, "repo", *sectionType(strPtr("repo")))

	u, err := linkURL(strPtr(""))
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = linkURL(strPtr("https://example.org/docs"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/docs", *u)

	_, err = linkURL(strPtr("not a url"))
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "photo.png", displayName("C:\\tmp\\photo.png"))
	assert.Equal(t, "photo.png", displayName("../photo.png"))
	assert.Equal(t, "file", displayName("  "))
}

func TestRemoveFiles_IgnoresMissingAndForeignPaths(t *testing.T) {
	store := new(mockBlobStore)
	store.On("Delete", mock.Anything, "a.png").Return(nil).Once()
	store.On("Delete", mock.Anything, "b.png").Return(blob.ErrNotFound).Once()
	store.On("Delete", mock.Anything, "c.png").Return(errors.New("io")).Once()

	removeFiles(context.Background(), store, zap.NewNop().Sugar(),
		[]string{"uploads/a.png", "uploads/b.png", "uploads/c.png", "/etc/passwd"})
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "Delete", 3)
}
