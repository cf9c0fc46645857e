package service

import (
	"ProjectDesk/internal/apperr"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreImage(t *testing.T) {
	ctx := context.Background()

	t.Run("png stored under generated name", func(t *testing.T) {
		store := new(mockBlobStore)
		store.On("Put", mock.Anything, mock.MatchedBy(func(name string) bool {
			return strings.HasSuffix(name, ".png") && !strings.Contains(name, "photo")
		}), "image/png", pngBytes).Return(nil).Once()

		path, err := storeImage(ctx, store, Upload{Filename: "photo.PNG", Data: pngBytes})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(path, "uploads/"))
		assert.True(t, strings.HasSuffix(path, ".png"))
		store.AssertExpectations(t)
	})

	t.Run("empty file", func(t *testing.T) {
		store := new(mockBlobStore)
		_, err := storeImage(ctx, store, Upload{Filename: "x.png"})
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		assert.Equal(t, "Nessun file caricato", messageOf(err))
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non image rejected regardless of extension", func(t *testing.T) {
		store := new(mockBlobStore)
		_, err := storeImage(ctx, store, Upload{Filename: "fake.png", Data: []byte("just some text")})
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		store := new(mockBlobStore)
		store.On("Put", mock.Anything, mock.Anything, "image/png", pngBytes).Return(errors.New("disk full")).Once()
		_, err := storeImage(ctx, store, Upload{Filename: "a.png", Data: pngBytes})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	})
}
