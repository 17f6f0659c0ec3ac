package uploads_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niksmo/vip-store/internal/adapter/uploads"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid png header plus padding
var pngData = append(
	[]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"),
	bytes.Repeat([]byte{0}, 64)...,
)

func TestLocalStore(t *testing.T) {
	t.Run("StoresImage", func(t *testing.T) {
		dir := t.TempDir()
		s, err := uploads.NewLocalStore(dir, 1<<20)
		require.NoError(t, err)

		ref, err := s.SaveScreenshot(t.Context(), "receipt.png", bytes.NewReader(pngData))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "/uploads/"))
		assert.True(t, strings.HasSuffix(ref, ".png"))

		stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/")))
		require.NoError(t, err)
		assert.Equal(t, pngData, stored)
	})

	t.Run("RejectsNonImage", func(t *testing.T) {
		dir := t.TempDir()
		s, err := uploads.NewLocalStore(dir, 1<<20)
		require.NoError(t, err)

		_, err = s.SaveScreenshot(t.Context(), "x.png", strings.NewReader("#!/bin/sh\necho hi\n"))
		require.ErrorIs(t, err, domain.ErrValidation)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("RejectsEmpty", func(t *testing.T) {
		s, err := uploads.NewLocalStore(t.TempDir(), 1<<20)
		require.NoError(t, err)

		_, err = s.SaveScreenshot(t.Context(), "x.png", strings.NewReader(""))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("TooLarge", func(t *testing.T) {
		dir := t.TempDir()
		s, err := uploads.NewLocalStore(dir, 32)
		require.NoError(t, err)

		_, err = s.SaveScreenshot(t.Context(), "big.png", bytes.NewReader(pngData))
		var vErr domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "screenshot", vErr.Field)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("RemovesStored", func(t *testing.T) {
		dir := t.TempDir()
		s, err := uploads.NewLocalStore(dir, 1<<20)
		require.NoError(t, err)

		ref, err := s.SaveScreenshot(t.Context(), "receipt.png", bytes.NewReader(pngData))
		require.NoError(t, err)

		require.NoError(t, s.RemoveScreenshot(t.Context(), ref))
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)

		assert.NoError(t, s.RemoveScreenshot(t.Context(), ref), "already removed")
	})

	t.Run("RemoveOutsideDir", func(t *testing.T) {
		s, err := uploads.NewLocalStore(t.TempDir(), 1<<20)
		require.NoError(t, err)

		for _, ref := range []string{"/uploads/../config.yaml", "/etc/passwd", "/uploads/", "/uploads/.env"} {
			assert.ErrorIs(t, s.RemoveScreenshot(t.Context(), ref), domain.ErrValidation, ref)
		}
	})

	t.Run("CreatesDir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")
		s, err := uploads.NewLocalStore(dir, 1<<20)
		require.NoError(t, err)
		assert.DirExists(t, s.Dir())
	})
}
