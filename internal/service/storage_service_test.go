package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lms_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageProviderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}

	url, err := p.Upload(context.Background(), "certificates/CERT-2026-A1B2C3D4.pdf",
		strings.NewReader("%PDF-1.4 content"), 16, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/certificates/CERT-2026-A1B2C3D4.pdf", url)

	stored, err := os.ReadFile(filepath.Join(dir, "certificates", "CERT-2026-A1B2C3D4.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(stored))

	require.NoError(t, p.Delete(context.Background(), "certificates/CERT-2026-A1B2C3D4.pdf"))
	_, err = os.Stat(filepath.Join(dir, "certificates", "CERT-2026-A1B2C3D4.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestStorageServiceFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	s := NewStorageService(cfg)
	_, ok := s.Provider.(*LocalStorageProvider)
	assert.True(t, ok)
}
