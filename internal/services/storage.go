package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var allowedUploadExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// StorageService scopes every pipeline run to its own temp directory so that
// concurrent runs never collide and cleanup is a single RemoveAll.
type StorageService interface {
	NewRunDir() (string, error)
	SaveUpload(file *multipart.FileHeader, runDir, fileType string) (string, error)
	RemoveRunDir(runDir string) error
	SweepStale(olderThan time.Duration) (int, error)
	EnsureTempDir() error
}

type storageService struct {
	tempPath string
}

func NewStorageService(tempPath string) StorageService {
	return &storageService{
		tempPath: tempPath,
	}
}

func (s *storageService) EnsureTempDir() error {
	if err := os.MkdirAll(s.tempPath, 0755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	return nil
}

func (s *storageService) NewRunDir() (string, error) {
	runDir := filepath.Join(s.tempPath, uuid.New().String())
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return runDir, nil
}

func (s *storageService) SaveUpload(file *multipart.FileHeader, runDir, fileType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExts[ext] {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	filePath := filepath.Join(runDir, fileType+ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) RemoveRunDir(runDir string) error {
	// Refuse anything outside our temp root.
	rel, err := filepath.Rel(s.tempPath, runDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("run directory %s is outside the temp root", runDir)
	}
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("failed to remove run directory: %w", err)
	}
	return nil
}

// SweepStale removes run directories whose modification time is older than
// the cutoff. Crashed runs leave these behind.
func (s *storageService) SweepStale(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(s.tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read temp directory: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.tempPath, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
