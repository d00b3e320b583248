package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateJobID generates a unique analysis job ID
func GenerateJobID() string {
	return uuid.New().String()
}

// SaveTempFile copies an uploaded stream into a temp file and returns its path.
// Callers own the file and must remove it with CleanupTempFile when done.
func SaveTempFile(src io.Reader, pattern string) (string, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmp.Name(), nil
}

// CleanupTempFile removes a temp file, ignoring already-gone paths
func CleanupTempFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		GetLogger().WithField("path", path).WithError(err).Warn("Failed to cleanup temp file")
	}
}
