package catalog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/models"
)

// IsArchive - принимаются только .zip (регистр не важен).
func IsArchive(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".zip")
}

// Upload отправляет архив и после успеха перечитывает библиотеку целиком.
// Не-архив отклоняется до обращения к сервису.
func (l *Library) Upload(ctx context.Context, filename string, r io.Reader) (*models.UploadSummary, error) {
	if !IsArchive(filename) {
		l.setUploadMessage(false, "Только ZIP файлы!")
		return nil, models.ErrNotArchive
	}

	l.mu.Lock()
	if l.uploading {
		l.mu.Unlock()
		return nil, models.ErrOperationInProgress
	}
	l.uploading = true
	l.uploadMsg = nil
	l.mu.Unlock()

	summary, err := func() (*models.UploadSummary, error) {
		defer func() {
			l.mu.Lock()
			l.uploading = false
			l.mu.Unlock()
		}()
		return l.api.UploadZip(ctx, filename, r)
	}()
	if err != nil {
		l.setUploadMessage(false, client.UserMessage(err, "Ошибка загрузки"))
		l.logger.Error("Archive upload failed", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	category := summary.VerticalDetected
	if category == "" {
		category = "general"
	}
	l.setUploadMessage(true, fmt.Sprintf("✓ %s загружен! Категория: %s", summary.Name, category))
	l.logger.Info("Archive uploaded", zap.String("filename", filename), zap.String("prelandingID", summary.PrelandingID))

	if err := l.Refresh(ctx); err != nil {
		l.logger.Warn("Library refresh after upload failed", zap.Error(err))
	}
	return summary, nil
}

func (l *Library) setUploadMessage(success bool, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.uploadMsg = &UploadMessage{Success: success, Text: text}
}
