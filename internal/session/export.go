package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"prelanding-studio/internal/models"
)

// Форматы экспорта
const (
	ExportText = "text"
	ExportHTML = "html"
)

// ExportedFile - готовый к скачиванию файл.
type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Save записывает файл в каталог dir и возвращает полный путь.
func (f *ExportedFile) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir %s: %w", dir, err)
	}
	if !filepath.IsLocal(f.Name) || filepath.Base(f.Name) != f.Name {
		return "", fmt.Errorf("export file name %q is not a plain file name", f.Name)
	}
	path := filepath.Join(dir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return path, nil
}

// ExportFileName строит имя файла prelanding_<id>.<ext>.
// id приходит от сервиса, поэтому всё, кроме букв, цифр, '-', '_' и одиночных точек, заменяется на '_'.
func ExportFileName(genID, format string) string {
	ext := "txt"
	if format == ExportHTML {
		ext = "html"
	}
	return fmt.Sprintf("prelanding_%s.%s", sanitizeFileComponent(genID), ext)
}

func sanitizeFileComponent(s string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, s)
	for strings.Contains(safe, "..") {
		safe = strings.ReplaceAll(safe, "..", "_")
	}
	return safe
}

// Export запрашивает экспорт отображаемого результата.
// Состояние сессии не меняется ни при успехе, ни при ошибке.
func (c *Controller) Export(ctx context.Context, format string) (*ExportedFile, error) {
	if format != ExportText && format != ExportHTML {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidExportFormat, format)
	}

	c.mu.Lock()
	result := c.result
	c.mu.Unlock()
	if result == nil {
		return nil, models.ErrNoResult
	}

	log := c.logger.With(zap.String("genID", result.GenerationID), zap.String("format", format))
	payload, err := c.gen.Export(ctx, result.GenerationID, format)
	if err != nil {
		log.Error("Export failed", zap.Error(err))
		return nil, fmt.Errorf("export request failed: %w", err)
	}

	log.Info("Export completed", zap.Int("bytes", len(payload.Data)))
	return &ExportedFile{
		Name:        ExportFileName(result.GenerationID, format),
		ContentType: payload.ContentType,
		Data:        payload.Data,
	}, nil
}
