package convert

import (
	"context"

	"github.com/vidfetch/vidfetch/internal/model"
)

// Reporter receives user-facing progress from a running conversion. The
// job package's Emitter satisfies it.
type Reporter interface {
	ProgressText(text string)
	ProgressValue(value int)
}

// Converter defines the interface for the conversion service.
type Converter interface {
	ConvertFile(ctx context.Context, inputPath string, settings Settings) (*model.ConversionTask, error)
	ConvertBatch(ctx context.Context, inputPaths []string, settings Settings, rep Reporter) []*model.ConversionTask
	RemuxToMP4(ctx context.Context, inputPath string) (string, error)
	Cancel()
	GetTask(taskID string) (*model.ConversionTask, bool)
}
