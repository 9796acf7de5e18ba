// Package convert shells out to ffmpeg for container remuxing and full
// re-encoding of downloaded media.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vidfetch/vidfetch/internal/model"
)

// FFmpeg constants for conversion settings
const (
	FFmpegCommand = "ffmpeg"
	TaskIDPrefix  = "convert-"

	// Codec names as ffmpeg knows them
	codecH264   = "libx264"
	codecH265   = "libx265"
	codecVP9    = "libvpx-vp9"
	codecAAC    = "aac"
	codecMP3    = "libmp3lame"
	codecVorbis = "libvorbis"
	codecPCM    = "pcm_s16le"
	codecCopy   = "copy"
)

var videoFormats = map[string]bool{
	"mp4": true, "avi": true, "mkv": true, "webm": true, "mov": true,
}

var audioFormats = map[string]bool{
	"mp3": true, "wav": true, "m4a": true, "aac": true, "ogg": true,
}

// Settings describes one conversion profile. Zero values mean "leave the
// stream as ffmpeg decides"; codec "copy" disables the rate and filter
// options that cannot apply to a copied stream.
type Settings struct {
	OutputFormat  string // target container/extension, e.g. "mp4" or "mp3"
	VideoCodec    string // "h264", "h265", "vp9", "copy" or empty
	VideoBitrateK int    // kbit/s
	Resolution    string // scale filter argument, e.g. "1280:720"
	Framerate     int
	AudioCodec    string // "aac", "mp3", "copy" or empty
	AudioBitrateK int    // kbit/s
	SampleRate    int    // Hz, audio-only formats
	Preset        string // x264/x265 preset
	CRF           int    // 0 disables
	OutputDir     string // empty keeps the input's directory
}

// Service runs ffmpeg conversions and tracks their tasks.
type Service struct {
	tasks     map[string]*model.ConversionTask
	tasksMu   sync.RWMutex
	cancelled atomic.Bool
}

// NewService creates a new conversion service.
func NewService() *Service {
	return &Service{tasks: make(map[string]*model.ConversionTask)}
}

// Cancel requests that the current batch stop after the in-flight file.
func (s *Service) Cancel() {
	s.cancelled.Store(true)
}

// GetTask returns a conversion task by ID.
func (s *Service) GetTask(taskID string) (*model.ConversionTask, bool) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	task, exists := s.tasks[taskID]
	return task, exists
}

// OutputPath derives the destination path for an input under the given
// settings: same base name, the settings' extension, placed in OutputDir
// when set and next to the input otherwise.
func OutputPath(inputPath string, settings Settings) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := settings.OutputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, base+"."+settings.OutputFormat)
}

// BuildFFmpegArgs assembles the ffmpeg argument list for one conversion.
func BuildFFmpegArgs(inputPath, outputPath string, settings Settings) []string {
	args := []string{"-i", inputPath, "-y"}

	switch {
	case videoFormats[settings.OutputFormat]:
		switch settings.VideoCodec {
		case "h264":
			args = append(args, "-codec:v", codecH264)
		case "h265":
			args = append(args, "-codec:v", codecH265)
		case "vp9":
			args = append(args, "-codec:v", codecVP9)
		case "copy":
			args = append(args, "-codec:v", codecCopy)
		}
		if settings.VideoCodec != "copy" {
			if settings.VideoBitrateK > 0 {
				args = append(args, "-b:v", fmt.Sprintf("%dk", settings.VideoBitrateK))
			}
			if settings.Resolution != "" {
				args = append(args, "-vf", "scale="+settings.Resolution)
			}
			if settings.Framerate > 0 {
				args = append(args, "-r", strconv.Itoa(settings.Framerate))
			}
		}

		switch settings.AudioCodec {
		case "aac":
			args = append(args, "-codec:a", codecAAC)
		case "mp3":
			args = append(args, "-codec:a", codecMP3)
		case "copy":
			args = append(args, "-codec:a", codecCopy)
		}
		if settings.AudioCodec != "copy" && settings.AudioBitrateK > 0 {
			args = append(args, "-b:a", fmt.Sprintf("%dk", settings.AudioBitrateK))
		}

	case audioFormats[settings.OutputFormat]:
		args = append(args, "-vn")
		switch settings.OutputFormat {
		case "mp3":
			args = append(args, "-codec:a", codecMP3)
		case "wav":
			args = append(args, "-codec:a", codecPCM)
		case "m4a", "aac":
			args = append(args, "-codec:a", codecAAC)
		case "ogg":
			args = append(args, "-codec:a", codecVorbis)
		}
		if settings.OutputFormat != "wav" && settings.AudioBitrateK > 0 {
			args = append(args, "-b:a", fmt.Sprintf("%dk", settings.AudioBitrateK))
		}
		if settings.SampleRate > 0 {
			args = append(args, "-ar", strconv.Itoa(settings.SampleRate))
		}
	}

	if settings.VideoCodec == "h264" || settings.VideoCodec == "h265" {
		if settings.Preset != "" {
			args = append(args, "-preset", settings.Preset)
		}
		if settings.CRF > 0 {
			args = append(args, "-crf", strconv.Itoa(settings.CRF))
		}
	}

	return append(args, outputPath)
}

// ConvertFile converts a single file and blocks until ffmpeg exits. The
// returned task carries the terminal status; the error mirrors it for
// callers that only care about failure.
func (s *Service) ConvertFile(ctx context.Context, inputPath string, settings Settings) (*model.ConversionTask, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	task := &model.ConversionTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: OutputPath(inputPath, settings),
		Status:     model.TaskStatusPending,
		StartedAt:  time.Now(),
	}
	s.tasksMu.Lock()
	s.tasks[task.ID] = task
	s.tasksMu.Unlock()

	s.setStatus(task, model.TaskStatusConverting)

	args := BuildFFmpegArgs(inputPath, task.OutputPath, settings)
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)
	output, err := cmd.CombinedOutput()

	switch {
	case ctx.Err() != nil:
		s.setStatus(task, model.TaskStatusCancelled)
		os.Remove(task.OutputPath)
		return task, ctx.Err()
	case err != nil:
		s.tasksMu.Lock()
		task.LastError = lastLine(string(output))
		s.tasksMu.Unlock()
		s.setStatus(task, model.TaskStatusError)
		os.Remove(task.OutputPath)
		log.WithFields(log.Fields{"input": inputPath}).WithError(err).Error("ffmpeg conversion failed")
		return task, fmt.Errorf("ffmpeg failed for %s: %w", filepath.Base(inputPath), err)
	}

	s.tasksMu.Lock()
	task.Percent = 100
	s.tasksMu.Unlock()
	s.setStatus(task, model.TaskStatusCompleted)
	return task, nil
}

// ConvertBatch converts each input sequentially, reporting coarse per-file
// progress. A Cancel call stops the batch before the next file; individual
// failures do not.
func (s *Service) ConvertBatch(ctx context.Context, inputPaths []string, settings Settings, rep Reporter) []*model.ConversionTask {
	s.cancelled.Store(false)
	total := len(inputPaths)
	tasks := make([]*model.ConversionTask, 0, total)

	for i, inputPath := range inputPaths {
		if s.cancelled.Load() || ctx.Err() != nil {
			break
		}

		percent := (i * 100) / total
		rep.ProgressText(fmt.Sprintf("Converting %d/%d: %s", i+1, total, filepath.Base(inputPath)))
		rep.ProgressValue(percent)

		task, err := s.ConvertFile(ctx, inputPath, settings)
		if err != nil {
			log.WithFields(log.Fields{"input": inputPath}).WithError(err).Error("batch conversion item failed")
		}
		if task != nil {
			tasks = append(tasks, task)
		}
	}

	if s.cancelled.Load() {
		rep.ProgressText("Conversion cancelled")
		rep.ProgressValue(0)
	} else {
		rep.ProgressText("Conversion process completed")
		rep.ProgressValue(100)
	}
	return tasks
}

// RemuxToMP4 changes the container to MP4 by stream copy, without
// re-encoding. An input that is already MP4 is returned unchanged.
func (s *Service) RemuxToMP4(ctx context.Context, inputPath string) (string, error) {
	if strings.EqualFold(filepath.Ext(inputPath), ".mp4") {
		return inputPath, nil
	}
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".mp4"

	cmd := exec.CommandContext(ctx, FFmpegCommand,
		"-i", inputPath,
		"-c:v", codecCopy,
		"-c:a", codecCopy,
		"-y",
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("remux failed for %s: %s: %w", filepath.Base(inputPath), lastLine(string(output)), err)
	}
	return outputPath, nil
}

func (s *Service) setStatus(task *model.ConversionTask, status model.TaskStatus) {
	s.tasksMu.Lock()
	task.Status = status
	if status.IsFinished() {
		task.FinishedAt = time.Now()
	}
	s.tasksMu.Unlock()
}

// lastLine extracts the final non-empty line of ffmpeg output, which is
// where ffmpeg puts its actual error.
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// generateTaskID generates a unique task ID using UUID v7 for better uniqueness and time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
