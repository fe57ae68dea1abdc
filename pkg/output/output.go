// Package output writes rendered frames to disk.
package output

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/df07/go-sky-pathtracer/pkg/renderer"
)

// Supported output formats
const (
	FormatPPM = "ppm"
	FormatPNG = "png"
)

// timestampLayout names files render_<YYYYMMDD_HHMMSS>
const timestampLayout = "20060102_150405"

// WritePPM writes the frame as a plain-text P3 image, one pixel per line
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return err
	}
	for _, p := range frame.Pixels {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", renderer.ToByte(p.X), renderer.ToByte(p.Y), renderer.ToByte(p.Z)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePNG writes the frame as a PNG image
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	return png.Encode(w, frame.RGBA())
}

// Write encodes the frame in the given format
func Write(w io.Writer, format string, frame *renderer.Frame) error {
	switch strings.ToLower(format) {
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPNG:
		return WritePNG(w, frame)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// ResolveDir expands a leading ~ to the user's home directory
func ResolveDir(dir string) (string, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand output directory %q: %w", dir, err)
	}
	return filepath.Clean(expanded), nil
}

// FileName returns render_<timestamp>.<format> for the given time
func FileName(format string, now time.Time) string {
	return fmt.Sprintf("render_%s.%s", now.Format(timestampLayout), strings.ToLower(format))
}

// Save writes the frame to <dir>/<sceneName>/render_<timestamp>.<format> and returns the path
func Save(dir, sceneName, format string, frame *renderer.Frame, now time.Time) (string, error) {
	baseDir, err := ResolveDir(dir)
	if err != nil {
		return "", err
	}

	outputDir := filepath.Join(baseDir, sceneName)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(outputDir, FileName(format, now))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(file, format, frame); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", filename, err)
	}

	return filename, nil
}
