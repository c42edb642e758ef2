package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoInputs is returned when the arguments resolve to no CSV files
var ErrNoInputs = errors.New("no CSV files to read")

// FileValidator checks the paths the command line tools read and write
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ResolveInputs expands the arguments into CSV file paths. A directory
// contributes its *.csv entries sorted by name; files keep their position.
func (v *FileValidator) ResolveInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				v.logger.Error("Input does not exist", slog.String("path", arg))
				return nil, fmt.Errorf("input %s does not exist: %w", arg, err)
			}
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			if err := v.ValidateCSVFile(arg); err != nil {
				return nil, err
			}
			paths = append(paths, arg)
			continue
		}

		found, err := v.FindCSVFiles(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			v.logger.Warn("No CSV files in directory", slog.String("directory", arg))
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, ErrNoInputs
	}
	v.logger.Debug("Inputs resolved", slog.Int("files", len(paths)))
	return paths, nil
}

// FindCSVFiles lists the CSV files directly inside dir, sorted by name
func (v *FileValidator) FindCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isCSVName(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ValidateFile checks that path is a readable regular file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile checks that path is a readable file with a .csv extension
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if !isCSVName(path) {
		v.logger.Error("File is not a CSV file",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("file %s is not a CSV file (extension: %q)", path, filepath.Ext(path))
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

func isCSVName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
