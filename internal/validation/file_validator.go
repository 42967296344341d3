package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apierrors "payrollcli/internal/errors"
)

// CSVPattern matches timesheet exports inside an input directory.
const CSVPattern = "*.csv"

// FileValidator provides file checks for command line inputs and outputs
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

// ValidateInputDirectory validates that dir exists and is a directory. When
// requiredPattern is set it also reports how many files match; no matches is
// not an error.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apierrors.NewNotFoundError(fmt.Sprintf("input directory %s", dir))
	}
	if err != nil {
		return apierrors.NewStorageError("failed to stat directory", err).WithContext("path", dir)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apierrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}

	if requiredPattern != "" {
		count, err := v.CountFiles(dir, requiredPattern)
		if err != nil {
			return err
		}
		if count == 0 {
			v.logger.Warn("No files matching pattern found",
				slog.String("directory", dir),
				slog.String("pattern", requiredPattern))
			return nil
		}
		v.logger.Debug("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", count),
			slog.String("pattern", requiredPattern))
	}

	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError("failed to create output directory", err).WithContext("path", dir)
	}

	// Verify it's writable by creating a scratch file
	scratch, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError("output directory is not writable", err).WithContext("path", dir)
	}
	scratch.Close()
	os.Remove(scratch.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks that path is an existing, readable regular file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apierrors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		return apierrors.NewStorageError("failed to stat file", err).WithContext("path", path)
	}
	if !info.Mode().IsRegular() {
		v.logger.Error("Path is not a regular file",
			slog.String("path", path))
		return apierrors.NewAppValidationError(fmt.Sprintf("%s is not a regular file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apierrors.NewStorageError("file is not readable", err).WithContext("path", path)
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

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		v.logger.Error("File is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return apierrors.NewAppValidationError(fmt.Sprintf("file %s is not a CSV file (extension: %q)", path, ext))
	}

	return nil
}

// CountFiles counts regular files matching a pattern in a directory
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	matches, err := v.glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, err
	}

	v.logger.Debug("Files counted",
		slog.String("directory", dir),
		slog.String("pattern", pattern),
		slog.Int("count", len(matches)))
	return len(matches), nil
}

// ExpandInputs resolves command line arguments into a sorted, de-duplicated
// list of input files. An argument may be a file, a directory (its *.csv
// files are used) or a glob pattern. A pattern that matches nothing is an
// error, as is an empty result.
func (v *FileValidator) ExpandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(paths ...string) {
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
		}
	}

	for _, arg := range args {
		switch {
		case isDir(arg):
			if err := v.ValidateInputDirectory(arg, CSVPattern); err != nil {
				return nil, err
			}
			matches, err := v.glob(filepath.Join(arg, CSVPattern))
			if err != nil {
				return nil, err
			}
			add(matches...)
		case strings.ContainsAny(arg, "*?["):
			matches, err := v.glob(arg)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				return nil, apierrors.NewNotFoundError(fmt.Sprintf("files matching %s", arg))
			}
			add(matches...)
		default:
			add(arg)
		}
	}

	if len(files) == 0 {
		return nil, apierrors.NewAppValidationError("no input files")
	}
	return files, nil
}

// glob returns the regular files matching pattern in sorted order
func (v *FileValidator) glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		v.logger.Error("Invalid file pattern",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("invalid file pattern %q", pattern))
	}

	files := matches[:0]
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
