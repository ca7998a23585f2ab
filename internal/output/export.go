// SPDX-License-Identifier: MPL-2.0

package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/ideatopia/pwdgen/pkg/platform"
)

// exportFileMode keeps exported passwords readable by the owner only.
const exportFileMode = 0o600

var (
	// ErrExportFileExists is the sentinel error wrapped by ExportFileExistsError.
	ErrExportFileExists = errors.New("export file already exists")

	// ErrReservedExportName is returned on Windows when the export path names
	// a device such as CON or NUL.
	ErrReservedExportName = errors.New("export path is a reserved device name")

	//nolint:gochecknoglobals // Test seam for runtime.GOOS.
	currentGOOS = runtime.GOOS
)

// ExportFileExistsError is returned when the export path is already taken.
// Exports never overwrite.
type ExportFileExistsError struct {
	Path string
}

// Error implements the error interface for ExportFileExistsError.
func (e *ExportFileExistsError) Error() string {
	return fmt.Sprintf("file already exists: %s", e.Path)
}

// Unwrap returns ErrExportFileExists for errors.Is() compatibility.
func (e *ExportFileExistsError) Unwrap() error { return ErrExportFileExists }

// Export writes text to a new file at path. On Windows, device names such as
// CON are refused with ErrReservedExportName. The file is created exclusively,
// so an existing path fails with *ExportFileExistsError and is left untouched.
func Export(path, text string) (err error) {
	if currentGOOS == platform.Windows && platform.IsWindowsReservedName(path) {
		return fmt.Errorf("%w: %s", ErrReservedExportName, path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, exportFileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &ExportFileExistsError{Path: path}
		}
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing export file: %w", closeErr)
		}
	}()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
