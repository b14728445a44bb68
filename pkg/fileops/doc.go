// Package fileops provides atomic file writes and path validation helpers.
//
// # Atomic Operations
//
// Use AtomicWriteFile() to replace a file without exposing partial content:
//
//	err := fileops.AtomicWriteFile(path, data, 0644)
//	// The file at path is either the old content or the new content, never a mix
//
// The write goes to a temporary file in the destination directory, is synced to disk,
// and is then renamed over the destination. Rename within a directory is atomic on
// POSIX filesystems.
//
// # Validation
//
// For files read from a user supplied directory, combine the helpers in this order:
//
//	if err := fileops.ValidateFileInDirectory(filePath, baseDir); err != nil {
//	    return fmt.Errorf("directory containment: %w", err)
//	}
//	if err := fileops.ValidateFileSizeLimit(filePath, 64*1024*1024); err != nil {
//	    return fmt.Errorf("file size: %w", err)
//	}
//
// # Directory Operations
//
// EnsureDirectoryExists() creates directories safely with proper permissions (0755).
// ValidateDirectory() checks that a path exists and is a directory without creating it.
package fileops
