// Package fileutil provides file system helpers for writing secret material.
//
// # Atomic Write Operations
//
// AtomicWriteFile ensures that a file is never left in a partial state by
// writing to a temporary file in the destination directory, syncing it, and
// renaming it over the target path:
//
//   - Unique temporary file names avoid concurrent writer collisions
//   - Permissions are applied to the temp file before data is written
//   - Temporary files are removed on every failure path
//
// # Example Usage
//
//	data := []byte("API_KEY=secret\n")
//	if err := fileutil.AtomicWriteFile(".env.dev", data, fileutil.SecretFilePermission); err != nil {
//	    return err
//	}
package fileutil
