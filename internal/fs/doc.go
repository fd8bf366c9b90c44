// Package fs abstracts the file operations used by the local blob store so
// tests can inject I/O faults.
//
//   - [LocalFS] forwards to the os package.
//   - [FaultyFS] wraps another FileSystem and fails writes, syncs, closes
//     or renames of matching files.
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
//
// Operations take no context.Context. Local file calls are not interruptible
// at the syscall level; remote stores live behind blobstore.Blob instead.
package fs
