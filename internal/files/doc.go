// Package files stores uploaded workbooks on disk.
//
// Manager owns a single upload directory. Names are sanitised with
// SecureFilename before they touch the file system, and only the configured
// extensions are accepted. FindWorkbooks lists the Excel files in any
// directory and is shared by the upload listing and the batch CLI.
//
// Example usage:
//
//	manager, err := files.NewManager(cfg.Storage, logger)
//	name, err := manager.Save("Billing 2025.xlsx", body)
//	path, err := manager.Path(name)
package files
