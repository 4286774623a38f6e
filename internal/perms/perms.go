// Package perms provides centralized file and directory permission constants
// for files written by reliefweb-mcp (configuration files, log files and generated docs).
package perms

import "os"

// File permission constants for different security contexts.
const (
	// RegularFile permissions for log files.
	// Mode 0644: owner read/write, group read, others read.
	RegularFile os.FileMode = 0o644

	// SecureFile permissions for the configuration file, which holds the application identifier.
	// Mode 0600: owner read/write only, no group or other access.
	SecureFile os.FileMode = 0o600
)

// RegularDir permissions for generated output directories, such as the CLI reference written by docsgen.
// Mode 0755: owner read/write/execute, group read/execute, others read/execute.
const RegularDir os.FileMode = 0o755
