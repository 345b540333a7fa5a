// Package config loads kidplan's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kidplan/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Fields
//
//	data_dir = "~/.local/share/kidplan"     # schedule storage and history
//	storage = "file"                        # "file" (TOML) or "sqlite"
//	share_base_url = "https://kidplan.app/" # links are this URL plus #data=...
//	user = "carine"                         # recorded in the edit history, defaults to $USER
//	carine_name = "Carine"
//	robert_name = "Robert"
//	week_start = "monday"                   # or "sunday"
//	storage_warn_after = 3                  # failed writes in a row before warning
//	log_level = "info"
//	log_file = "~/.local/state/kidplan/kidplan.log"
//
// Tilde expansion is applied to data_dir and log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files (other
// than a missing one), TOML syntax errors and out-of-range enum values
// (storage, week_start). A missing file is not an error.
package config
