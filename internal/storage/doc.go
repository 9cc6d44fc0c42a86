// Package storage persists the task bucket and project registry as JSON
// files.
//
// Every bucket save replaces the file atomically: the new content is
// written to a temporary file in the same directory, synced, and renamed
// over the target. When backups are enabled the previous file is first
// copied to <backup dir>/<stem>.backup.<YYYYMMDD_HHMMSS>.json and only the
// newest backups are kept.
//
// There is no locking. Concurrent writers race and the last rename wins.
package storage
