// Package storage persists parsed wells in a relational database through gorm.
//
// A well is stored as three tables: wells (metadata and the archived file location),
// curves (declaration order kept by ordinal) and log_rows (one row per depth with the
// readings encoded as a JSON object). SQLite is the default driver; MySQL is supported
// for shared deployments.
package storage
