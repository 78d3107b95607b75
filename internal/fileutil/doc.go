// Package fileutil moves and copies files between workspace directories.
package fileutil
