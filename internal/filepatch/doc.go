// Package filepatch temporarily edits files and puts them back.
//
// Replace and InsertBeforeMarker rewrite a file and return a function that
// restores the content read beforehand. The With variants run a callback
// between edit and restore, restoring on every exit path including panics.
package filepatch
