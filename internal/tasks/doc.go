// Package tasks assembles JSPF playlists from a parsed export.
//
// # Conversion
//
// [PlaylistEngine.Convert] resolves each track of one playlist in order, drops unresolved tracks, and writes a
// single JSPF document to a path chosen by [formatter.AllocatePath]. [PlaylistEngine.ConvertAll] does the same
// for every playlist of an export, one at a time. Dropped tracks never abort a playlist, and a playlist with no
// resolved tracks is still written.
//
// The only errors returned are run-aborting ones: the output directory cannot be created, a file cannot be
// written, or the context is cancelled.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with default so a slow reader
// never blocks resolution.
package tasks
