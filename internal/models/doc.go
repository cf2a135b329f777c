// Package models defines the domain types for converting a streaming export into JSPF playlists.
//
// The package contains three groups of types:
//
// 1. Source records, read once from the export and never mutated
//   - [SourcePlaylist] : playlist name, last-modified timestamp, ordered tracks
//   - [SourceTrack] : artist, title, service URI and added-at timestamp
//
// 2. Resolution values
//   - [RecordingCandidate] : a recording returned by MusicBrainz
//   - [Outcome] : Resolved{candidate, exact} or Unresolved, one per source track
//
// 3. Output records
//   - [OutputTrack] : built by [NewOutputTrack]; inexact outcomes overwrite title and creator
//   - [OutputPlaylist] : built by [NewOutputPlaylist]; never public
//   - [PlaylistReport], [RunReport] : resolved-vs-total counts and dropped tracks
package models
