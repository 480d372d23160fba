// Package repositories implements SQLite persistence for the catalog records.
//
// Each repository handles CRUD for one record type and implements [models.Repository]:
//   - [UserRepository] : Identities, looked up by username
//   - [ProfileRepository] : Profiles, looked up by user
//   - [AlbumRepository] : Albums, looked up by slug or owner
//   - [SongRepository] : Songs, listed in track order
//   - [PlaylistRepository] : Playlists and their song membership
//   - [RatingRepository], [CommentRepository] : Standalone feedback records
//
// Create and Update are raw writes. They run the record's derivation step (slug, position, creation time) but not
// its field validators; callers that want full validation call the repository's Clean method first. Database
// constraints always apply, and a violated UNIQUE, NOT NULL, CHECK or FOREIGN KEY constraint is returned as a
// [*models.ValidationError].
//
// Deletes are hard deletes so that the schema's ON DELETE rules apply: removing a profile nulls the owner of its
// albums and removes its playlists; removing an album removes its songs.
//
// Sequence numbers provide stable ordering independent of UUIDs and creation timestamps.
// [nextSequence] increments per-table counters inside the caller's transaction.
package repositories
