// Package session stores board sessions for the sprite board server.
//
// Manager keeps sessions in memory under short lower-case hex IDs drawn from
// crypto/rand. IDs are matched case-insensitively and may not contain path
// separators, dots or spaces, so they are safe to use as file names. Each session
// owns one board plus its config ID, timestamps and collision history.
//
// With a SessionPersistence attached the manager saves a session when it is
// created and whenever the service reports a change, and lazily loads
// sessions it does not hold in memory. FilePersistence writes one JSON file
// per session containing the board snapshot; writes go through a temporary
// file and a rename.
//
// Two background loops keep memory in check:
//
//	go manager.RunCleanup(ctx, time.Hour, ttl) // evict idle sessions
//	go manager.RunSync(ctx, 5*time.Second)      // drop sessions whose file was deleted
//
// Evicted sessions stay on disk and are loaded again on the next Get.
package session
