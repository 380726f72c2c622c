// Package ranking holds a user's top-ten list: which song sits at each rank from 1 to 10.
//
// [Store] keeps the rank→song assignments and the set of song identities present in the list as a single structure.
// Every mutation goes through the store's methods, so the identity set can never disagree with the assignments:
// an identity is present exactly when some rank holds a song with that identity.
//
// Rules:
//   - A rank holds at most one song; adding at an occupied rank evicts the occupant.
//   - A song whose (name, artist) identity is already ranked anywhere is rejected with [shared.ErrDuplicateSong] and nothing changes.
//   - Entries are always read back in ascending numeric rank (10 sorts after 2).
//   - A list can be persisted only when it holds exactly ten songs.
//
// The store is not safe for concurrent use; callers apply mutations from a single event loop.
package ranking
