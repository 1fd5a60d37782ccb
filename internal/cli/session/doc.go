// Package session holds who, if anyone, is signed in to gymctl.
//
// A Store starts in the Initializing phase (Loading, not authenticated) and
// is resolved by CheckStatus, which re-verifies the persisted credential
// against GET me/. Session state is never restored from storage directly.
//
// Operations report where the user should go next as a Transition instead
// of navigating themselves; the caller owns navigation.
package session
