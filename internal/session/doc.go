// Package session tracks who is signed in.
//
// The backend writes the signed-in user into the user_info cookie as URL-encoded JSON. [Store] reads it, holds the
// resulting [State] and notifies subscribers on every change. State transitions go through the pure [Reduce]
// function so they can be tested without cookies or a backend.
package session
