/*
Package session implements the session coordinator and its per-session management.

A Coordinator holds the single live automaton of one session together with the
outcome of the last interaction. The Manager looks coordinators up by session
identity, serializes interactions on the same session (local mutex plus an
optional distributed lock) and keeps snapshots in a ports.SessionStore between
interactions. Sessions never share mutable state.
*/
package session
