/*
Package observability provides lifecycle hooks for auditing simulator sessions.

LoggingHooks writes every accepted transition, rejection and reset as a
structured log record. Hooks compose with domain.LifecycleHooks.Merge, so the
same Manager can log and feed metrics at once.
*/
package observability
