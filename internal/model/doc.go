// Package model defines the domain data structures used across the app:
// media entries discovered during a fetch, download job requests, durable
// history records, and conversion task state.
package model
