// Package job implements the download job runner and the background
// execution bridge. The runner turns a selection of media entries into
// sequential download attempts with bounded retry, archive-aware
// bookkeeping, best-effort output discovery and durable history records.
// The bridge runs such work off the interactive thread and relays typed
// events back over a channel, guaranteeing exactly one terminal event per
// job.
package job
