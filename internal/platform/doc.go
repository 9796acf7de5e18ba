// Package platform contains OS and filesystem glue: filename sanitization,
// directory helpers, best-effort output file discovery, folder scanning and
// open/reveal integration.
package platform
