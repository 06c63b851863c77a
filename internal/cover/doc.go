// Package cover locates audiobook cover art in sidecar images or
// embedded tags and embeds it into finished M4B files via AtomicParsley.
package cover
