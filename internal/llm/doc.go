// Package llm talks to the text-generation service and turns its two-line
// reply into a classification result. Calls are synchronous, one request at
// a time, bounded by a timeout, and retried only on transient transport
// failures.
package llm
