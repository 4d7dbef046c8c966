// Package catalog is the boundary to the remote disc catalog.
//
// Client is the narrow interface the matcher depends on: look up disc IDs by
// track hash or universal hash, and fetch a disc's detail page. HTTPClient
// implements it against the catalog website. It keeps a cookie session,
// logs in lazily, pages through quicksearch results sequentially, and scrapes
// detail pages with fixed patterns. Every request honours the caller's context
// plus a per-request timeout, and transient failures are retried with
// exponential backoff.
package catalog
