// Package gql is the data client: it runs named GraphQL operations against a
// remote endpoint and keeps one cached result per distinct read operation.
//
// Reads are cache-first. Writes may carry post-write directives that either
// re-read an operation from the network (Refetch) or rewrite its cached
// result in place (Patch).
package gql
