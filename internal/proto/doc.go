// Package proto is the wire contract of the wardminutes document store:
// request/response messages, a JSON codec registered with gRPC under the
// "json" content-subtype, and the DocumentStore service descriptor with its
// client and server stubs.
package proto
