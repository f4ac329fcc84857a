// Package client contains the client-side plumbing of wardminutes.
//
// # Overview
//
//  1. Client is the contract of the remote document store: Ping,
//     Authenticate, Get/Set/List/DeleteDocument and PresignBackup.
//  2. GRPCClient implements it over gRPC with the JSON codec from
//     internal/proto. An interceptor attaches the access token and
//     re-authenticates once when the server reports an expired token.
//     gRPC status codes are mapped to sentinel errors.
//  3. InitDatabase and RunMigrations open the local SQLite database and
//     apply the embedded goose migrations; NewRepositories wires the local
//     record cache, the draft slots and the shell cache on top of it.
//
// # Error Handling
//
// Callers match with errors.Is: ErrUnavailable, ErrUnauthorized,
// common.ErrorNotFound and common.ErrVersionConflict.
package client
