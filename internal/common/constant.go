// Package common contains shared constants and sentinel errors used across
// the wardminutes client and server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DateLayout is the ISO calendar date layout used for meeting dates.
const DateLayout = "2006-01-02"

// TimestampLayout is the ISO-8601 layout every timestamp is normalized to
// before it is compared, indexed or stored as text.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
