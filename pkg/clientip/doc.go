// Package clientip resolves the address of the HTTP client.
//
// By default only the connection peer (RemoteAddr) is trusted. When the relay
// runs behind a reverse proxy, TrustProxyHeaders makes Resolve consult
// X-Forwarded-For and X-Real-IP first.
package clientip
