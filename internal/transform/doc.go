// Package transform runs pipeline stages through a Client, either a remote
// command service over gRPC or the local registry, applying per-call
// timeouts and retries.
package transform
