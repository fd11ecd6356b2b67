// Package hash signs outbound payloads so receivers can verify they came from
// this service and were not modified in transit.
package hash
