// Package validator checks `validate` tags on inbound requests before they
// reach a usecase. Failures come back as a snake_case field map so the
// router can return them next to the JSON fields the caller sent.
package validator
