// Package clock abstracts the wall clock. Business code depends on Clocker so
// tests can pin time with Fake.
package clock
