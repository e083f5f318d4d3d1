// Package worklog derives attendance, wage, calendar and query views from raw tracker records.
//
// Every function is pure: inputs are never mutated, identical inputs give identical outputs, and
// missing or empty input yields zero values instead of errors.
package worklog
