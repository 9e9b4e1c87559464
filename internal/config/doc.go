// Package config defines the desk clock settings and provides helpers to
// load, validate and save them in YAML format.
//
// Durations are Go duration strings ("1.5s"), states and lookup policies use
// their kebab-case names, and the alarm time is written as HH:MM.
package config
