// Package config defines the immutable provisioning request built from CLI
// input, its validation rules, and the optional on-disk provisioning profile.
//
// A Request is constructed once per run, validated before any side effect,
// and then threaded read-only through every component. There is no global
// state: everything a component needs arrives as a parameter.
package config
