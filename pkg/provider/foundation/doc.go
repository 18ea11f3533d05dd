// Package foundation adapts Apple's on-device Foundation Models framework
// (macOS 26, Apple Intelligence) to the provider interface.
//
// The adapter is compiled in two flavors: on darwin it bridges to the
// framework through github.com/blacktop/go-foundationmodels, which loads
// a Swift shim via purego; everywhere else it is a stub that reports the
// backend as unavailable so the rest of the server still builds and the
// openai backend remains usable.
package foundation

// Name is the backend identifier used in configuration and logs.
const Name = "foundation"
