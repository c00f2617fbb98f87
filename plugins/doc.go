// Package plugins holds the built-in operations of the script interpreter.
// Register them all with NewRegistry, or pick single factories.
package plugins
