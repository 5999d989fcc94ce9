// Package mynah generates toString methods for Java classes from
// user-editable templates and inserts them into source files in place.
package mynah

// Version is the current Mynah release.
const Version = "0.3.0"
