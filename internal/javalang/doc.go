// Package javalang models Java source files for code generation.
//
// It parses .java files with tree-sitter into a lightweight File/Class/
// Member model carrying byte spans into the original source, answers the
// type questions the classifier needs (boxing, assignability, throwables)
// from a curated JDK knowledge table, and applies structural edits through
// an EditScope that stages insertions and removals and commits them as one
// atomic splice validated by a reparse.
package javalang
