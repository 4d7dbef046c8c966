// Package main hosts the discsub CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline runs,
// catalog lookups, report re-rendering, history queries and configuration
// scaffolding. Configuration, logging and catalog wiring live in the command
// context so subcommands only describe their flags and output.
package main
