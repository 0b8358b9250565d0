// Package cli constructs the reposync command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives. It exposes helpers to build application instances so the
// command set can be executed from tests as well as from main.
package cli
