// Package initconfig provides the init-config command, which writes a
// documented sample configuration file seeded with the default settings.
package initconfig
