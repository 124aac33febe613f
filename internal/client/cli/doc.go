// Package cli implements the interactive shell of the medguide client.
// It stands in for the mobile UI during development and support sessions:
// register, login, logout, whoami and token inspection, all driving the
// same local credential and session services the app uses.
package cli
