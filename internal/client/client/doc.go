// Package client contains the local persistence bootstrap for the medguide
// app: opening the on-device SQLite database and applying the embedded
// goose migrations (InitDatabase, RunMigrations).
//
// The remote HTTP API, screens and navigation live outside this module and
// consume the services wired on top of the database opened here.
package client
