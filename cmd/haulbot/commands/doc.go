// Package commands defines the haulbot CLI.
//
// Commands
//
//   - serve    Run the contracts HTTP API and the expiry sweeper
//   - quote    Price a delivery offline against the local catalog
//   - token    Issue an access token for a user (bot front end, testing)
//   - archive  Inspect the PostgreSQL contract archive
//
// Configuration comes from app.env and the environment; see internal/config.
package commands
