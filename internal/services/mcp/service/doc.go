// Package service builds the tournament MCP server and serves it over stdio
// or streamable HTTP.
package service
