// Package domain defines the MCP tools and resources of the tournament
// server: their input and output schemas and the handlers behind them.
package domain
