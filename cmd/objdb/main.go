// Command objdb is the CLI entrypoint: serve starts the TCP endpoint, mcp
// starts the MCP admin server, status reports the on-disk catalog.
package main

import "github.com/corentin-rs/objdb/internal/cli"

func main() {
	cli.Execute()
}
