// Package mcp implements the Model Context Protocol server that exposes the
// Sveriges Radio tools.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. The
// Server dispatches JSON-RPC 2.0 messages to a tools.Registry; three transports
// feed it messages.
//
// # Transports
//
//   - stdio: one JSON-RPC message per line on stdin, replies on stdout
//   - POST /mcp: Streamable HTTP, one request per POST, session via Mcp-Session-Id
//   - GET /sse + POST /messages?sessionId=: the HTTP+SSE transport used by
//     older clients; replies arrive on the event stream
//
// GET /health answers {"status":"healthy","service":"sverigesradio-mcp"}.
//
// # Tool Discovery
//
// Clients call tools/list to discover available tools:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/list",
//	  "id": 1
//	}
//
// Response includes tool schemas in JSON Schema format.
//
// # Tool Execution
//
// Clients call tools/call to execute a tool:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "get_playlist_rightnow",
//	    "arguments": {"channelId": 164}
//	  },
//	  "id": 2
//	}
//
// Tool failures (bad arguments, upstream errors) come back as a normal result
// with isError set. Only an unknown tool name is a JSON-RPC error.
//
// # Usage
//
//	server, err := mcp.NewServer(mcp.Config{Tools: registry, Logger: logger})
//	mux := http.NewServeMux()
//	server.RegisterRoutes(mux)
//
// or, for a local client:
//
//	err := server.ServeStdio(ctx, os.Stdin, os.Stdout)
//
// # Integration with Claude Desktop
//
//	{
//	  "mcpServers": {
//	    "sverigesradio": {
//	      "command": "sverigesradio-mcp",
//	      "args": ["stdio"]
//	    }
//	  }
//	}
package mcp
