// Package server exposes the dataset preparation jobs as MCP (Model Context
// Protocol) tools, so an MCP client can drive generation, splitting and
// inspection without a shell.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Inspection:
//   - image_dimensions: Get width, height and format of an image file
//   - catalog_inspect: List the classes a source directory would produce
//   - annotations_read: Parse a YOLO label file, optionally in pixels
//
// Jobs:
//   - dataset_generate: Generate synthetic samples with YOLO labels
//   - dataset_split: Split matched images and labels into train/val
//   - images_binarize: Threshold a directory of images
//   - annotations_preview: Draw a label file's boxes over its image
//
// # Configuration
//
// Job tools start from the configuration the server was created with (the
// CLI's defaults plus any --config file). Tool arguments use the same key
// names as the TOML file and override only the keys they carry.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
