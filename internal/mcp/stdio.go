// ABOUTME: Stdio transport: newline-delimited JSON-RPC on a reader/writer pair.
// ABOUTME: Requests run concurrently; replies are written one line at a time.

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// ServeStdio reads messages from in until EOF or ctx is done and writes
// replies to out. It waits for in-flight requests before returning.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		writeMu sync.Mutex
		wg      sync.WaitGroup
	)
	defer wg.Wait()

	enc := json.NewEncoder(out)
	write := func(resp *JSONRPCResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := enc.Encode(resp); err != nil {
			s.logger.Warn("failed to write stdio response", "error", err)
		}
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), MaxRequestBodySize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		msg := append([]byte(nil), line...)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if resp := s.HandleMessage(ctx, msg); resp != nil {
				write(resp)
			}
		}()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	s.logger.Info("stdin closed, stopping stdio transport")
	return nil
}
