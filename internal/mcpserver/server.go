package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/anthropics/claude-skills-go/internal/config"
	"github.com/anthropics/claude-skills-go/internal/engine"
	"github.com/anthropics/claude-skills-go/internal/rules"
	"github.com/anthropics/claude-skills-go/internal/skills"
	"github.com/anthropics/claude-skills-go/internal/watch"
)

// ServerName identifies this server in initialize responses and .mcp.json.
const ServerName = "claude-skills"

// snapshot is one consistent view of the loaded corpus. Reloads swap the
// whole snapshot under the mutex; tool calls read whichever snapshot is
// current when they start.
type snapshot struct {
	skills   []skills.Skill
	eng      *engine.Engine
	settings *config.Settings
}

// Server serves the corpus over stdio.
type Server struct {
	cwd     string
	version string

	mu   sync.RWMutex
	snap *snapshot
}

// New creates a server for the project at cwd and loads the initial
// snapshot.
func New(cwd, version string) (*Server, error) {
	s := &Server{cwd: cwd, version: version}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rebuilds the corpus snapshot from disk.
func (s *Server) Reload() error {
	settings, err := config.LoadSettings(s.cwd)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	sk, err := skills.Load(s.cwd)
	if err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}
	rs, err := rules.LoadAll(s.cwd)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}
	rs = append(rs, skills.Rules(sk)...)

	limits := engine.Limits{
		MaxActivations: settings.Skills.MaxActivations,
		MinScore:       settings.Skills.MinScore,
		Disabled:       settings.Skills.Disabled,
	}

	s.mu.Lock()
	s.snap = &snapshot{skills: sk, eng: engine.New(rs, limits), settings: settings}
	s.mu.Unlock()
	return nil
}

func (s *Server) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Serve reads line-delimited JSON-RPC requests from r and writes responses
// to w until EOF or ctx cancellation. A watcher over the .claude scopes
// triggers snapshot reloads.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.startWatcher(ctx)

	var writeMu sync.Mutex
	write := func(resp *Response) {
		writeMu.Lock()
		defer writeMu.Unlock()
		data, err := json.Marshal(resp)
		if err != nil {
			log.Errorf("marshaling response: %v", err)
			return
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			log.Errorf("writing response: %v", err)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			write(&Response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &RPCError{Code: CodeParseError, Message: "parse error"},
			})
			continue
		}

		resp := s.handle(&req)
		if resp != nil {
			write(resp)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

// startWatcher arms a background watcher that reloads the snapshot when
// project or user scope files change. Watch failures degrade to a static
// snapshot, not a dead server.
func (s *Server) startWatcher(ctx context.Context) {
	roots := watchRoots(s.cwd, s.current().settings)
	w, err := watch.New(roots, 0)
	if err != nil {
		log.Warnf("change watching unavailable: %v", err)
		return
	}

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			log.Warnf("watcher stopped: %v", err)
		}
	}()
	go func() {
		for range w.Events() {
			if err := s.Reload(); err != nil {
				log.Warnf("reloading corpus: %v", err)
			} else {
				log.Debug("corpus reloaded")
			}
		}
	}()
}

// handle dispatches one request. Notifications return nil.
func (s *Server) handle(req *Request) *Response {
	resp := &Response{JSONRPC: "2.0", ID: req.ID}
	if resp.ID == nil {
		resp.ID = json.RawMessage("null")
	}

	switch req.Method {
	case "initialize":
		resp.Result = InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    ServerCapabilities{Tools: &ToolsCapability{}},
			ServerInfo:      ServerInfo{Name: ServerName, Version: s.version},
		}
	case "notifications/initialized":
		return nil
	case "ping":
		resp.Result = struct{}{}
	case "tools/list":
		resp.Result = ToolsListResult{Tools: toolDefs()}
	case "tools/call":
		var params ToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: "invalid tools/call params"}
			break
		}
		result, err := s.callTool(&params)
		if err != nil {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: err.Error()}
			break
		}
		resp.Result = result
	default:
		if req.ID == nil {
			// Notifications without an id get no response, known or not.
			return nil
		}
		resp.Error = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}

	return resp
}
