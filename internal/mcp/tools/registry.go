package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobmatch/internal/domain"
	"github.com/honeycarbs/jobmatch/pkg/logging"
)

// CallRecorder counts tool invocations
type CallRecorder interface {
	RecordToolCall(tool string, success bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordToolCall(string, bool) {}

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server   *sdkmcp.Server
	logger   *logging.Logger
	recorder CallRecorder
	names    []string
}

// Register applies the provided tool options and returns the names of the
// registered tools
func Register(server *sdkmcp.Server, logger *logging.Logger, recorder CallRecorder, opts ...Option) []string {
	if logger == nil {
		logger = logging.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	reg := &registry{server: server, logger: logger, recorder: recorder}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg.names
}

// addTool registers handler and wraps it with call logging and metrics
func addTool[In, Out any](reg *registry, name, description string, handler sdkmcp.ToolHandlerFor[In, Out]) {
	logger := reg.logger
	recorder := reg.recorder

	sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		logger.Debug("tool called", "tool", name)

		res, out, err := handler(ctx, req, in)
		recorder.RecordToolCall(name, err == nil)
		if err != nil {
			logger.Warn("tool call failed", "tool", name, "code", domain.CodeOf(err), "err", err)
		}
		return res, out, err
	})
	reg.names = append(reg.names, name)
}
