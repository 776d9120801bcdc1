// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Operation names accepted by Dispatcher.Handle.
const (
	OpSearchProjects = "search_projects"
	OpAnalyzeFunding = "analyze_funding"
	OpGetStatistics  = "get_statistics"
)

// Error codes carried in a failed Response.
const (
	CodeInvalidArgument  = "invalid_argument"
	CodeUnknownOperation = "unknown_operation"
	CodeInternal         = "internal"
)

// Response is the structured result of one dispatched operation. Exactly
// one of Result and Error is set.
type Response struct {
	OK     bool       `json:"ok"`
	Result any        `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed operation.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatisticsRequest is the argument of get_statistics.
type StatisticsRequest struct {
	PagesToAnalyze int `json:"pages_to_analyze,omitempty"`
}

// Dispatcher routes named operations with JSON arguments to a Service.
// It never returns an error or panics: every failure becomes a Response.
type Dispatcher struct {
	svc *Service
	log *zap.Logger
}

// NewDispatcher creates a Dispatcher over svc.
func NewDispatcher(svc *Service) *Dispatcher {
	return &Dispatcher{svc: svc, log: svc.log}
}

// Operations lists the operation names Handle accepts.
func (d *Dispatcher) Operations() []string {
	return []string{OpSearchProjects, OpAnalyzeFunding, OpGetStatistics}
}

// Handle runs operation op with the JSON-encoded args. Empty args are
// treated as an empty object; unknown fields are rejected.
func (d *Dispatcher) Handle(ctx context.Context, op string, args json.RawMessage) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error("operation panicked", zap.String("operation", op), zap.Any("panic", rec))
			resp = failure(CodeInternal, fmt.Sprintf("internal error in %s: %v", op, rec))
		}
	}()

	var (
		result any
		err    error
	)
	switch op {
	case OpSearchProjects:
		var req SearchRequest
		if err = decodeArgs(args, &req); err == nil {
			result, err = d.svc.Search(ctx, req)
		}
	case OpAnalyzeFunding:
		var req FundingRequest
		if err = decodeArgs(args, &req); err == nil {
			result, err = d.svc.AnalyzeFunding(ctx, req)
		}
	case OpGetStatistics:
		var req StatisticsRequest
		if err = decodeArgs(args, &req); err == nil {
			result, err = d.svc.Statistics(ctx, req.PagesToAnalyze)
		}
	default:
		return failure(CodeUnknownOperation, fmt.Sprintf("unknown operation %q", op))
	}

	if err != nil {
		code := CodeInternal
		if errors.Is(err, ErrInvalidArgument) {
			code = CodeInvalidArgument
		}
		d.log.Info("operation failed", zap.String("operation", op), zap.String("code", code), zap.Error(err))
		return failure(code, err.Error())
	}
	return Response{OK: true, Result: result}
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("decoding arguments: %v", err)
	}
	return nil
}

func failure(code, msg string) Response {
	return Response{Error: &ErrorBody{Code: code, Message: msg}}
}
