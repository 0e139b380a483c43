// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response (Success or Error) follows the same JSON envelope, and
// [Error] is the single place where Go errors become status codes.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/ctxutil"
	"github.com/taibuivan/inkpost/pkg/pagination"
)

// SuccessEnvelope wraps single-resource payloads as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps list payloads as {"data": [...], "meta": {...}}.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON encodes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes 200 {"data": data}.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes 201 {"data": data}.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes 200 with the page and its metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// Error renders err. Anything that is not an [apperr.AppError] becomes a
// generic 500 and its text stays in the server log.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()

	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	level := slog.LevelDebug
	if appError.HTTPStatus >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	ctxutil.GetLogger(ctx).Log(ctx, level, "api_error_response",
		slog.String("code", appError.Code),
		slog.Int("status", appError.HTTPStatus),
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
		slog.Any("cause", appError.Cause),
	)

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
