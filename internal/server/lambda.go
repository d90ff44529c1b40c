package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// HandleFunctionURL serves POST /optimize for a Lambda function URL. Other
// methods get the last computed plan, as GET /plan does.
func (s *Server) HandleFunctionURL(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	if event.RequestContext.HTTP.Method == http.MethodGet {
		plan := s.Last()
		if plan == nil {
			return errResp(http.StatusNotFound, "no plan computed yet")
		}
		return jsonResp(http.StatusOK, plan, nil)
	}

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req OptimizeRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}

	plan, hit, err := s.Optimize(ctx, req)
	if err != nil {
		if errors.Is(err, ErrBadRequest) {
			return errResp(http.StatusBadRequest, err.Error())
		}
		log.Printf("warning: optimize failed: %v", err)
		return errResp(http.StatusInternalServerError, err.Error())
	}

	cache := "miss"
	if hit {
		cache = "hit"
	}
	return jsonResp(http.StatusOK, plan, map[string]string{"X-Cache": cache})
}

func jsonResp(code int, v any, extra map[string]string) (events.LambdaFunctionURLResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return errResp(http.StatusInternalServerError, "encode response: "+err.Error())
	}
	headers := make(map[string]string, len(jsonHeader)+len(extra))
	for k, val := range jsonHeader {
		headers[k] = val
	}
	for k, val := range extra {
		headers[k] = val
	}
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: headers, Body: string(body)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}
