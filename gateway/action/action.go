/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package action

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ContentTypeJSON is the content-type key bodies are nested under, in both
// directions.
const ContentTypeJSON = "application/json"

// unknown is echoed for envelope fields the request did not carry.
const unknown = "unknown"

// defaultMessageVersion is echoed when the request carried no messageVersion.
var defaultMessageVersion = json.RawMessage("1")

// Parameter is a single named argument.
type Parameter struct {
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts any scalar for value and keeps its textual form, so a
// numeric or boolean argument does not fail the whole request.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Name, p.Type, p.Value = raw.Name, raw.Type, scalar(raw.Value)
	return nil
}

// scalar renders a raw JSON value as text. Strings are unquoted, null is
// empty, and anything else keeps its JSON form.
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// Request is a single action-group invocation.
type Request struct {
	MessageVersion json.RawMessage `json:"messageVersion,omitempty"`
	ActionGroup    string          `json:"actionGroup"`
	APIPath        string          `json:"apiPath"`
	HTTPMethod     string          `json:"httpMethod"`
	Parameters     []Parameter     `json:"parameters,omitempty"`
	// RequestBody is kept raw so that a structurally unexpected body degrades
	// to "no arguments" during resolution instead of rejecting the request.
	RequestBody json.RawMessage `json:"requestBody,omitempty"`
	SessionID   string          `json:"sessionId,omitempty"`
	InputText   string          `json:"inputText,omitempty"`
}

// Source is the argument carrier of a Request: either a FlatParameterList or a
// NestedRequestBody.
type Source interface {
	isSource()
}

// FlatParameterList carries arguments as a top-level parameter list.
type FlatParameterList []Parameter

// NestedRequestBody carries arguments under
// requestBody.content["application/json"].properties.
type NestedRequestBody json.RawMessage

func (FlatParameterList) isSource() {}
func (NestedRequestBody) isSource() {}

// Source returns the shape carrying the caller's arguments. A non-empty
// parameter list takes precedence over any request body.
func (r *Request) Source() Source {
	if len(r.Parameters) > 0 {
		return FlatParameterList(r.Parameters)
	}
	return NestedRequestBody(r.RequestBody)
}

// Properties decodes the nested property list. A missing or malformed body
// yields a nil list and an error describing the mismatch.
func (b NestedRequestBody) Properties() ([]Parameter, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var body struct {
		Content map[string]struct {
			Properties []Parameter `json:"properties"`
		} `json:"content"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, fmt.Errorf("decoding request body: %w", err)
	}
	return body.Content[ContentTypeJSON].Properties, nil
}

// Envelope is the outer response shape the agent platform expects.
type Envelope struct {
	Response       Response        `json:"response"`
	MessageVersion json.RawMessage `json:"messageVersion"`
}

// Response echoes the routing fields of the request alongside the outcome.
type Response struct {
	ActionGroup    string                  `json:"actionGroup"`
	APIPath        string                  `json:"apiPath"`
	HTTPMethod     string                  `json:"httpMethod"`
	HTTPStatusCode int                     `json:"httpStatusCode"`
	ResponseBody   map[string]ResponseBody `json:"responseBody"`
}

// ResponseBody holds the operation payload.
type ResponseBody struct {
	Body any `json:"body"`
}

// Respond wraps status and body into the envelope for req.
func Respond(req *Request, status int, body any) *Envelope {
	env := &Envelope{
		Response: Response{
			ActionGroup:    orUnknown(req.ActionGroup),
			APIPath:        orUnknown(req.APIPath),
			HTTPMethod:     orUnknown(req.HTTPMethod),
			HTTPStatusCode: status,
			ResponseBody: map[string]ResponseBody{
				ContentTypeJSON: {Body: body},
			},
		},
		MessageVersion: req.MessageVersion,
	}
	if len(env.MessageVersion) == 0 {
		env.MessageVersion = defaultMessageVersion
	}
	return env
}

// Body returns the payload carried by the envelope.
func (e *Envelope) Body() any {
	return e.Response.ResponseBody[ContentTypeJSON].Body
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
