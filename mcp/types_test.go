package mcp

import "testing"

func TestDecodeMessageRequestWithNullIDIsStillARequest(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"jsonrpc":"2.0","method":"ping","id":null}`))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if msg.Request == nil {
		t.Fatal("expected an explicit null id to decode as a Request, got Notification")
	}
	if msg.Request.ID != nil {
		t.Errorf("expected decoded id to be nil, got %v", msg.Request.ID)
	}
}

func TestDecodeMessageAbsentIDIsNotification(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if msg.Notification == nil {
		t.Fatal("expected a message with no id field to decode as a Notification")
	}
	if msg.Request != nil {
		t.Error("did not expect a Request for a message with no id field")
	}
}

func TestDecodeMessageRequestWithStringID(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"jsonrpc":"2.0","method":"tools/list","id":"abc"}`))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if msg.Request == nil {
		t.Fatal("expected a Request")
	}
	if msg.Request.ID != "abc" {
		t.Errorf("expected id %q, got %v", "abc", msg.Request.ID)
	}
}

func TestDecodeMessageBatch(t *testing.T) {
	msg, err := DecodeMessage([]byte(`[{"jsonrpc":"2.0","method":"ping","id":1},{"jsonrpc":"2.0","method":"notifications/initialized"}]`))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if len(msg.Batch) != 2 {
		t.Fatalf("expected a batch of 2, got %d", len(msg.Batch))
	}
	if msg.Batch[0].Request == nil {
		t.Error("expected the first batch item to be a Request")
	}
	if msg.Batch[1].Notification == nil {
		t.Error("expected the second batch item to be a Notification")
	}
}

func TestDecodeMessageEmptyBatchIsError(t *testing.T) {
	_, err := DecodeMessage([]byte(`[]`))
	if err != ErrEmptyBatch {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestDecodeMessageInvalidJSONIsError(t *testing.T) {
	_, err := DecodeMessage([]byte(`not json`))
	if err == nil {
		t.Fatal("expected an error for invalid JSON")
	}
}

func TestDecodeMessageLeadingWhitespaceBeforeBatch(t *testing.T) {
	msg, err := DecodeMessage([]byte("  \n[{\"jsonrpc\":\"2.0\",\"method\":\"ping\",\"id\":1}]"))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	if len(msg.Batch) != 1 {
		t.Fatalf("expected a batch of 1, got %d", len(msg.Batch))
	}
}

func TestDecodeMessageWrongJSONRPCVersionIsParseError(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"jsonrpc":"1.0","method":"ping","id":1}`))
	rpcErr, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected *ErrorResponse, got %T (%v)", err, err)
	}
	if rpcErr.Code != ErrorCodeParseError {
		t.Errorf("expected code %d, got %d", ErrorCodeParseError, rpcErr.Code)
	}
}

func TestDecodeMessageMissingJSONRPCVersionIsParseError(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"method":"ping","id":1}`))
	rpcErr, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected *ErrorResponse, got %T (%v)", err, err)
	}
	if rpcErr.Code != ErrorCodeParseError {
		t.Errorf("expected code %d, got %d", ErrorCodeParseError, rpcErr.Code)
	}
}

func TestDecodeMessageMissingMethodIsInvalidRequest(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"jsonrpc":"2.0","id":1}`))
	rpcErr, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected *ErrorResponse, got %T (%v)", err, err)
	}
	if rpcErr.Code != ErrorCodeInvalidRequest {
		t.Errorf("expected code %d, got %d", ErrorCodeInvalidRequest, rpcErr.Code)
	}
}

func TestDecodeMessagePreservesParams(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"jsonrpc":"2.0","method":"tools/call","id":1,"params":{"name":"getTeaNames"}}`))
	if err != nil {
		t.Fatalf("DecodeMessage failed: %v", err)
	}
	params, ok := msg.Request.Params.(map[string]any)
	if !ok {
		t.Fatalf("expected params to decode as a map, got %T", msg.Request.Params)
	}
	if params["name"] != "getTeaNames" {
		t.Errorf("expected params.name %q, got %v", "getTeaNames", params["name"])
	}
}
