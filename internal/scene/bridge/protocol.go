package bridge

import (
	"encoding/json"
	"fmt"
)

const (
	MethodQueryComponents        = "query-components"
	MethodQueryComponentMetadata = "query-component-metadata"
	MethodSetProperty            = "set-property"
)

type request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Message string `json:"message"`
}

type nodeParams struct {
	Node string `json:"node"`
}

type metadataParams struct {
	Node          string `json:"node"`
	ComponentType string `json:"componentType"`
}

type setPropertyParams struct {
	Node  string `json:"node"`
	Path  string `json:"path"`
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

// RemoteError is an error reported by the host for one call.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("host %s: %s", e.Method, e.Message)
}
