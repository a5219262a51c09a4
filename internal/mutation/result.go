package mutation

import (
	"errors"

	"scenebridge/internal/property"
	"scenebridge/internal/scene"
)

// Request asks for one property on one component to be set.
type Request struct {
	Node          string `json:"nodeUuid"`
	ComponentType string `json:"componentType"`
	Property      string `json:"property"`
	PropertyType  string `json:"propertyType,omitempty"`
	Value         any    `json:"value"`
}

// Result is the structured outcome of a mutation. Failures are reported in
// Error and Code; SetComponentProperty never returns a Go error.
type Result struct {
	Success     bool               `json:"success"`
	RequestID   string             `json:"requestId"`
	Message     string             `json:"message,omitempty"`
	Error       string             `json:"error,omitempty"`
	Code        property.ErrorCode `json:"code,omitempty"`
	Instruction string             `json:"instruction,omitempty"`
	Details     map[string]any     `json:"details,omitempty"`
	Data        *Data              `json:"data,omitempty"`
}

type Data struct {
	ActualValue    any                   `json:"actualValue"`
	ExpectedValue  any                   `json:"expectedValue"`
	ChangeVerified bool                  `json:"changeVerified"`
	PropertyType   property.SemanticType `json:"propertyType"`
	ComponentIndex int                   `json:"componentIndex"`
	Writes         []string              `json:"writes"`
	SceneLocalID   string                `json:"sceneLocalId,omitempty"`
	VerifyError    string                `json:"verifyError,omitempty"`
}

func failure(err error) Result {
	var pe *property.Error
	if !errors.As(err, &pe) {
		return Result{Error: err.Error(), Code: property.CodeHostError}
	}
	res := Result{Code: pe.Code, Error: pe.Message, Details: safeDetails(pe.Details)}
	if pe.Err != nil {
		res.Error = pe.Message + ": " + pe.Err.Error()
	}
	return res
}

func safeDetails(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	safe, _ := scene.JSONSafe(details).(map[string]any)
	return safe
}
