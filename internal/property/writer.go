package property

import (
	"context"
	"fmt"
	"strings"

	"scenebridge/internal/scene"
)

// Write is one path-addressed write issued to the host.
type Write struct {
	Path         scene.Path
	Value        any
	ExplicitType string
}

// WritePlan is executed in order.
type WritePlan []Write

// compositeFields lists properties the host stores as two independently
// defaulted sub-fields; they are always written first-field then second-field.
var compositeFields = map[string][2]string{
	"contentSize": {"width", "height"},
	"anchorPoint": {"x", "y"},
}

// CheckComposite rejects values for split properties that lack either
// sub-field. Plan would otherwise write nil into the missing half.
func CheckComposite(name string, value any) error {
	fields, ok := compositeFields[name]
	if !ok {
		return nil
	}
	m, _ := value.(map[string]any)
	var missing []string
	for _, f := range fields {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return newError(CodeTypeCoercion, map[string]any{
		"requiredFields": []string{fields[0], fields[1]},
		"missingFields":  missing,
		"inputKind":      kindOf(value),
	}, "%s needs %s and %s fields", name, fields[0], fields[1])
}

// Plan builds the writes for one coerced value. referenceType is the resolved
// component class for component references and is ignored otherwise.
func Plan(componentIndex int, name string, t SemanticType, value any, referenceType string) WritePlan {
	base := scene.ComponentPath(componentIndex, name)

	if fields, ok := compositeFields[name]; ok {
		if m, ok := value.(map[string]any); ok {
			return WritePlan{
				{Path: base.Child(fields[0]), Value: m[fields[0]], ExplicitType: "Number"},
				{Path: base.Child(fields[1]), Value: m[fields[1]], ExplicitType: "Number"},
			}
		}
	}

	return WritePlan{{Path: base, Value: value, ExplicitType: explicitType(name, t, referenceType)}}
}

func explicitType(name string, t SemanticType, referenceType string) string {
	switch t {
	case TypeAssetRef:
		return AssetClass(name)
	case TypeColor:
		return "cc.Color"
	case TypeVec2:
		return "cc.Vec2"
	case TypeVec3:
		return "cc.Vec3"
	case TypeSize:
		return "cc.Size"
	case TypeNodeRef, TypeNodeRefArray:
		return "cc.Node"
	case TypeComponentRef:
		return referenceType
	}
	return ""
}

func (p WritePlan) String() string {
	var b strings.Builder
	for _, w := range p {
		value, err := scene.MarshalValue(w.Value)
		if err != nil {
			value = []byte(fmt.Sprint(w.Value))
		}
		fmt.Fprintf(&b, "%s = %s", w.Path, value)
		if w.ExplicitType != "" {
			fmt.Fprintf(&b, " (%s)", w.ExplicitType)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Execute issues every write in order and stops at the first failure.
// Writes that already succeeded are not rolled back.
func Execute(ctx context.Context, host scene.Host, node string, plan WritePlan) error {
	for i, w := range plan {
		if err := host.WriteProperty(ctx, node, w.Path, w.Value, w.ExplicitType); err != nil {
			return &Error{
				Code:    CodeWriteFailure,
				Message: fmt.Sprintf("writing %s", w.Path),
				Details: map[string]any{
					"path":            w.Path.String(),
					"completedWrites": i,
					"plannedWrites":   len(plan),
				},
				Err: err,
			}
		}
	}
	return nil
}
