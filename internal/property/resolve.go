package property

import (
	"context"
	"strings"

	"scenebridge/internal/scene"
)

// DefaultGenericBases are class names too broad to identify a referenced component type.
var DefaultGenericBases = []string{"cc.Component", "cc.Object", "Component", "Object"}

// primitiveTypeNames appear in metadata "type" fields but never name a component class.
var primitiveTypeNames = map[string]struct{}{
	"string": {}, "number": {}, "boolean": {}, "integer": {}, "float": {},
	"enum": {}, "object": {}, "array": {}, "unknown": {},
}

type Resolver struct {
	Host         scene.Host
	GenericBases []string
}

type ResolveRequest struct {
	Node       string
	Component  scene.ComponentSnapshot
	Property   string
	TargetNode string
}

// Resolution identifies the component a reference property should point at.
// SceneLocalID is the component's own id, never the target node's id.
type Resolution struct {
	ExpectedType string
	TargetNode   string
	SceneLocalID string
}

// Resolve finds the first component on the target node whose type matches
// the class the property expects.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (Resolution, error) {
	res := Resolution{TargetNode: req.TargetNode}
	if strings.TrimSpace(req.TargetNode) == "" {
		return res, newError(CodeReferenceResolution, map[string]any{"property": req.Property},
			"no target node given for component reference %q", req.Property)
	}

	expected, err := r.expectedType(ctx, req)
	if err != nil {
		return res, err
	}
	res.ExpectedType = expected

	comps, err := r.Host.QueryComponents(ctx, req.TargetNode)
	if err != nil {
		e := newError(CodeReferenceResolution, map[string]any{
			"property":     req.Property,
			"expectedType": expected,
			"targetNode":   req.TargetNode,
		}, "cannot read components of target node %s", req.TargetNode)
		e.Err = err
		return res, e
	}

	idx, ok := scene.FindComponent(comps, expected)
	if !ok {
		return res, newError(CodeReferenceResolution, targetDetails(req, expected, comps),
			"target node %s has no %s component (found: %s)",
			req.TargetNode, expected, strings.Join(scene.ComponentTypes(comps), ", "))
	}

	id := scene.ComponentIdentity(comps[idx])
	if id == "" {
		return res, newError(CodeReferenceResolution, targetDetails(req, expected, comps),
			"cannot extract the scene-local id of %s on node %s", expected, req.TargetNode)
	}
	res.SceneLocalID = id
	return res, nil
}

func (r *Resolver) expectedType(ctx context.Context, req ResolveRequest) (string, error) {
	if d, ok := lookupDescriptor(req.Component, req.Property); ok && d.Wrapped {
		if t := r.typeFromDescriptor(d); t != "" {
			return t, nil
		}
	}

	meta, err := r.Host.QueryComponentMetadata(ctx, req.Node, req.Component.Type)
	if err != nil {
		e := newError(CodeReferenceResolution, map[string]any{
			"property":  req.Property,
			"component": req.Component.Type,
		}, "cannot read property metadata of %s", req.Component.Type)
		e.Err = err
		return "", e
	}
	if entry, ok := meta[req.Property]; ok {
		if t := r.typeFromDescriptor(toMetadata(entry)); t != "" {
			return t, nil
		}
	}

	return "", newError(CodeReferenceResolution, map[string]any{
		"property":  req.Property,
		"component": req.Component.Type,
	}, "property %q on %s carries no type metadata; cannot tell which component it references",
		req.Property, req.Component.Type)
}

// toMetadata reads a metadata entry, which is a descriptor without a value.
func toMetadata(v any) Descriptor {
	m, ok := v.(map[string]any)
	if !ok {
		return Descriptor{}
	}
	d := Descriptor{Wrapped: true}
	d.TypeName, _ = m["type"].(string)
	d.Ctor, _ = m["ctor"].(string)
	d.Extends = stringList(m["extends"])
	return d
}

// typeFromDescriptor picks the expected class from type, then ctor, then the
// first specific entry of extends.
func (r *Resolver) typeFromDescriptor(d Descriptor) string {
	for _, candidate := range []string{d.TypeName, d.Ctor} {
		if r.specific(candidate) {
			return candidate
		}
	}
	for _, base := range d.Extends {
		if r.specific(base) {
			return base
		}
	}
	return ""
}

func (r *Resolver) specific(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, ok := primitiveTypeNames[strings.ToLower(name)]; ok {
		return false
	}
	bases := r.GenericBases
	if bases == nil {
		bases = DefaultGenericBases
	}
	for _, base := range bases {
		if scene.SameType(base, name) {
			return false
		}
	}
	return true
}

func targetDetails(req ResolveRequest, expected string, comps []scene.ComponentSnapshot) map[string]any {
	found := make([]map[string]any, 0, len(comps))
	for _, comp := range comps {
		found = append(found, map[string]any{
			"type":         comp.Type,
			"sceneLocalId": scene.ComponentIdentity(comp),
		})
	}
	return map[string]any{
		"property":         req.Property,
		"expectedType":     expected,
		"targetNode":       req.TargetNode,
		"targetComponents": found,
	}
}
