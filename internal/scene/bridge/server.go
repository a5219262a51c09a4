package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"scenebridge/internal/scene"
)

// Handler serves host over the bridge protocol. Requests on one connection
// are handled in order.
func Handler(host scene.Host, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		log := logger.With("remote", r.RemoteAddr)
		log.Info("bridge client connected")
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn("bridge client dropped", "error", err)
				} else {
					log.Info("bridge client disconnected")
				}
				return
			}

			resp := dispatch(r.Context(), host, data)
			out, err := json.Marshal(resp)
			if err != nil {
				out, _ = json.Marshal(response{ID: resp.ID, Error: &rpcError{Message: err.Error()}})
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				log.Warn("writing bridge response", "error", err)
				return
			}
		}
	})
}

func dispatch(ctx context.Context, host scene.Host, data []byte) response {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return response{Error: &rpcError{Message: fmt.Sprintf("malformed request: %v", err)}}
	}

	result, err := invoke(ctx, host, req)
	if err != nil {
		return response{ID: req.ID, Error: &rpcError{Message: err.Error()}}
	}
	raw, err := json.Marshal(scene.JSONSafe(result))
	if err != nil {
		return response{ID: req.ID, Error: &rpcError{Message: err.Error()}}
	}
	return response{ID: req.ID, Result: raw}
}

func invoke(ctx context.Context, host scene.Host, req request) (any, error) {
	switch req.Method {
	case MethodQueryComponents:
		var p nodeParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		comps, err := host.QueryComponents(ctx, p.Node)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(comps))
		for _, comp := range comps {
			out = append(out, comp.Raw)
		}
		return out, nil

	case MethodQueryComponentMetadata:
		var p metadataParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		meta, err := host.QueryComponentMetadata(ctx, p.Node, p.ComponentType)
		if err != nil {
			return nil, err
		}
		return meta, nil

	case MethodSetProperty:
		var p setPropertyParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		path, err := scene.ParsePath(p.Path)
		if err != nil {
			return nil, err
		}
		if err := host.WriteProperty(ctx, p.Node, path, p.Value, p.Type); err != nil {
			return nil, err
		}
		return true, nil
	}
	return nil, fmt.Errorf("unknown method %q", req.Method)
}
