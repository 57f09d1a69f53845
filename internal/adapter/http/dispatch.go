package httpadapter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"farmtycoon/internal/domain/farm"
)

//go:embed schema/dispatch.json
var dispatchSchemaJSON string

var dispatchSchema = jsonschema.MustCompileString("dispatch.json", dispatchSchemaJSON)

var ErrInvalidAction = errors.New("invalid action")

type dispatchEnvelope struct {
	Type farm.ActionType `json:"type"`
}

// parseAction validates a raw `{type, ...}` body against the dispatch schema
// and decodes it into the matching reducer action.
func parseAction(body []byte) (farm.Action, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	if err := dispatchSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	var env dispatchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	var action farm.Action
	switch env.Type {
	case farm.ActionSpawnAnimal:
		var a farm.SpawnAnimal
		if err := json.Unmarshal(body, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	case farm.ActionSpawnStatic:
		var a farm.SpawnStatic
		if err := json.Unmarshal(body, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	case farm.ActionUpdatePosition:
		var a farm.UpdatePosition
		if err := json.Unmarshal(body, &a.PositionUpdate); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	case farm.ActionBatchUpdatePositions:
		var a farm.BatchUpdatePositions
		if err := json.Unmarshal(body, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	case farm.ActionRemoveEntity:
		var a farm.RemoveEntity
		if err := json.Unmarshal(body, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	case farm.ActionUpdateStats:
		var a farm.UpdateStats
		if err := json.Unmarshal(body, &a.StatsUpdate); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	case farm.ActionTogglePause:
		action = farm.TogglePause{}
	case farm.ActionPatchEntities:
		var a farm.PatchEntities
		if err := json.Unmarshal(body, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		action = a
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, env.Type)
	}
	return action, nil
}
