package storage

import (
	"context"
	"encoding/json"

	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/utils"
	"go.uber.org/zap"
)

// StorageKey names the persisted blob in every backend.
const StorageKey = "littlesprout_data_v1"

// Store persists the whole application state as one blob.
type Store interface {
	Load(ctx context.Context) (*model.AppState, error)
	Save(ctx context.Context, state *model.AppState) error
	Clear(ctx context.Context) error
}

// decodeState turns a stored blob into a state. A blob that does not parse
// is logged and replaced by an empty state so the app still opens.
func decodeState(ctx context.Context, data []byte) *model.AppState {
	logger := utils.GetLogger(ctx)

	state := model.NewAppState()
	if len(data) == 0 {
		return state
	}
	if err := json.Unmarshal(data, state); err != nil {
		logger.Error("could not load state, starting empty", zap.String("key", StorageKey), zap.Error(err))
		return model.NewAppState()
	}
	// blobs written before vaccines existed have no such field
	if state.Vaccines == nil {
		state.Vaccines = []model.VaccineRecord{}
	}
	if state.Records == nil {
		state.Records = []model.GrowthRecord{}
	}
	return state
}

func encodeState(state *model.AppState) ([]byte, error) {
	if state == nil {
		state = model.NewAppState()
	}
	return json.Marshal(state)
}
