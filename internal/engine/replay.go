package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/amixtum/dd2/internal/config"
	"github.com/amixtum/dd2/internal/domain"
	"github.com/amixtum/dd2/pkg/api"
)

var ErrReplayDiverged = errors.New("replay diverged")

// PlayReplay заново проигрывает ленту на свежей игре и возвращает ее.
// Команды, отклоненные при записи, в ленту не попадают, поэтому
// любая ошибка здесь означает расхождение.
func PlayReplay(ctx context.Context, cfg *config.Config, rec *domain.ReplaySession) (*Game, error) {
	g, err := NewGame("replay", cfg, rec.Seed)
	if err != nil {
		return nil, err
	}
	for i, a := range rec.Actions {
		cmd := api.ClientCommand{Action: a.Action.String(), Payload: a.Payload}
		if _, err := g.Handle(ctx, cmd); err != nil {
			g.Close()
			return nil, fmt.Errorf("replay step %d (%s): %w", i, a.Action, errors.Join(ErrReplayDiverged, err))
		}
	}
	if rec.Depth > 0 && rec.Depth != g.Map.Depth {
		g.Close()
		return nil, fmt.Errorf("%w: ended on depth %d, recorded %d", ErrReplayDiverged, g.Map.Depth, rec.Depth)
	}
	return g, nil
}
