package handlers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amixtum/dd2/pkg/api"
)

func TestWithPayload(t *testing.T) {
	var got api.DirectionPayload
	h := WithPayload(func(_ Context, p api.DirectionPayload) (Result, error) {
		got = p
		return TurnResult(), nil
	})

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"valid", `{"dx":1,"dy":-1}`, nil},
		{"empty", ``, ErrMissingPayload},
		{"zero", `{"dx":0,"dy":0}`, api.ErrZeroVector},
		{"too far", `{"dx":3,"dy":0}`, api.ErrStepTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h(Context{}, json.RawMessage(tt.raw))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.Equal(t, OutcomeTurn, res.Outcome)
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: -1}, got)

	_, err := h(Context{}, json.RawMessage(`{"dx":`))
	assert.Error(t, err, "malformed JSON")
}

func TestWithEmptyPayload(t *testing.T) {
	called := false
	h := WithEmptyPayload(func(_ Context) (Result, error) {
		called = true
		return Refuse("nope"), nil
	})

	res, err := h(Context{}, json.RawMessage(`{"ignored":true}`))
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "nope", res.Msg)
	assert.Equal(t, OutcomeNone, res.Outcome)
}
