package hn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"canceled", &TransportError{URL: "u", Err: fmt.Errorf("execute request: %w", context.Canceled)}, "canceled"},
		{"not found", &DecodeError{URL: "u", Err: ErrNotFound}, "not_found"},
		{"decode", &DecodeError{URL: "u", Err: errors.New("unexpected EOF")}, "decode"},
		{"status", &TransportError{URL: "u", StatusCode: 502}, "status"},
		{"transport", &TransportError{URL: "u", Err: errors.New("connection refused")}, "transport"},
		{"other", errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "http://x/v0/item/1.json: unexpected status: 404",
		(&TransportError{URL: "http://x/v0/item/1.json", StatusCode: 404}).Error())
	assert.Equal(t, "http://x: decode response: item not found",
		(&DecodeError{URL: "http://x", Err: ErrNotFound}).Error())
}
