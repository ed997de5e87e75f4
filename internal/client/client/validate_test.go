package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr string
	}{
		{
			name: "ok",
			req:  RegisterRequest{Name: "Ada", Email: "ada@uni.edu", Password: "secret1"},
		},
		{
			name:    "missing name",
			req:     RegisterRequest{Email: "ada@uni.edu", Password: "secret1"},
			wantErr: "invalid input: name is required",
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Name: "Ada", Email: "ada", Password: "secret1"},
			wantErr: "invalid input: email must be a valid email address",
		},
		{
			name:    "short password and missing email",
			req:     RegisterRequest{Name: "Ada", Password: "pw"},
			wantErr: "invalid input: email is required; password must be at least 6 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.EqualError(t, err, tt.wantErr)
			assert.False(t, IsRetryable(err))
		})
	}
}

func TestRegister_InvalidNeverSent(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	})
	c := newTestClient(t, h, &fakeTokens{})

	err := c.Register(context.Background(), RegisterRequest{Name: "Ada", Email: "nope", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = c.Login(context.Background(), "", "")
	require.ErrorIs(t, err, ErrInvalidInput)

	assert.Zero(t, calls.Load())
}
