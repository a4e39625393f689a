package viewer

import (
	"context"
	"errors"
	"testing"

	"learner-portal/internal/auth"

	"github.com/stretchr/testify/assert"
)

func TestFromWithoutViewerIsAnonymous(t *testing.T) {
	v := From(context.Background())
	assert.False(t, v.Authenticated())

	user, err := v.CurrentUser(context.Background())
	assert.Nil(t, user)
	assert.NoError(t, err)
}

func TestRoundTrip(t *testing.T) {
	lookupErr := errors.New("redis down")
	ctx := With(context.Background(), &Viewer{User: &auth.User{ID: "user-1"}, LookupErr: lookupErr})

	v := From(ctx)
	assert.True(t, v.Authenticated())

	user, err := v.CurrentUser(ctx)
	assert.Equal(t, "user-1", user.ID)
	assert.ErrorIs(t, err, lookupErr)
}
