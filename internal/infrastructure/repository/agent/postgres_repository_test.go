package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/infrastructure/database/databasetest"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

func TestRepository_FindByIDIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(databasetest.Open(t))

	require.NoError(t, repo.Save(ctx, &domain.Agent{
		ID: "a1", TenantID: "t1", Name: "Sofía", Tone: domain.ToneFriendly, Language: "es", UseEmojis: true, Active: true,
	}))

	found, err := repo.FindByID(ctx, "t1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Sofía", found.Name)
	assert.Equal(t, domain.ToneFriendly, found.Tone)
	assert.True(t, found.UseEmojis)

	_, err = repo.FindByID(ctx, "t2", "a1")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
