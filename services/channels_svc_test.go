package services

import (
	"testing"

	"github.com/feedhub-io/feedhub/helpers"
	"github.com/feedhub-io/feedhub/models"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChannelValidatesFieldsSchema(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")

	cs := NewChannelService(db, testConfig())

	channel, err := cs.CreateChannel(models.Channel{
		ProjectID:    project.ID,
		Name:         "ratings",
		FieldsSchema: ratingSchema,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "", channel.ID.String())

	// malformed schema is rejected before anything is stored
	_, err = cs.CreateChannel(models.Channel{
		ProjectID: project.ID,
		Name:      "broken",
		FieldsSchema: models.JSONMap{
			"type":     12,
			"required": "rating",
		},
	})
	assert.True(t, errors.Is(err, helpers.ErrValidation))

	var count int64
	require.NoError(t, db.Model(&models.Channel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateChannelConflict(t *testing.T) {
	db := newTestDB(t)
	project := createProject(t, db, "acme")

	cs := NewChannelService(db, testConfig())

	_, err := cs.CreateChannel(models.Channel{ProjectID: project.ID, Name: "web"})
	require.NoError(t, err)

	_, err = cs.CreateChannel(models.Channel{ProjectID: project.ID, Name: "web"})
	assert.True(t, errors.Is(err, helpers.ErrConflict))

	// same name in another project is fine
	other := createProject(t, db, "other")
	_, err = cs.CreateChannel(models.Channel{ProjectID: other.ID, Name: "web"})
	assert.NoError(t, err)
}
