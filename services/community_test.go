package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

func TestDeletePostByAuthorRemovesPostAndLikes(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	communitySvc := newTestCommunityService(sqlSvc)
	author := createTestUser(t, sqlSvc, "author")
	fan := createTestUser(t, sqlSvc, "fan")

	community, err := communitySvc.CreateCommunity(author.ID, dto.CreateCommunityRequest{
		Name:    "Physics Study Group",
		Subject: "physics",
	})
	require.NoError(t, err)

	post, err := communitySvc.CreatePost(author.ID, community.ID, dto.CreatePostRequest{
		Content: "Anyone up for mechanics revision?",
	})
	require.NoError(t, err)

	require.NoError(t, communitySvc.Join(fan.ID, community.ID))
	require.NoError(t, communitySvc.LikePost(fan.ID, post.ID))

	require.NoError(t, communitySvc.DeletePost(author.ID, post.ID))

	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.CommunityPost{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	require.NoError(t, sqlSvc.Db().Model(&model.PostLike{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeletePostRejectsNonAuthor(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	communitySvc := newTestCommunityService(sqlSvc)
	author := createTestUser(t, sqlSvc, "poster")
	other := createTestUser(t, sqlSvc, "bystander")

	community, err := communitySvc.CreateCommunity(author.ID, dto.CreateCommunityRequest{
		Name: "English Corner",
	})
	require.NoError(t, err)

	post, err := communitySvc.CreatePost(author.ID, community.ID, dto.CreatePostRequest{
		Content: "Essay swap this weekend",
	})
	require.NoError(t, err)

	err = communitySvc.DeletePost(other.ID, post.ID)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode)

	// The post survives.
	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.CommunityPost{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteUnknownPostNotFound(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	communitySvc := newTestCommunityService(sqlSvc)
	user := createTestUser(t, sqlSvc, "searcher2")

	err := communitySvc.DeletePost(user.ID, "no-such-post")
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
