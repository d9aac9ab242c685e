package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/luminax-app/luminax_api/dto"
	"github.com/luminax-app/luminax_api/model"
	"github.com/luminax-app/luminax_api/shared"
)

// CommunityService covers study groups, their posts and likes. Like
// counts are bumped with column expressions next to the unique like
// row, so a double tap can never double count.
type CommunityService struct {
	context.DefaultService

	sqlSvc *SqlService
}

const COMMUNITY_SVC = "community_svc"

func (svc CommunityService) Id() string {
	return COMMUNITY_SVC
}

func (svc *CommunityService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CommunityService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// CreateCommunity also enrolls the creator as its first member.
func (svc *CommunityService) CreateCommunity(userID string, req dto.CreateCommunityRequest) (*dto.CommunityResponse, error) {
	id, _ := uuid.NewV7()
	community := &model.Community{
		ID:          id.String(),
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		MemberCount: 1,
		CreatedBy:   userID,
	}

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(community).Error; err != nil {
			return err
		}
		memberID, _ := uuid.NewV7()
		return tx.Create(&model.CommunityMember{
			ID:          memberID.String(),
			CommunityID: community.ID,
			UserID:      userID,
			JoinedAt:    time.Now(),
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, shared.NewConflictError("Community name already taken")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"community_id": community.ID,
		"user_id":      userID,
	}).Info("Community created")

	resp := svc.toCommunityResponse(community, true)
	return &resp, nil
}

func (svc *CommunityService) ListCommunities(userID string, limit int) (*dto.CommunityListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	communities, err := svc.sqlSvc.ListCommunities(limit)
	if err != nil {
		return nil, err
	}

	memberOf := map[string]bool{}
	if userID != "" {
		ids, err := svc.sqlSvc.GetMemberCommunityIDs(userID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			memberOf[id] = true
		}
	}

	resp := &dto.CommunityListResponse{Communities: make([]dto.CommunityResponse, 0, len(communities))}
	for i := range communities {
		resp.Communities = append(resp.Communities, svc.toCommunityResponse(&communities[i], memberOf[communities[i].ID]))
	}
	return resp, nil
}

func (svc *CommunityService) MyCommunities(userID string) (*dto.CommunityListResponse, error) {
	ids, err := svc.sqlSvc.GetMemberCommunityIDs(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CommunityListResponse{Communities: []dto.CommunityResponse{}}
	if len(ids) == 0 {
		return resp, nil
	}

	var communities []model.Community
	err = svc.sqlSvc.Db().Where("id IN ?", ids).Order("name ASC").Find(&communities).Error
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	for i := range communities {
		resp.Communities = append(resp.Communities, svc.toCommunityResponse(&communities[i], true))
	}
	return resp, nil
}

func (svc *CommunityService) Join(userID, communityID string) error {
	if _, err := svc.sqlSvc.GetCommunity(communityID); err != nil {
		return err
	}

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		memberID, _ := uuid.NewV7()
		if err := tx.Create(&model.CommunityMember{
			ID:          memberID.String(),
			CommunityID: communityID,
			UserID:      userID,
			JoinedAt:    time.Now(),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Community{}).
			Where("id = ?", communityID).
			Update("member_count", gorm.Expr("member_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewConflictError("Already a member")
		}
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

func (svc *CommunityService) Leave(userID, communityID string) error {
	return svc.sqlSvc.HandleError(svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.CommunityMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.Community{}).
			Where("id = ? AND member_count > 0", communityID).
			Update("member_count", gorm.Expr("member_count - 1")).Error
	}))
}

func (svc *CommunityService) CreatePost(userID, communityID string, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	member, err := svc.isMember(userID, communityID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, shared.NewForbiddenError("Join the community before posting")
	}

	id, _ := uuid.NewV7()
	post := &model.CommunityPost{
		ID:          id.String(),
		CommunityID: communityID,
		UserID:      userID,
		Content:     req.Content,
	}
	if err := svc.sqlSvc.Db().Create(post).Error; err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	user, err := svc.sqlSvc.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	return &dto.PostResponse{
		ID:          post.ID,
		CommunityID: post.CommunityID,
		UserID:      post.UserID,
		Username:    user.Username,
		Content:     post.Content,
		CreatedAt:   post.CreatedAt,
	}, nil
}

func (svc *CommunityService) ListPosts(userID, communityID string, limit int) (*dto.PostListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	if _, err := svc.sqlSvc.GetCommunity(communityID); err != nil {
		return nil, err
	}

	posts, err := svc.sqlSvc.GetCommunityPosts(communityID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	users, err := svc.sqlSvc.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	liked := map[string]bool{}
	if userID != "" && len(posts) > 0 {
		postIDs := make([]string, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
		}
		var likes []model.PostLike
		err = svc.sqlSvc.Db().Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		for _, l := range likes {
			liked[l.PostID] = true
		}
	}

	resp := &dto.PostListResponse{Posts: make([]dto.PostResponse, 0, len(posts))}
	for _, p := range posts {
		resp.Posts = append(resp.Posts, dto.PostResponse{
			ID:          p.ID,
			CommunityID: p.CommunityID,
			UserID:      p.UserID,
			Username:    users[p.UserID].Username,
			Content:     p.Content,
			LikeCount:   p.LikeCount,
			Liked:       liked[p.ID],
			CreatedAt:   p.CreatedAt,
		})
	}
	return resp, nil
}

// LikePost inserts the like row and bumps the counter in one
// transaction; the unique index turns a repeat like into a conflict.
func (svc *CommunityService) LikePost(userID, postID string) error {
	var post model.CommunityPost
	if err := svc.sqlSvc.Db().First(&post, "id = ?", postID).Error; err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		likeID, _ := uuid.NewV7()
		if err := tx.Create(&model.PostLike{
			ID:     likeID.String(),
			PostID: postID,
			UserID: userID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&model.CommunityPost{}).
			Where("id = ?", postID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewConflictError("Post already liked")
		}
		return svc.sqlSvc.HandleError(err)
	}
	return nil
}

// DeletePost removes the author's own post together with its likes.
func (svc *CommunityService) DeletePost(userID, postID string) error {
	var post model.CommunityPost
	if err := svc.sqlSvc.Db().First(&post, "id = ?", postID).Error; err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	if post.UserID != userID {
		return shared.NewForbiddenError("Only the author can delete a post")
	}

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CommunityPost{}, "id = ?", postID).Error
	})
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	log.WithFields(log.Fields{
		"post_id": postID,
		"user_id": userID,
	}).Info("Post deleted")
	return nil
}

func (svc *CommunityService) UnlikePost(userID, postID string) error {
	return svc.sqlSvc.HandleError(svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.CommunityPost{}).
			Where("id = ? AND like_count > 0", postID).
			Update("like_count", gorm.Expr("like_count - 1")).Error
	}))
}

func (svc *CommunityService) isMember(userID, communityID string) (bool, error) {
	var count int64
	err := svc.sqlSvc.Db().Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return false, svc.sqlSvc.HandleError(err)
	}
	return count > 0, nil
}

func (svc *CommunityService) toCommunityResponse(c *model.Community, isMember bool) dto.CommunityResponse {
	return dto.CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Subject:     c.Subject,
		MemberCount: c.MemberCount,
		IsMember:    isMember,
		CreatedAt:   c.CreatedAt,
	}
}
