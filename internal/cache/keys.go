package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix          = "user:%d"
	ProjectKeyPrefix       = "project:%d"
	ProfileKeyPrefix       = "profile:%s"
	OrgMembersKeyPrefix    = "org:%s:members"
	ProjectFeedKeyPrefix   = "feed:p%d:l%d"
	ConversationsKeyPrefix = "conversations:%d"
)

const (
	UserTTL          = 5 * time.Minute
	ProjectTTL       = 10 * time.Minute
	ProfileTTL       = 5 * time.Minute
	OrgMembersTTL    = 10 * time.Minute
	ProjectFeedTTL   = 1 * time.Minute
	ConversationsTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProjectKey(projectID uint) string {
	return fmt.Sprintf(ProjectKeyPrefix, projectID)
}

func ProfileKey(username string) string {
	return fmt.Sprintf(ProfileKeyPrefix, username)
}

func OrgMembersKey(org string) string {
	return fmt.Sprintf(OrgMembersKeyPrefix, org)
}

// ProjectFeedKey caches the public, unauthenticated feed only. Viewer
// specific feeds are never cached.
func ProjectFeedKey(page, limit int) string {
	return fmt.Sprintf(ProjectFeedKeyPrefix, page, limit)
}

func ConversationsKey(userID uint) string {
	return fmt.Sprintf(ConversationsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateProject(ctx context.Context, projectID uint) {
	Invalidate(ctx, ProjectKey(projectID))
}

func InvalidateProfile(ctx context.Context, username string) {
	Invalidate(ctx, ProfileKey(username))
}

func InvalidateOrgMembers(ctx context.Context, org string) {
	if org != "" {
		Invalidate(ctx, OrgMembersKey(org))
	}
}

func InvalidateConversations(ctx context.Context, userID uint) {
	Invalidate(ctx, ConversationsKey(userID))
}

// InvalidatePublicFeed drops all cached public feed pages.
func InvalidatePublicFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
