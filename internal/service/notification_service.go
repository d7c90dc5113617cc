// Package service contains the application's business logic layer.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"projecthub/internal/featureflags"
	"projecthub/internal/middleware"
	"projecthub/internal/models"
	"projecthub/internal/notifications"
	"projecthub/internal/observability"
	"projecthub/internal/repository"
)

// Delivery is the per-recipient result of a notification fan-out. A non-nil
// Err means that one recipient was skipped; the rest of the fan-out still
// ran.
type Delivery struct {
	RecipientID uint
	Err         error
}

// NotificationService persists notifications and hands them off for
// real-time delivery. Fan-out never fails the triggering operation: every
// error is captured in the returned deliveries and logged.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	commentRepo      repository.CommentRepository
	userRepo         repository.UserRepository
	notifier         *notifications.Notifier
	flags            *featureflags.Manager
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
	flags *featureflags.Manager,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		commentRepo:      commentRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		flags:            flags,
	}
}

// Notify persists a single notification and publishes it. Events where the
// actor is the recipient are suppressed and return a zero-value Delivery
// with the recipient ID and nil error.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID uint, eventType, title, message string, projectID, commentID *uint) Delivery {
	if recipientID == actorID {
		return Delivery{RecipientID: recipientID}
	}

	n := &models.Notification{
		UserID:    recipientID,
		ActorID:   actorID,
		Type:      eventType,
		Title:     title,
		Message:   message,
		ProjectID: projectID,
		CommentID: commentID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		observability.RecordFanout(eventType, err)
		middleware.Logger.ErrorContext(ctx, "notification persist failed",
			slog.Uint64("recipient_id", uint64(recipientID)),
			slog.String("type", eventType),
			slog.String("error", err.Error()),
		)
		return Delivery{RecipientID: recipientID, Err: err}
	}

	s.publish(ctx, n)
	observability.RecordFanout(eventType, nil)
	return Delivery{RecipientID: recipientID}
}

// publish hands the event to the real-time channel, best effort.
func (s *NotificationService) publish(ctx context.Context, n *models.Notification) {
	if s.notifier == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := s.notifier.PublishUser(ctx, n.UserID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.Uint64("recipient_id", uint64(n.UserID)),
			slog.String("error", err.Error()),
		)
	}
}

// actorName resolves the acting user's display name. Lookup failures fall
// back to a generic name rather than dropping the notification.
func (s *NotificationService) actorName(ctx context.Context, actorID uint) string {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil || actor == nil || actor.Name == "" {
		return "User"
	}
	return actor.Name
}

// FanoutLike notifies the project owner about a new like.
func (s *NotificationService) FanoutLike(ctx context.Context, project *models.Project, actorID uint) []Delivery {
	if project.UserID == actorID {
		return []Delivery{{RecipientID: actorID}}
	}
	return []Delivery{
		s.Notify(ctx, project.UserID, actorID, models.NotificationLike,
			"New like on your project",
			fmt.Sprintf("%s liked your project %q", s.actorName(ctx, actorID), project.Name),
			&project.ID, nil),
	}
}

// FanoutComment notifies the project owner and every prior commenter on the
// project, except the actor and the owner (who gets the owner notification,
// not a commenter one). Extra user IDs in exclude are also skipped in the
// commenter pass; replies use this to keep the parent author out, since they
// get a dedicated reply notification instead.
func (s *NotificationService) FanoutComment(ctx context.Context, project *models.Project, actorID, commentID uint, exclude ...uint) []Delivery {
	name := s.actorName(ctx, actorID)

	var deliveries []Delivery
	if project.UserID != actorID {
		deliveries = append(deliveries,
			s.Notify(ctx, project.UserID, actorID, models.NotificationComment,
				"New comment on your project",
				fmt.Sprintf("%s commented on your project %q", name, project.Name),
				&project.ID, &commentID))
	}

	skip := append([]uint{actorID, project.UserID}, exclude...)
	commenters, err := s.commentRepo.PriorCommenters(ctx, project.ID, skip)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "comment fan-out recipient lookup failed",
			slog.Uint64("project_id", uint64(project.ID)),
			slog.String("error", err.Error()),
		)
		return append(deliveries, Delivery{Err: err})
	}

	for _, recipientID := range commenters {
		deliveries = append(deliveries,
			s.Notify(ctx, recipientID, actorID, models.NotificationComment,
				"New comment on a project you commented on",
				fmt.Sprintf("%s also commented on %q", name, project.Name),
				&project.ID, &commentID))
	}
	return deliveries
}

// FanoutReply notifies the parent comment's author, unless they reply to
// themselves.
func (s *NotificationService) FanoutReply(ctx context.Context, project *models.Project, parent *models.Comment, actorID, replyID uint) []Delivery {
	if parent.UserID == actorID {
		return []Delivery{{RecipientID: actorID}}
	}
	return []Delivery{
		s.Notify(ctx, parent.UserID, actorID, models.NotificationComment,
			"New reply to your comment",
			fmt.Sprintf("%s replied to your comment on %q", s.actorName(ctx, actorID), project.Name),
			&project.ID, &replyID),
	}
}

// FanoutFollow notifies a user about their new follower.
func (s *NotificationService) FanoutFollow(ctx context.Context, followedID, actorID uint) []Delivery {
	if followedID == actorID {
		return []Delivery{{RecipientID: actorID}}
	}
	return []Delivery{
		s.Notify(ctx, followedID, actorID, models.NotificationFollow,
			"New follower",
			fmt.Sprintf("%s started following you", s.actorName(ctx, actorID)),
			nil, nil),
	}
}

// FanoutMessage notifies the receiver of a new direct message. The message
// body doubles as the notification body.
func (s *NotificationService) FanoutMessage(ctx context.Context, receiverID, actorID uint, content string) []Delivery {
	if receiverID == actorID {
		return []Delivery{{RecipientID: actorID}}
	}
	return []Delivery{
		s.Notify(ctx, receiverID, actorID, models.NotificationMessage,
			fmt.Sprintf("%s has sent a new message", s.actorName(ctx, actorID)),
			content,
			nil, nil),
	}
}

// FanoutOrgProject notifies every member of the creator's organization about
// a new project. Private projects and projects without an organization fan
// out to nobody.
func (s *NotificationService) FanoutOrgProject(ctx context.Context, project *models.Project, creatorID uint) []Delivery {
	if project.Organization == "" || project.Privacy == models.PrivacyPrivate {
		return nil
	}
	if !s.flags.EnabledOr(featureflags.FlagOrgProjectFanout, creatorID, true) {
		return nil
	}

	memberIDs, err := s.userRepo.OrgMemberIDs(ctx, project.Organization, creatorID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "org fan-out recipient lookup failed",
			slog.String("organization", project.Organization),
			slog.String("error", err.Error()),
		)
		return []Delivery{{Err: err}}
	}

	name := s.actorName(ctx, creatorID)
	deliveries := make([]Delivery, 0, len(memberIDs))
	for _, recipientID := range memberIDs {
		deliveries = append(deliveries,
			s.Notify(ctx, recipientID, creatorID, models.NotificationOrgProject,
				"New project in your organization",
				fmt.Sprintf("%s created a new project %q in %s", name, project.Name, project.Organization),
				&project.ID, nil))
	}
	return deliveries
}

// List returns a page of the user's notifications.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, page, limit)
}

// CountUnread returns the user's unread notification count.
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	ok, err := s.notificationRepo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !ok {
		return models.NewNotFoundError("Notification", notificationID)
	}
	return nil
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	ok, err := s.notificationRepo.Delete(ctx, userID, notificationID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !ok {
		return models.NewNotFoundError("Notification", notificationID)
	}
	return nil
}
