package dto

import (
	"github.com/orris-inc/notifyd/internal/domain/notification"
	"github.com/orris-inc/notifyd/internal/shared/mapper"
)

type MarkdownService interface {
	ToHTMLSanitized(markdown string) (string, error)
}

func renderHTML(message string, markdownSvc MarkdownService) string {
	if markdownSvc == nil {
		return ""
	}
	html, err := markdownSvc.ToHTMLSanitized(message)
	if err != nil {
		return ""
	}
	return html
}

func ToNotificationItem(item *notification.FeedItem, markdownSvc MarkdownService) *NotificationItem {
	if item == nil || item.Notification == nil || item.Delivery == nil {
		return nil
	}
	n := item.Notification
	return &NotificationItem{
		ID:          n.ID(),
		Message:     n.Message(),
		MessageHTML: renderHTML(n.Message(), markdownSvc),
		CreatedAt:   n.CreatedAt(),
		IsRead:      item.Delivery.IsRead(),
		TargetURL:   n.TargetURL(),
	}
}

func ToNotificationItems(items []*notification.FeedItem, markdownSvc MarkdownService) []*NotificationItem {
	out := mapper.MapSlice(items, func(item *notification.FeedItem) *NotificationItem {
		return ToNotificationItem(item, markdownSvc)
	})
	if out == nil {
		out = []*NotificationItem{}
	}
	return out
}

func ToNotificationResponse(n *notification.Notification, markdownSvc MarkdownService) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:                n.ID(),
		Message:           n.Message(),
		MessageHTML:       renderHTML(n.Message(), markdownSvc),
		TargetURL:         n.TargetURL(),
		RecipientUsername: n.Target().RecipientUsername(),
		RoleTargets:       n.Target().Strings(),
		CreatedAt:         n.CreatedAt(),
	}
}
