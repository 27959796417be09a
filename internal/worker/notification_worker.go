package worker

import (
	"github.com/spec-kit/sweet-shop/internal/service"
)

// StartNotificationWorker registers stock notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
