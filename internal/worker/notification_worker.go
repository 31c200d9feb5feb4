package worker

import (
	"github.com/ticketflow/ticketflow/internal/service"
)

// StartNotificationWorker subscribes the notification handlers. Delivery
// runs synchronously on the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
