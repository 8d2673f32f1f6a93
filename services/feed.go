package services

// FeedPublisher pushes change events to the realtime feed watched by the UI.
// Publishing is best-effort; services never depend on it for correctness.
type FeedPublisher interface {
	PublishTableEvent(tableID string, event map[string]interface{})
}

func publishEvent(feed FeedPublisher, tableID, eventType string, newValue, oldValue interface{}) {
	if feed == nil {
		return
	}
	event := map[string]interface{}{"eventType": eventType}
	if newValue != nil {
		event["new"] = newValue
	}
	if oldValue != nil {
		event["old"] = oldValue
	}
	feed.PublishTableEvent(tableID, event)
}
